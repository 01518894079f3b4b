package scene

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

// Entity is a node of the scene tree. It owns its children and components
// and keeps its absolute and parent-relative transforms consistent.
type Entity struct {
	*terminal.Object

	scene    *Scene
	parent   *Entity
	children map[string]*Entity

	// components may hold nil values: a destroyed component leaves its key.
	components map[string]Component

	posAbs  math3d.Vec3
	posRel  math3d.Vec3
	oriAbs  math3d.Quat
	oriRel  math3d.Quat
	lastOri math3d.Quat

	logger    log.Log
	destroyed bool
}

func newEntity(s *Scene, name string, parent *Entity) *Entity {
	e := &Entity{
		Object:     terminal.NewObject(s.terminal, name),
		scene:      s,
		parent:     parent,
		children:   make(map[string]*Entity),
		components: make(map[string]Component),
		oriAbs:     math3d.Identity,
		oriRel:     math3d.Identity,
		lastOri:    math3d.Identity,
		logger:     s.logger.With(log.String("entity", name)),
	}
	if parent != nil {
		e.posAbs = parent.posAbs
		e.oriAbs = parent.oriAbs
		e.lastOri = parent.oriAbs
	}
	e.registerCommands()
	return e
}

func (e *Entity) Scene() *Scene   { return e.scene }
func (e *Entity) Device() Device  { return e.scene.device }
func (e *Entity) Parent() *Entity { return e.parent }
func (e *Entity) IsRoot() bool    { return e == e.scene.root }

// Destroyed reports whether the entity was removed from the tree.
func (e *Entity) Destroyed() bool { return e.destroyed }

// AddChild creates a child named name. The name must be a single word
// without ObjectNameSeparator and unused by any other entity or terminal
// object.
func (e *Entity) AddChild(name string) (*Entity, error) {
	if e.destroyed {
		return nil, ErrEntityDestroyed
	}
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) || strings.HasPrefix(name, "#") ||
		strings.Contains(name, ObjectNameSeparator) {
		e.logger.Error("invalid child name", log.String("child", name))
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, taken := e.scene.terminal.FindObject(name); taken || name == RootName || e.scene.registry.Contains(name) {
		e.logger.Error("duplicate entity name", log.String("child", name))
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	child := newEntity(e.scene, name, e)
	if err := e.scene.registry.add(child); err != nil {
		child.Object.Close()
		return nil, err
	}
	e.children[name] = child
	e.logger.Debug("child added", log.String("child", name))
	e.scene.publish(EventEntityCreated, EntityEvent{Name: name, Entity: child})
	return child, nil
}

// Child returns the direct child named name.
func (e *Entity) Child(name string) (*Entity, bool) {
	c, ok := e.children[name]
	return c, ok
}

// Children returns the direct children sorted by name.
func (e *Entity) Children() []*Entity {
	out := make([]*Entity, 0, len(e.children))
	for _, name := range slices.Sorted(maps.Keys(e.children)) {
		out = append(out, e.children[name])
	}
	return out
}

func (e *Entity) ChildCount() int {
	return len(e.children)
}

// RemoveChild destroys child and its whole subtree.
func (e *Entity) RemoveChild(child *Entity) error {
	if child == nil || child.parent != e || e.children[child.Name()] != child {
		return ErrNotAChild
	}
	delete(e.children, child.Name())
	child.destroy()
	return nil
}

// RemoveChildByName destroys the direct child named name.
func (e *Entity) RemoveChildByName(name string) error {
	child, ok := e.children[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotAChild, name)
	}
	return e.RemoveChild(child)
}

// RemoveAllChildren destroys every child subtree and then clears the whole
// entity registry, including entities outside this subtree.
func (e *Entity) RemoveAllChildren() {
	for _, child := range e.Children() {
		child.destroy()
	}
	clear(e.children)
	e.scene.registry.Clear()
}

// destroy tears down the components, then the children, then the entity
// itself.
func (e *Entity) destroy() {
	if e.destroyed {
		return
	}
	for _, c := range e.components {
		if c != nil {
			c.Destroy()
		}
	}
	clear(e.components)

	for _, child := range e.Children() {
		child.destroy()
	}
	clear(e.children)

	e.scene.registry.remove(e)
	e.Object.Close()
	e.parent = nil
	e.destroyed = true
	e.logger.Debug("entity destroyed")
	e.scene.publish(EventEntityDestroyed, EntityEvent{Name: e.Name(), Entity: e})
}

// Component returns the component in the kind slot, which may be nil.
func (e *Entity) Component(kind string) Component {
	return e.components[kind]
}

// HasComponent reports whether a live component occupies the kind slot.
func (e *Entity) HasComponent(kind string) bool {
	return e.components[kind] != nil
}

// HasComponentSlot reports whether the kind key exists, even if its
// component was destroyed.
func (e *Entity) HasComponentSlot(kind string) bool {
	_, ok := e.components[kind]
	return ok
}

// ComponentTypes returns the types of live components, sorted.
func (e *Entity) ComponentTypes() []string {
	out := make([]string, 0, len(e.components))
	for kind, c := range e.components {
		if c != nil {
			out = append(out, kind)
		}
	}
	slices.Sort(out)
	return out
}

// AddComponent creates a component through the scene factory.
func (e *Entity) AddComponent(kind string) (Component, error) {
	if !e.scene.factory.Has(kind) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponentType, kind)
	}
	return e.scene.factory.Create(kind, e)
}

// RemoveComponent destroys the component in the kind slot.
func (e *Entity) RemoveComponent(kind string) bool {
	c := e.components[kind]
	if c == nil {
		return false
	}
	c.Destroy()
	return true
}

func (e *Entity) attach(kind string, c Component) {
	if prev := e.components[kind]; prev != nil && prev != c {
		e.logger.Warn("component replaced, previous component is orphaned",
			log.String("component_type", kind))
	}
	e.components[kind] = c
	e.scene.publish(EventComponentAttached, ComponentEvent{Type: kind, Entity: e, Component: c})
	e.syncBody()
}

// detach nulls the kind slot, whichever component currently holds it.
func (e *Entity) detach(kind string, c Component) {
	e.components[kind] = nil
	e.scene.publish(EventComponentDestroyed, ComponentEvent{Type: kind, Entity: e, Component: c})
}

// TreeToString renders the subtree, one entity per line indented by depth,
// with the live component types in brackets.
func (e *Entity) TreeToString() string {
	var b strings.Builder
	e.writeTree(&b, 0)
	return b.String()
}

func (e *Entity) writeTree(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(e.Name())
	if types := e.ComponentTypes(); len(types) > 0 {
		fmt.Fprintf(b, " [%s]", strings.Join(types, " "))
	}
	b.WriteByte('\n')
	for _, child := range e.Children() {
		child.writeTree(b, depth+1)
	}
}
