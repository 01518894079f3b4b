// Package scenefile persists a scene as a property tree, written as YAML:
//
//	scene:
//	  components: {...}        # root components
//	  entities:
//	    cube:
//	      position: 0 1 0      # relative to the parent
//	      orientation: 0 0 0 1 # relative, x y z w
//	      components:
//	        Camera: {fov: "60", near: "0.1", far: "1000"}
//	      children: {...}
package scenefile

import (
	"fmt"
	"os"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/pkg/math3d"
)

const (
	keyScene       = "scene"
	keyEntities    = "entities"
	keyChildren    = "children"
	keyComponents  = "components"
	keyPosition    = "position"
	keyOrientation = "orientation"
)

// Save writes the whole scene below its root into a new tree.
func Save(s *scene.Scene) (*ptree.Tree, error) {
	tree := ptree.New()
	root := tree.AddChild(keyScene)
	if err := saveComponents(s.Root(), root); err != nil {
		return nil, err
	}
	if err := saveChildren(s.Root(), root.AddChild(keyEntities)); err != nil {
		return nil, err
	}
	return tree, nil
}

func saveChildren(parent *scene.Entity, node *ptree.Tree) error {
	for _, child := range parent.Children() {
		if err := saveEntity(child, node.AddChild(child.Name())); err != nil {
			return err
		}
	}
	return nil
}

func saveEntity(e *scene.Entity, node *ptree.Tree) error {
	node.PutVec3(keyPosition, e.PositionRel())
	node.PutQuat(keyOrientation, e.OrientationRel())
	if err := saveComponents(e, node); err != nil {
		return err
	}
	if e.ChildCount() > 0 {
		return saveChildren(e, node.AddChild(keyChildren))
	}
	return nil
}

func saveComponents(e *scene.Entity, node *ptree.Tree) error {
	types := e.ComponentTypes()
	if len(types) == 0 {
		return nil
	}
	comps := node.AddChild(keyComponents)
	for _, kind := range types {
		if err := e.Component(kind).SaveToTree(kind, comps); err != nil {
			return fmt.Errorf("save %s of %s: %w", kind, e.Name(), err)
		}
	}
	return nil
}

// Load adds the entities stored in tree below the scene root. Existing
// entities are kept, so loading an entity whose name is taken fails. When
// Load fails, the entities and root components it added are destroyed
// again; a root component of a type the root already had stays replaced.
func Load(s *scene.Scene, tree *ptree.Tree) (err error) {
	root, ok := tree.Child(keyScene)
	if !ok {
		return fmt.Errorf("%w: %s", ptree.ErrPathNotFound, keyScene)
	}

	undo := trackAdditions(s.Root())
	defer func() {
		if err != nil {
			undo()
		}
	}()

	if err := loadComponents(s.Root(), root); err != nil {
		return err
	}
	if entities, ok := root.Child(keyEntities); ok {
		return loadChildren(s.Root(), entities)
	}
	return nil
}

// trackAdditions returns a func destroying the children and components
// added to e since the call.
func trackAdditions(e *scene.Entity) func() {
	children := make(map[*scene.Entity]bool)
	for _, c := range e.Children() {
		children[c] = true
	}
	kinds := make(map[string]bool)
	for _, kind := range e.ComponentTypes() {
		kinds[kind] = true
	}
	return func() {
		for _, c := range e.Children() {
			if !children[c] {
				_ = e.RemoveChild(c)
			}
		}
		for _, kind := range e.ComponentTypes() {
			if !kinds[kind] {
				e.RemoveComponent(kind)
			}
		}
	}
}

func loadChildren(parent *scene.Entity, node *ptree.Tree) error {
	for _, name := range node.Keys() {
		child, _ := node.Child(name)
		e, err := parent.AddChild(name)
		if err != nil {
			return fmt.Errorf("load entity: %w", err)
		}
		if err := loadEntity(e, child); err != nil {
			return err
		}
	}
	return nil
}

func loadEntity(e *scene.Entity, node *ptree.Tree) error {
	pos, err := node.GetVec3(keyPosition, math3d.Zero)
	if err != nil {
		return fmt.Errorf("entity %s: %w", e.Name(), err)
	}
	ori, err := node.GetQuat(keyOrientation, math3d.Identity)
	if err != nil {
		return fmt.Errorf("entity %s: %w", e.Name(), err)
	}
	e.SetOrientationRel(ori)
	e.SetPositionRel(pos)

	if err := loadComponents(e, node); err != nil {
		return err
	}
	if children, ok := node.Child(keyChildren); ok {
		return loadChildren(e, children)
	}
	return nil
}

func loadComponents(e *scene.Entity, node *ptree.Tree) error {
	comps, ok := node.Child(keyComponents)
	if !ok {
		return nil
	}
	for _, kind := range comps.Keys() {
		c, err := e.AddComponent(kind)
		if err != nil {
			return fmt.Errorf("entity %s: %w", e.Name(), err)
		}
		if err := c.LoadFromTree(kind, comps); err != nil {
			return fmt.Errorf("load %s of %s: %w", kind, e.Name(), err)
		}
	}
	return nil
}

// SaveFile writes the scene to path as YAML.
func SaveFile(s *scene.Scene, path string) error {
	tree, err := Save(s)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	if err := ptree.Encode(f, tree); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a YAML scene file and loads it into s.
func LoadFile(s *scene.Scene, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	tree, err := ptree.Decode(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Load(s, tree); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
