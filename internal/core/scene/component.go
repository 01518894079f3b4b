package scene

import (
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/pkg/math3d"
)

// Component is a capability attached to exactly one Entity. An entity holds
// at most one component per type.
type Component interface {
	// Type is the key the component occupies in its entity.
	Type() string
	Description() string
	Entity() *Entity
	// LoadFromTree reads the component state stored under path.
	LoadFromTree(path string, tree *ptree.Tree) error
	// SaveToTree writes the component state under path.
	SaveToTree(path string, tree *ptree.Tree) error
	// Destroy releases the component and clears its slot in the entity.
	Destroy()
}

// TransformListener is implemented by components that follow the entity
// transform. The entity calls it after every position or orientation change
// when the component sits in the RigidBodyType slot.
type TransformListener interface {
	OnTransformChanged(position math3d.Vec3, orientation math3d.Quat)
}

// RigidBodyType is the slot the entity forwards transforms to.
const RigidBodyType = "RigidBody"

// BaseComponent carries the owner, type tag and description. Concrete
// components embed it and call Attach from their constructor.
type BaseComponent struct {
	kind        string
	description string
	owner       *Entity
	self        Component
	destroyed   bool
}

// NewBaseComponent returns an unattached base for a component of kind.
func NewBaseComponent(kind, description string) BaseComponent {
	return BaseComponent{kind: kind, description: description}
}

// Attach inserts self into owner under the component type. A component
// already in that slot is replaced but not destroyed.
func (b *BaseComponent) Attach(owner *Entity, self Component) error {
	if owner == nil {
		return ErrNilEntity
	}
	if owner.destroyed {
		return ErrEntityDestroyed
	}
	b.owner = owner
	b.self = self
	owner.attach(b.kind, self)
	return nil
}

func (b *BaseComponent) Type() string {
	return b.kind
}

func (b *BaseComponent) Description() string {
	return b.description
}

func (b *BaseComponent) SetDescription(d string) {
	b.description = d
}

func (b *BaseComponent) Entity() *Entity {
	return b.owner
}

// Destroyed reports whether Destroy ran.
func (b *BaseComponent) Destroyed() bool {
	return b.destroyed
}

// Destroy sets the owner's slot for this type to nil. The key stays in the
// map. Calling it more than once is a no-op.
func (b *BaseComponent) Destroy() {
	if b.destroyed || b.owner == nil {
		return
	}
	b.destroyed = true
	b.owner.detach(b.kind, b.self)
}

// Logger returns the owner's logger tagged with the component type.
func (b *BaseComponent) Logger() log.Log {
	return b.owner.logger.With(log.String("component_type", b.kind))
}
