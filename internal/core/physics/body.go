package physics

import (
	"fmt"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

// RigidBody is the physics state of an entity. It follows every transform
// change of its entity and is integrated by the World. Its object is
// "<entity>.body".
type RigidBody struct {
	scene.BaseComponent
	*terminal.Object

	world *World

	// Mass of zero makes the body static.
	Mass     float32
	Velocity math3d.Vec3
	Gravity  bool

	position    math3d.Vec3
	orientation math3d.Quat
}

var _ scene.TransformListener = (*RigidBody)(nil)

// NewRigidBody attaches a body to owner and adds it to w.
func NewRigidBody(owner *scene.Entity, w *World) (*RigidBody, error) {
	if owner == nil {
		return nil, scene.ErrNilEntity
	}
	b := &RigidBody{
		BaseComponent: scene.NewBaseComponent(scene.RigidBodyType, "rigid body"),
		Object:        terminal.NewObject(owner.Terminal(), scene.ObjectNameFor(owner, "body")),
		world:         w,
		Mass:          1,
		Gravity:       true,
		orientation:   math3d.Identity,
	}
	b.RegisterAttribute("mass", func(args []string) (string, error) {
		var m float32
		if _, err := scene.FloatAttribute(&m)(args); err != nil {
			return "", err
		}
		if m < 0 {
			return "", fmt.Errorf("%w: %g", ErrNegativeMass, m)
		}
		b.Mass = m
		return "", nil
	})
	b.RegisterAttribute("velocity", scene.Vec3Attribute(&b.Velocity))
	b.RegisterAttribute("gravity", scene.BoolAttribute(&b.Gravity))
	b.RegisterCommand("impulse", func(args []string) (string, error) {
		j, err := math3d.ParseVec3(args)
		if err != nil {
			return "", err
		}
		b.ApplyImpulse(j)
		return "", nil
	})
	b.RegisterCommand("stop", func([]string) (string, error) {
		b.Velocity = math3d.Zero
		return "", nil
	})
	b.RegisterCommand("print", func([]string) (string, error) {
		return fmt.Sprintf("mass=%g velocity=%s gravity=%t position=%s",
			b.Mass, b.Velocity, b.Gravity, b.position), nil
	})
	if err := b.Attach(owner, b); err != nil {
		b.Object.Close()
		return nil, err
	}
	if w != nil {
		w.add(b)
	}
	return b, nil
}

// OnTransformChanged records the entity transform.
func (b *RigidBody) OnTransformChanged(position math3d.Vec3, orientation math3d.Quat) {
	b.position = position
	b.orientation = orientation
}

func (b *RigidBody) Position() math3d.Vec3    { return b.position }
func (b *RigidBody) Orientation() math3d.Quat { return b.orientation }

// IsStatic reports whether the body ignores integration.
func (b *RigidBody) IsStatic() bool {
	return b.Mass == 0
}

// ApplyImpulse changes the velocity by j / mass. Static bodies ignore it.
func (b *RigidBody) ApplyImpulse(j math3d.Vec3) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(j.MulScalar(1 / b.Mass))
}

func (b *RigidBody) LoadFromTree(path string, tree *ptree.Tree) (err error) {
	if b.Mass, err = tree.GetFloat(scene.TreePath(path, "mass"), b.Mass); err != nil {
		return err
	}
	if b.Mass < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeMass, b.Mass)
	}
	if b.Velocity, err = tree.GetVec3(scene.TreePath(path, "velocity"), b.Velocity); err != nil {
		return err
	}
	b.Gravity, err = tree.GetBool(scene.TreePath(path, "gravity"), b.Gravity)
	return err
}

func (b *RigidBody) SaveToTree(path string, tree *ptree.Tree) error {
	tree.PutFloat(scene.TreePath(path, "mass"), b.Mass)
	tree.PutVec3(scene.TreePath(path, "velocity"), b.Velocity)
	tree.PutBool(scene.TreePath(path, "gravity"), b.Gravity)
	return nil
}

// Destroy removes the body from its world and its entity.
func (b *RigidBody) Destroy() {
	if b.world != nil {
		b.world.remove(b)
	}
	b.Object.Close()
	b.BaseComponent.Destroy()
}
