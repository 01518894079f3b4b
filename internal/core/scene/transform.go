package scene

import (
	"fmt"

	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/pkg/math3d"
)

func (e *Entity) PositionAbs() math3d.Vec3    { return e.posAbs }
func (e *Entity) PositionRel() math3d.Vec3    { return e.posRel }
func (e *Entity) OrientationAbs() math3d.Quat { return e.oriAbs }
func (e *Entity) OrientationRel() math3d.Quat { return e.oriRel }

// SetPositionAbs moves the entity to world position v.
func (e *Entity) SetPositionAbs(v math3d.Vec3) {
	e.posAbs = v
	e.posRel = v.Sub(e.parentPosition())
	e.updateChildrenPosition()
	e.syncBody()
}

// SetPositionRel moves the entity to v relative to its parent.
func (e *Entity) SetPositionRel(v math3d.Vec3) {
	e.posRel = v
	e.posAbs = e.parentPosition().Add(v)
	e.updateChildrenPosition()
	e.syncBody()
}

// SetOrientationAbs sets the world orientation. q is normalized.
func (e *Entity) SetOrientationAbs(q math3d.Quat) {
	q = q.Normal()
	e.lastOri = e.oriAbs
	e.oriAbs = q
	e.oriRel = e.parentOrientation().Inverse().Mul(q).Normal()
	e.updateChildrenOrientation()
	e.syncBody()
}

// SetOrientationRel sets the orientation relative to the parent. q is
// normalized.
func (e *Entity) SetOrientationRel(q math3d.Quat) {
	q = q.Normal()
	e.lastOri = e.oriAbs
	e.oriRel = q
	e.oriAbs = e.parentOrientation().Mul(q).Normal()
	e.updateChildrenOrientation()
	e.syncBody()
}

// Translate moves the entity by d expressed in space.
func (e *Entity) Translate(d math3d.Vec3, space Space) error {
	switch space {
	case SpaceLocal:
		e.SetPositionRel(e.posRel.Add(e.oriAbs.Rotate(d)))
	case SpaceParent:
		e.SetPositionRel(e.posRel.Add(e.parentOrientation().Rotate(d)))
	case SpaceGlobal:
		e.SetPositionRel(e.posRel.Add(d))
	default:
		e.logger.Error("translate in invalid space", log.Int("space", int(space)))
		return fmt.Errorf("%w: %d", ErrInvalidSpace, int(space))
	}
	return nil
}

// Rotate applies delta in space. Local rotations are applied after the
// current one, parent and global rotations before it.
func (e *Entity) Rotate(delta math3d.Quat, space Space) error {
	switch space {
	case SpaceLocal:
		e.SetOrientationRel(e.oriRel.Mul(delta))
	case SpaceParent:
		e.SetOrientationRel(delta.Mul(e.oriRel))
	case SpaceGlobal:
		e.SetOrientationAbs(delta.Mul(e.oriAbs))
	default:
		e.logger.Error("rotate in invalid space", log.Int("space", int(space)))
		return fmt.Errorf("%w: %d", ErrInvalidSpace, int(space))
	}
	return nil
}

// RotateAxis rotates by degrees around axis in space.
func (e *Entity) RotateAxis(axis math3d.Vec3, degrees float32, space Space) error {
	return e.Rotate(math3d.QuatAxisAngle(axis, math3d.DegToRad(degrees)), space)
}

// LookAt orients the entity so its forward (-Z) axis points at target.
func (e *Entity) LookAt(target, up math3d.Vec3) {
	e.SetOrientationAbs(math3d.LookAt(e.posAbs, target, up))
}

func (e *Entity) parentPosition() math3d.Vec3 {
	if e.parent == nil {
		return math3d.Zero
	}
	return e.parent.posAbs
}

func (e *Entity) parentOrientation() math3d.Quat {
	if e.parent == nil {
		return math3d.Identity
	}
	return e.parent.oriAbs
}

// updateChildrenPosition re-applies each child's relative position so its
// absolute position follows the parent.
func (e *Entity) updateChildrenPosition() {
	for _, child := range e.children {
		child.SetPositionRel(child.posRel)
	}
}

// updateChildrenOrientation applies the rotation between the previous and
// the current absolute orientation to every child: its offset is rotated
// and its absolute orientation is pre-multiplied.
func (e *Entity) updateChildrenOrientation() {
	if len(e.children) == 0 {
		return
	}
	delta := e.oriAbs.Mul(e.lastOri.Inverse()).Normal()
	for _, child := range e.children {
		rel := delta.Rotate(child.posRel)
		child.SetOrientationAbs(delta.Mul(child.oriAbs))
		child.SetPositionRel(rel)
	}
}

func (e *Entity) syncBody() {
	c := e.components[RigidBodyType]
	if c == nil {
		return
	}
	if l, ok := c.(TransformListener); ok {
		l.OnTransformChanged(e.posAbs, e.oriAbs)
	}
}
