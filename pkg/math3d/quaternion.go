package math3d

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Quat is quaternion with X,Y,Z and W components.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

// Identity is the rotation that does nothing.
var Identity = Quat{W: 1}

func NewQuat(x, y, z, w float32) Quat {
	return Quat{X: x, Y: y, Z: z, W: w}
}

// QuatAxisAngle returns the rotation of angle radians around axis.
// The axis is normalized first.
func QuatAxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Normal()
	s := math32.Sin(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math32.Cos(angle / 2),
	}
}

// Mul returns q * o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.X*o.W + q.W*o.X + q.Y*o.Z - q.Z*o.Y,
		Y: q.Y*o.W + q.W*o.Y + q.Z*o.X - q.X*o.Z,
		Z: q.Z*o.W + q.W*o.Z + q.X*o.Y - q.Y*o.X,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Inverse returns the inverse rotation. A zero quaternion inverts to identity.
func (q Quat) Inverse() Quat {
	l := q.LengthSq()
	if l == 0 {
		return Identity
	}
	c := q.Conjugate()
	inv := 1 / l
	return Quat{X: c.X * inv, Y: c.Y * inv, Z: c.Z * inv, W: c.W * inv}
}

func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quat) LengthSq() float32 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
}

func (q Quat) Length() float32 {
	return math32.Sqrt(q.LengthSq())
}

// Normal returns q scaled to unit length; a zero quaternion becomes identity.
func (q Quat) Normal() Quat {
	l := q.Length()
	if l == 0 {
		return Identity
	}
	l = 1 / l
	return Quat{X: q.X * l, Y: q.Y * l, Z: q.Z * l, W: q.W * l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u×v) + 2u×(u×v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.W)).Add(u.Cross(t))
}

// ApproxEqual compares rotations, treating q and -q as the same rotation.
func (q Quat) ApproxEqual(o Quat, eps float32) bool {
	return math32.Abs(math32.Abs(q.Normal().Dot(o.Normal()))-1) <= eps
}

// AxisAngle returns the rotation axis and angle in radians.
func (q Quat) AxisAngle() (Vec3, float32) {
	n := q.Normal()
	if n.W < 0 {
		n = Quat{-n.X, -n.Y, -n.Z, -n.W}
	}
	angle := 2 * math32.Acos(clamp(n.W, -1, 1))
	s := math32.Sqrt(1 - n.W*n.W)
	if s < 1e-6 {
		return UnitX, 0
	}
	return Vec3{n.X / s, n.Y / s, n.Z / s}, angle
}

func (q Quat) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}

// Floats returns x, y, z, w, used by tree persistence.
func (q Quat) Floats() []float32 {
	return []float32{q.X, q.Y, q.Z, q.W}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
