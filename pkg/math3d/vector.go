// Package math3d is a small float32 vector, quaternion and 3x3 matrix
// package for scene transforms.
package math3d

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
)

// Epsilon is the default tolerance used by approximate comparisons.
const Epsilon float32 = 1e-4

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// Vec3 is a 3D vector with X, Y and Z components.
type Vec3 struct {
	X float32
	Y float32
	Z float32
}

func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

var (
	Zero  = Vec3{}
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) MulScalar(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSq())
}

// Normal returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normal() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.MulScalar(1 / l)
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return math32.Abs(v.X-o.X) <= eps &&
		math32.Abs(v.Y-o.Y) <= eps &&
		math32.Abs(v.Z-o.Z) <= eps
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ParseFloat parses one float32 argument.
func ParseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return float32(f), nil
}

// ParseVec3 parses the first three arguments as a vector.
func ParseVec3(args []string) (Vec3, error) {
	if len(args) < 3 {
		return Vec3{}, fmt.Errorf("expected 3 components, got %d", len(args))
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := ParseFloat(args[i])
		if err != nil {
			return Vec3{}, err
		}
		out[i] = f
	}
	return Vec3{out[0], out[1], out[2]}, nil
}

// Floats returns the components as a slice, used by tree persistence.
func (v Vec3) Floats() []float32 {
	return []float32{v.X, v.Y, v.Z}
}
