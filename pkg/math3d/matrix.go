package math3d

import "github.com/chewxy/math32"

// Mat3 is a 3x3 matrix stored in column-major order:
// element (row r, column c) is m[c*3+r].
type Mat3 [9]float32

// Mat3FromColumns builds a matrix whose columns are a, b and c.
func Mat3FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{a.X, a.Y, a.Z, b.X, b.Y, b.Z, c.X, c.Y, c.Z}
}

func (m Mat3) At(row, col int) float32 {
	return m[col*3+row]
}

// Quat converts a pure rotation matrix to a unit quaternion.
func (m Mat3) Quat() Quat {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)
	trace := m11 + m22 + m33

	var q Quat
	var s float32
	switch {
	case trace > 0:
		s = 0.5 / math32.Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (m32 - m23) * s
		q.Y = (m13 - m31) * s
		q.Z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s = 2.0 * math32.Sqrt(1.0+m11-m22-m33)
		q.W = (m32 - m23) / s
		q.X = 0.25 * s
		q.Y = (m12 + m21) / s
		q.Z = (m13 + m31) / s
	case m22 > m33:
		s = 2.0 * math32.Sqrt(1.0+m22-m11-m33)
		q.W = (m13 - m31) / s
		q.X = (m12 + m21) / s
		q.Y = 0.25 * s
		q.Z = (m23 + m32) / s
	default:
		s = 2.0 * math32.Sqrt(1.0+m33-m11-m22)
		q.W = (m21 - m12) / s
		q.X = (m13 + m31) / s
		q.Y = (m23 + m32) / s
		q.Z = 0.25 * s
	}
	return q.Normal()
}

// LookAt returns the orientation whose -Z axis points from eye towards
// target, using a right-handed basis built from up.
func LookAt(eye, target, up Vec3) Quat {
	forward := target.Sub(eye).Normal()
	if forward.LengthSq() == 0 {
		return Identity
	}
	side := forward.Cross(up).Normal()
	if side.LengthSq() == 0 {
		// up is parallel to forward; pick any perpendicular axis
		side = forward.Cross(UnitX).Normal()
		if side.LengthSq() == 0 {
			side = forward.Cross(UnitZ).Normal()
		}
	}
	realUp := side.Cross(forward)
	return Mat3FromColumns(side, realUp, forward.Negate()).Quat()
}
