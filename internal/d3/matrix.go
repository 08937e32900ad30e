package d3

import "gonum.org/v1/gonum/spatial/r3"

// Mat3 is a dense 3x3 matrix stored row-major. It is small enough
// that the hand-rolled adjugate inverse beats general linear algebra
// machinery for the per-cell affine bases cached by meshes.
type Mat3 struct {
	x00, x01, x02 float64
	x10, x11, x12 float64
	x20, x21, x22 float64
}

// Mat3FromCols builds the matrix with columns c0, c1, c2.
func Mat3FromCols(c0, c1, c2 r3.Vec) Mat3 {
	return Mat3{
		c0.X, c1.X, c2.X,
		c0.Y, c1.Y, c2.Y,
		c0.Z, c1.Z, c2.Z,
	}
}

// Det returns the determinant of the matrix.
func (a Mat3) Det() float64 {
	return a.x00*(a.x11*a.x22-a.x12*a.x21) -
		a.x01*(a.x10*a.x22-a.x12*a.x20) +
		a.x02*(a.x10*a.x21-a.x11*a.x20)
}

// Inverse returns the inverse by the adjugate divided by the
// determinant. The caller is responsible for checking Det against
// singularity beforehand.
func (a Mat3) Inverse() Mat3 {
	d := 1 / a.Det()
	return Mat3{
		x00: (a.x11*a.x22 - a.x12*a.x21) * d,
		x01: (a.x02*a.x21 - a.x01*a.x22) * d,
		x02: (a.x01*a.x12 - a.x02*a.x11) * d,
		x10: (a.x12*a.x20 - a.x10*a.x22) * d,
		x11: (a.x00*a.x22 - a.x02*a.x20) * d,
		x12: (a.x02*a.x10 - a.x00*a.x12) * d,
		x20: (a.x10*a.x21 - a.x11*a.x20) * d,
		x21: (a.x01*a.x20 - a.x00*a.x21) * d,
		x22: (a.x00*a.x11 - a.x01*a.x10) * d,
	}
}

// MulVec returns the matrix-vector product a*v.
func (a Mat3) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: a.x00*v.X + a.x01*v.Y + a.x02*v.Z,
		Y: a.x10*v.X + a.x11*v.Y + a.x12*v.Z,
		Z: a.x20*v.X + a.x21*v.Y + a.x22*v.Z,
	}
}

// Mul returns the matrix product a*b.
func (a Mat3) Mul(b Mat3) Mat3 {
	return Mat3{
		x00: a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20,
		x01: a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21,
		x02: a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22,
		x10: a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20,
		x11: a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21,
		x12: a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22,
		x20: a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20,
		x21: a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21,
		x22: a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22,
	}
}

// Eye returns the 3x3 identity matrix.
func Eye() Mat3 {
	return Mat3{x00: 1, x11: 1, x22: 1}
}
