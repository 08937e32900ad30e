package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func mat3EqualWithin(a, b Mat3, tol float64) bool {
	return math.Abs(a.x00-b.x00) <= tol && math.Abs(a.x01-b.x01) <= tol && math.Abs(a.x02-b.x02) <= tol &&
		math.Abs(a.x10-b.x10) <= tol && math.Abs(a.x11-b.x11) <= tol && math.Abs(a.x12-b.x12) <= tol &&
		math.Abs(a.x20-b.x20) <= tol && math.Abs(a.x21-b.x21) <= tol && math.Abs(a.x22-b.x22) <= tol
}

func TestMat3Inverse(t *testing.T) {
	const tol = 1e-12
	for _, test := range []struct {
		name string
		m    Mat3
	}{
		{name: "identity", m: Eye()},
		{name: "diagonal", m: Mat3FromCols(r3.Vec{X: 2}, r3.Vec{Y: 4}, r3.Vec{Z: 8})},
		{name: "skewed", m: Mat3FromCols(
			r3.Vec{X: 1, Y: 2, Z: 3},
			r3.Vec{X: 0, Y: 1, Z: 4},
			r3.Vec{X: 5, Y: 6, Z: 0},
		)},
	} {
		inv := test.m.Inverse()
		if !mat3EqualWithin(test.m.Mul(inv), Eye(), tol) {
			t.Errorf("%s: m*inv(m) != identity", test.name)
		}
		if !mat3EqualWithin(inv.Mul(test.m), Eye(), tol) {
			t.Errorf("%s: inv(m)*m != identity", test.name)
		}
	}
}

func TestMat3Det(t *testing.T) {
	m := Mat3FromCols(r3.Vec{X: 2}, r3.Vec{Y: 3}, r3.Vec{Z: 4})
	if got := m.Det(); got != 24 {
		t.Errorf("got determinant %g, want 24", got)
	}
	singular := Mat3FromCols(
		r3.Vec{X: 1, Y: 2, Z: 3},
		r3.Vec{X: 2, Y: 4, Z: 6},
		r3.Vec{X: 0, Y: 1, Z: 0},
	)
	if got := singular.Det(); math.Abs(got) > 1e-12 {
		t.Errorf("got determinant %g for singular matrix, want 0", got)
	}
}

func TestMat3MulVec(t *testing.T) {
	m := Mat3FromCols(
		r3.Vec{X: 1, Y: 0, Z: 0},
		r3.Vec{X: 1, Y: 1, Z: 0},
		r3.Vec{X: 1, Y: 1, Z: 1},
	)
	got := m.MulVec(r3.Vec{X: 1, Y: 2, Z: 3})
	want := r3.Vec{X: 6, Y: 5, Z: 3}
	if !EqualWithin(got, want, 1e-15) {
		t.Errorf("got %v, want %v", got, want)
	}
}
