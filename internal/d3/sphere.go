package d3

import "gonum.org/v1/gonum/spatial/r3"

// Sphere is a 3d sphere with center C and radius R.
type Sphere struct {
	C r3.Vec
	R float64
}

// Contains returns true if v lies strictly inside the sphere.
func (s Sphere) Contains(v r3.Vec) bool {
	return r3.Norm2(r3.Sub(v, s.C)) < s.R*s.R
}
