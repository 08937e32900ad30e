package tetra

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Locate finds the cell containing pos by walking the mesh from
// *hint: at each step the walk crosses the face opposite the most
// negative barycentric coordinate, lowest index winning ties, which
// descends greedily toward the target cell. On success the returned
// weights are all non-negative, *hint points at the containing cell
// for the next nearby query and ok is true.
//
// Locate fails when pos is outside the mesh hull or, pathologically,
// when the walk exceeds one step per mesh vertex; *hint is then left
// unchanged. A nil hint samples without temporal coherence.
func (m *Mesh) Locate(pos r3.Vec, hint *int) (weights [4]float64, ok bool) {
	if len(m.Tetrahedrons) == 0 {
		return weights, false
	}
	var scratch int
	if hint == nil {
		hint = &scratch
	}
	cell := *hint
	if cell < 0 || cell >= len(m.Tetrahedrons) {
		cell = 0
	}
	for iter := 0; iter < len(m.Vertices); iter++ {
		weights = m.Barycentric(cell, pos)
		if weights[0] >= 0 && weights[1] >= 0 && weights[2] >= 0 && weights[3] >= 0 {
			*hint = cell
			return weights, true
		}
		worst := 0
		for i := 1; i < 4; i++ {
			if weights[i] < weights[worst] {
				worst = i
			}
		}
		cell = m.Tetrahedrons[cell].Neighbors[worst]
		if cell == none {
			// Walked off the hull: pos is outside the mesh.
			return weights, false
		}
	}
	return weights, false
}

// SampleScalar interpolates one scalar per mesh vertex at pos,
// blending the four corner values of the containing cell by its
// barycentric weights. Out-of-hull positions return 0.
func (m *Mesh) SampleScalar(pos r3.Vec, hint *int, values []float64) float64 {
	var scratch int
	if hint == nil {
		hint = &scratch
	}
	weights, ok := m.Locate(pos, hint)
	if !ok {
		return 0
	}
	cell := &m.Tetrahedrons[*hint]
	var v float64
	for i := 0; i < 4; i++ {
		v += weights[i] * values[cell.Indices[i]]
	}
	return v
}

// Sampler interpolates caller-owned per-vertex vector payloads, such
// as irradiance coefficients, over a built mesh. Values is parallel
// to Mesh.Vertices and is never modified.
//
// A Sampler may be shared by concurrent readers as long as each
// caller owns its hint.
type Sampler struct {
	Mesh   *Mesh
	Values []r3.Vec
}

// NewSampler pairs a built mesh with one payload value per vertex.
func NewSampler(m *Mesh, values []r3.Vec) (*Sampler, error) {
	if len(values) != len(m.Vertices) {
		return nil, errors.New("tetra: payload length does not match vertex count")
	}
	return &Sampler{Mesh: m, Values: values}, nil
}

// Sample blends the payload values of the cell containing pos using
// its barycentric weights. Positions outside the mesh hull return the
// zero vector; callers wanting a different policy can test Locate
// directly or clamp with Mesh.NearestVertex.
func (s *Sampler) Sample(pos r3.Vec, hint *int) r3.Vec {
	var scratch int
	if hint == nil {
		hint = &scratch
	}
	weights, ok := s.Mesh.Locate(pos, hint)
	if !ok {
		return r3.Vec{}
	}
	cell := &s.Mesh.Tetrahedrons[*hint]
	var v r3.Vec
	for i := 0; i < 4; i++ {
		v = r3.Add(v, r3.Scale(weights[i], s.Values[cell.Indices[i]]))
	}
	return v
}
