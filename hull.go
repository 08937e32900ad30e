package tetra

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// generateHullNormals accumulates the outward normal of every
// neighbor-less face into the per-vertex normal of its three corners
// and normalizes the sums. Vertices with no incident hull face keep a
// zero normal.
func (m *Mesh) generateHullNormals() {
	m.HullNormals = make([]r3.Vec, len(m.Vertices))
	for ci := range m.Tetrahedrons {
		cell := &m.Tetrahedrons[ci]
		for i := 0; i < 4; i++ {
			if cell.Neighbors[i] != none {
				continue
			}
			tri, inner := m.hullFace(ci, i)
			p0 := m.Vertices[inner]
			p1 := m.Vertices[tri[0]]
			p2 := m.Vertices[tri[1]]
			p3 := m.Vertices[tri[2]]
			normal := r3.Cross(r3.Sub(p2, p1), r3.Sub(p3, p1))
			// Orient away from the interior vertex.
			if r3.Dot(normal, r3.Sub(p1, p0)) < 0 {
				normal = r3.Scale(-1, normal)
			}
			for _, vi := range tri {
				m.HullNormals[vi] = r3.Add(m.HullNormals[vi], normal)
			}
		}
	}
	for i, normal := range m.HullNormals {
		if normal != (r3.Vec{}) {
			m.HullNormals[i] = r3.Unit(normal)
		}
	}
}

// hullFace returns the vertex indices of the face of cell opposite
// corner i along with the index of the excluded interior corner.
func (m *Mesh) hullFace(cell, i int) (tri [3]int, inner int) {
	c := &m.Tetrahedrons[cell]
	k := 0
	for j := 0; j < 4; j++ {
		if j != i {
			tri[k] = c.Indices[j]
			k++
		} else {
			inner = c.Indices[j]
		}
	}
	return tri, inner
}

// HullFaces calls f for every face of the mesh with no neighboring
// cell, passing the face corner positions wound counter-clockwise
// seen from outside the mesh. The faces of a fully built mesh form a
// closed surface enclosing all input points.
func (m *Mesh) HullFaces(f func(p0, p1, p2 r3.Vec)) {
	for ci := range m.Tetrahedrons {
		for i := 0; i < 4; i++ {
			if m.Tetrahedrons[ci].Neighbors[i] != none {
				continue
			}
			tri, inner := m.hullFace(ci, i)
			p1 := m.Vertices[tri[0]]
			p2 := m.Vertices[tri[1]]
			p3 := m.Vertices[tri[2]]
			outward := r3.Cross(r3.Sub(p2, p1), r3.Sub(p3, p1))
			if r3.Dot(outward, r3.Sub(p1, m.Vertices[inner])) < 0 {
				p2, p3 = p3, p2
			}
			f(p1, p2, p3)
		}
	}
}
