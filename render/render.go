// Package render extracts triangle geometry from tetrahedral meshes
// and writes it to STL for external visualization tools.
package render

import (
	"github.com/soypat/tetra"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle defined by its three vertices.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle plane following the
// right hand rule on the vertex winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if the triangle has near identical vertices.
func (t Triangle3) Degenerate(tol float64) bool {
	equal := func(a, b r3.Vec) bool {
		return r3.Norm2(r3.Sub(a, b)) <= tol*tol
	}
	return equal(t[0], t[1]) || equal(t[1], t[2]) || equal(t[2], t[0])
}

// HullTriangles returns the boundary faces of the mesh wound
// counter-clockwise seen from outside, one triangle per face with no
// neighboring cell. An empty mesh yields no triangles.
func HullTriangles(m *tetra.Mesh) []Triangle3 {
	var model []Triangle3
	m.HullFaces(func(p0, p1, p2 r3.Vec) {
		model = append(model, Triangle3{p0, p1, p2})
	})
	return model
}

// CellTriangles returns the four faces of a single cell with outward
// winding, for inspecting one tetrahedron at a time.
func CellTriangles(m *tetra.Mesh, cell int) []Triangle3 {
	p := m.CellVertices(cell)
	centroid := r3.Scale(0.25, r3.Add(r3.Add(p[0], p[1]), r3.Add(p[2], p[3])))
	model := make([]Triangle3, 0, 4)
	for i := 0; i < 4; i++ {
		tri := Triangle3{p[(i+1)%4], p[(i+2)%4], p[(i+3)%4]}
		if r3.Dot(tri.Normal(), r3.Sub(tri[0], centroid)) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		model = append(model, tri)
	}
	return model
}
