// Package tetra implements incremental 3D Delaunay tetrahedralization
// over a point cloud and fast point-location queries against the
// resulting mesh for barycentric interpolation of per-vertex data,
// such as baked light probe irradiance.
package tetra

import (
	"errors"
	"fmt"

	"github.com/soypat/tetra/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// epsilon below which a tetrahedron is considered degenerate.
	epsilon = 1e-6
	// largeEpsilon inflates circumsphere radii to absorb floating
	// point error in later inside/outside tests.
	largeEpsilon = 5e-5
	// basisTol is the tolerance of the barycentric basis self check
	// run at the end of Define.
	basisTol = 1e-4
)

// none marks an absent cell index. A tetrahedron neighbor equal to
// none faces the mesh hull.
const none = -1

// Errors returned by Define. All of them indicate broken input,
// typically duplicate or near-coplanar points.
var (
	ErrDegenerate       = errors.New("degenerate tetrahedron circumsphere")
	ErrNoContainingCell = errors.New("no circumsphere contains point")
	ErrOpenHull         = errors.New("retriangulation hole surface is not closed")
)

// Tetrahedron is a mesh cell: four vertex indices and four neighbor
// cell indices. Neighbors[i] shares the face opposite Indices[i] and
// is none when that face lies on the mesh hull. The vertex ordering
// fixes the affine basis used for barycentric coordinates.
type Tetrahedron struct {
	Indices   [4]int
	Neighbors [4]int
	// inverse of the affine basis matrix [v1-v0, v2-v0, v3-v0].
	basis d3.Mat3
}

// Mesh is a Delaunay tetrahedralization of a point cloud. Build it
// with Define. A built Mesh is immutable and safe for concurrent
// read-only queries.
type Mesh struct {
	// Vertices are the input points, in input order.
	Vertices []r3.Vec
	// Tetrahedrons are the mesh cells with mutually consistent
	// adjacency.
	Tetrahedrons []Tetrahedron
	// HullNormals holds one outward normal per vertex, accumulated
	// over incident hull faces. Zero for interior vertices.
	HullNormals []r3.Vec

	tree *kdtree.Tree
}

// Define discards any previous mesh contents and builds the Delaunay
// tetrahedralization of points. The triangulation starts from a
// bounding box enlarged by padding on every axis so that no input
// point touches the initial hull. Inputs of one or two points yield a
// valid mesh with zero cells which fails all Locate queries.
// Duplicate points break the triangulation and fail with an error.
func (m *Mesh) Define(points []r3.Vec, padding float64) error {
	if len(points) == 0 {
		return errors.New("tetra: empty point slice")
	}
	if padding < 0 {
		return errors.New("tetra: negative padding")
	}
	m.Reset()
	bb := d3.Box{Min: d3.Set(points).Min(), Max: d3.Set(points).Max()}
	bb = bb.Enlarge(d3.Elem(2 * padding))
	m.initSuperMesh(bb)
	if err := m.addVertices(points); err != nil {
		m.Reset()
		return err
	}
	m.generateHullNormals()
	m.tree = kdtree.New(makeProbeSet(m.Vertices), true)
	return nil
}

// Reset discards vertices, cells and hull normals wholesale.
func (m *Mesh) Reset() {
	*m = Mesh{}
}

// Barycentric returns the weights (w0,w1,w2,w3) of pos with respect
// to the four vertices of cell such that
//  pos = w0*v0 + w1*v1 + w2*v2 + w3*v3
// The weights sum to 1 for any pos. They are all non-negative if and
// only if pos lies inside the cell.
func (m *Mesh) Barycentric(cell int, pos r3.Vec) [4]float64 {
	t := &m.Tetrahedrons[cell]
	w := t.basis.MulVec(r3.Sub(pos, m.Vertices[t.Indices[0]]))
	return [4]float64{1 - w.X - w.Y - w.Z, w.X, w.Y, w.Z}
}

// CellVertices returns the positions of the four corners of cell.
func (m *Mesh) CellVertices(cell int) [4]r3.Vec {
	t := &m.Tetrahedrons[cell]
	return [4]r3.Vec{
		m.Vertices[t.Indices[0]],
		m.Vertices[t.Indices[1]],
		m.Vertices[t.Indices[2]],
		m.Vertices[t.Indices[3]],
	}
}

// Validate performs sanity checks on mesh topology: index bounds and
// adjacency symmetry, i.e. if cell A lists cell B as a neighbor then
// B must list A. Returns nil if no issues were found. You normally
// should not need to call this function but it can be useful for
// debugging.
func (m *Mesh) Validate() error {
	for ci := range m.Tetrahedrons {
		cell := &m.Tetrahedrons[ci]
		for i := 0; i < 4; i++ {
			if cell.Indices[i] < 0 || cell.Indices[i] >= len(m.Vertices) {
				return fmt.Errorf("tetra: cell %d vertex index %d out of range", ci, cell.Indices[i])
			}
			ni := cell.Neighbors[i]
			if ni == none {
				continue
			}
			if ni < 0 || ni >= len(m.Tetrahedrons) {
				return fmt.Errorf("tetra: cell %d neighbor index %d out of range", ci, ni)
			}
			neighbor := &m.Tetrahedrons[ni]
			found := false
			for j := 0; j < 4; j++ {
				if neighbor.Neighbors[j] == ci {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("tetra: asymmetric adjacency between cells %d and %d", ci, ni)
			}
		}
	}
	return nil
}

// Super-mesh decomposition of the enlarged bounding box: 8 corner
// vertices and 5 tetrahedra, four corner cells around one central
// cell. The tables are a fixed topology, not derived.
var (
	superOffsets = [8]r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 1},
		{X: 1, Y: 1, Z: 1},
	}
	superIndices = [5][4]int{
		{0, 1, 2, 4}, // corner cell at vertex 0.
		{3, 1, 2, 7}, // corner cell at vertex 3.
		{5, 1, 4, 7}, // corner cell at vertex 5.
		{6, 2, 4, 7}, // corner cell at vertex 6.
		{1, 2, 4, 7}, // central cell.
	}
	superNeighbors = [5][4]int{
		{4, none, none, none},
		{4, none, none, none},
		{4, none, none, none},
		{4, none, none, none},
		{3, 2, 1, 0},
	}
)

// numSuperVertices is the count of temporary box corner vertices
// stripped from the mesh after triangulation.
const numSuperVertices = len(superOffsets)

func (m *Mesh) initSuperMesh(bb d3.Box) {
	size := bb.Size()
	m.Vertices = make([]r3.Vec, numSuperVertices, numSuperVertices+16)
	for i, offset := range superOffsets {
		m.Vertices[i] = r3.Add(bb.Min, d3.MulElem(size, offset))
	}
	m.Tetrahedrons = make([]Tetrahedron, len(superIndices))
	for i := range m.Tetrahedrons {
		m.Tetrahedrons[i] = Tetrahedron{
			Indices:   superIndices[i],
			Neighbors: superNeighbors[i],
		}
	}
}
