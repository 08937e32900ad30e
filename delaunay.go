package tetra

import (
	"fmt"
	"math"

	"github.com/soypat/tetra/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// circumsphere solves for the sphere passing through the four corners
// of cell. The radius is inflated by largeEpsilon so that borderline
// containment tests during retriangulation err on the inclusive side.
func (m *Mesh) circumsphere(cell int) (d3.Sphere, error) {
	p := m.CellVertices(cell)
	u1 := r3.Sub(p[1], p[0])
	u2 := r3.Sub(p[2], p[0])
	u3 := r3.Sub(p[3], p[0])
	num := r3.Add(
		r3.Add(
			r3.Scale(r3.Norm2(u1), r3.Cross(u2, u3)),
			r3.Scale(r3.Norm2(u2), r3.Cross(u3, u1)),
		),
		r3.Scale(r3.Norm2(u3), r3.Cross(u1, u2)),
	)
	den := 2 * r3.Dot(u1, r3.Cross(u2, u3))
	if math.Abs(den) <= epsilon {
		return d3.Sphere{}, ErrDegenerate
	}
	r0 := r3.Scale(1/den, num)
	center := r3.Add(p[0], r0)
	radius := r3.Norm(r0)
	for _, v := range p[1:] {
		radius = math.Max(radius, r3.Norm(r3.Sub(v, center)))
	}
	return d3.Sphere{C: center, R: radius + largeEpsilon}, nil
}

// holeFace is one triangle of the cavity boundary formed by removing
// bad cells around a newly inserted point.
type holeFace struct {
	// vertex indices of the triangle.
	indices [3]int
	// neighbors[i] is the cavity face sharing the edge opposite
	// indices[i], filled in as faces are linked by shared edges.
	neighbors [3]int
	// tet is the surviving cell just outside this face, none when the
	// face was already on the mesh hull. tetFace is the neighbor slot
	// of tet that looks into the cavity.
	tet     int
	tetFace int
}

// face returns the triangle face of t opposite vertex i, tagged with
// the bordering outer cell and its face slot.
func (t *Tetrahedron) face(i, tet, tetFace int) holeFace {
	f := holeFace{
		neighbors: [3]int{none, none, none},
		tet:       tet,
		tetFace:   tetFace,
	}
	k := 0
	for j := 0; j < 4; j++ {
		if j != i {
			f.indices[k] = t.Indices[j]
			k++
		}
	}
	return f
}

// holeSurface accumulates cavity boundary faces and links faces that
// share an edge. The cavity must form a closed 2-manifold: every edge
// shared by exactly two faces.
type holeSurface struct {
	faces []holeFace
	// edge (lower vertex index first) to the face and slot waiting
	// for its pair across that edge.
	edges       map[[2]int]holeEdge
	nonManifold bool
}

type holeEdge struct {
	face, slot int
	paired     bool
}

func (h *holeSurface) reset() {
	h.faces = h.faces[:0]
	h.edges = make(map[[2]int]holeEdge, 32)
	h.nonManifold = false
}

func (h *holeSurface) add(f holeFace) {
	fi := len(h.faces)
	h.faces = append(h.faces, f)
	for slot := 0; slot < 3; slot++ {
		edge := [2]int{f.indices[(slot+1)%3], f.indices[(slot+2)%3]}
		if edge[0] > edge[1] {
			edge[0], edge[1] = edge[1], edge[0]
		}
		e, ok := h.edges[edge]
		switch {
		case !ok:
			h.edges[edge] = holeEdge{face: fi, slot: slot}
		case e.paired:
			// Third face on one edge.
			h.nonManifold = true
		default:
			h.faces[fi].neighbors[slot] = e.face
			h.faces[e.face].neighbors[e.slot] = fi
			e.paired = true
			h.edges[edge] = e
		}
	}
}

func (h *holeSurface) isClosed() bool {
	if h.nonManifold {
		return false
	}
	for i := range h.faces {
		for _, n := range h.faces[i].neighbors {
			if n == none {
				return false
			}
		}
	}
	return true
}

// triangulator carries the scratch state of one Define call:
// per-cell circumspheres, dead flags for removed or recycled cell
// slots and reusable queues.
type triangulator struct {
	m       *Mesh
	spheres []d3.Sphere
	dead    []bool
	bad     []int
	queue   []int
	hole    holeSurface
}

// addVertices inserts points one at a time into the super-mesh by
// Bowyer-Watson retriangulation, then culls every cell touching a
// super-mesh corner and renumbers the survivors densely.
func (m *Mesh) addVertices(points []r3.Vec) error {
	tr := triangulator{
		m:       m,
		spheres: make([]d3.Sphere, len(m.Tetrahedrons)),
		dead:    make([]bool, len(m.Tetrahedrons)),
	}
	for i := range m.Tetrahedrons {
		sph, err := m.circumsphere(i)
		if err != nil {
			return fmt.Errorf("tetra: super-mesh cell %d: %w", i, err)
		}
		tr.spheres[i] = sph
	}
	for i, p := range points {
		if err := tr.insert(p); err != nil {
			return fmt.Errorf("tetra: inserting point %d %v: %w", i, p, err)
		}
	}
	if err := tr.cull(); err != nil {
		return err
	}
	return m.computeBases()
}

func (tr *triangulator) insert(p r3.Vec) error {
	m := tr.m
	newIndex := len(m.Vertices)
	m.Vertices = append(m.Vertices, p)

	tr.bad = tr.bad[:0]
	tr.queue = tr.queue[:0]
	tr.hole.reset()

	// Seed the cavity with any live cell whose circumsphere contains p.
	// The super-mesh guarantees one exists for in-bounds points.
	for ci := range m.Tetrahedrons {
		if !tr.dead[ci] && tr.spheres[ci].Contains(p) {
			tr.bad = append(tr.bad, ci)
			tr.queue = append(tr.queue, ci)
			tr.dead[ci] = true
			break
		}
	}
	if len(tr.bad) == 0 {
		return ErrNoContainingCell
	}

	// Breadth-first expansion over neighbor links. Expansion stops at
	// cells whose circumsphere excludes p; the face between a bad cell
	// and such a cell, or a hull face of a bad cell, bounds the cavity.
	for qi := 0; qi < len(tr.queue); qi++ {
		ci := tr.queue[qi]
		for j := 0; j < 4; j++ {
			next := m.Tetrahedrons[ci].Neighbors[j]
			if next == none {
				// Hull face closes the cavity.
				cell := &m.Tetrahedrons[ci]
				tr.hole.add(cell.face(j, none, none))
				continue
			}
			if tr.dead[next] {
				continue
			}
			if tr.spheres[next].Contains(p) {
				tr.bad = append(tr.bad, next)
				tr.queue = append(tr.queue, next)
				tr.dead[next] = true
				continue
			}
			// Record the face of the outer cell that looks at ci so the
			// replacement cell can link back through it.
			outer := &m.Tetrahedrons[next]
			slot := none
			for k := 0; k < 4; k++ {
				if outer.Neighbors[k] == ci {
					slot = k
					break
				}
			}
			if slot == none {
				panic("tetra: adjacency desync during cavity search")
			}
			tr.hole.add(outer.face(slot, next, slot))
		}
	}

	if !tr.hole.isClosed() {
		return ErrOpenHull
	}

	// One replacement cell per cavity face, recycling bad cell slots
	// and growing the arrays when the cavity has more faces than bad
	// cells, which happens whenever p was outside the previous hull.
	for len(tr.hole.faces) > len(tr.bad) {
		tr.bad = append(tr.bad, len(m.Tetrahedrons))
		m.Tetrahedrons = append(m.Tetrahedrons, Tetrahedron{})
		tr.spheres = append(tr.spheres, d3.Sphere{})
		tr.dead = append(tr.dead, true)
	}
	for i := range tr.hole.faces {
		face := &tr.hole.faces[i]
		ci := tr.bad[i]
		cell := Tetrahedron{}
		for j := 0; j < 3; j++ {
			cell.Indices[j] = face.indices[j]
			cell.Neighbors[j] = tr.bad[face.neighbors[j]]
		}
		cell.Indices[3] = newIndex
		cell.Neighbors[3] = face.tet
		m.Tetrahedrons[ci] = cell
		if face.tet != none {
			m.Tetrahedrons[face.tet].Neighbors[face.tetFace] = ci
		}
		tr.dead[ci] = false
		sph, err := m.circumsphere(ci)
		if err != nil {
			return err
		}
		tr.spheres[ci] = sph
	}
	// Bad cell slots beyond the cavity face count stay dead and are
	// swept out by cull.
	return nil
}

// cull removes every cell touching a super-mesh corner vertex along
// with slots left dead by insertion, strips the corner vertices and
// renumbers cells and vertices densely.
func (tr *triangulator) cull() error {
	m := tr.m
	for ci := range m.Tetrahedrons {
		cell := &m.Tetrahedrons[ci]
		for _, vi := range cell.Indices {
			if vi < numSuperVertices {
				tr.dead[ci] = true
				break
			}
		}
		if !tr.dead[ci] {
			continue
		}
		// Clear dangling references in surviving neighbors.
		for _, ni := range cell.Neighbors {
			if ni == none {
				continue
			}
			neighbor := &m.Tetrahedrons[ni]
			for k := 0; k < 4; k++ {
				if neighbor.Neighbors[k] == ci {
					neighbor.Neighbors[k] = none
				}
			}
		}
	}

	cells := m.Tetrahedrons
	remap := make([]int, len(cells))
	m.Tetrahedrons = cells[:0:0]
	for ci := range cells {
		if tr.dead[ci] {
			remap[ci] = none
			continue
		}
		remap[ci] = len(m.Tetrahedrons)
		m.Tetrahedrons = append(m.Tetrahedrons, cells[ci])
	}
	for ci := range m.Tetrahedrons {
		cell := &m.Tetrahedrons[ci]
		for i, ni := range cell.Neighbors {
			if ni == none {
				continue
			}
			if remap[ni] == none {
				panic("tetra: surviving cell neighbors a culled cell")
			}
			cell.Neighbors[i] = remap[ni]
		}
		for i := range cell.Indices {
			cell.Indices[i] -= numSuperVertices
		}
	}
	m.Vertices = append([]r3.Vec(nil), m.Vertices[numSuperVertices:]...)
	return nil
}

// computeBases caches each cell's inverse affine basis and checks
// that barycentric coordinates of the cell's own corners reproduce
// the unit basis vectors, validating both the inverse and the index
// ordering.
func (m *Mesh) computeBases() error {
	for ci := range m.Tetrahedrons {
		cell := &m.Tetrahedrons[ci]
		p := m.CellVertices(ci)
		basis := d3.Mat3FromCols(
			r3.Sub(p[1], p[0]),
			r3.Sub(p[2], p[0]),
			r3.Sub(p[3], p[0]),
		)
		if basis.Det() == 0 {
			return fmt.Errorf("tetra: cell %d: %w", ci, ErrDegenerate)
		}
		cell.basis = basis.Inverse()
		for i := 0; i < 4; i++ {
			w := m.Barycentric(ci, p[i])
			for j := 0; j < 4; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				// Negated comparison also catches NaN weights from a
				// near-singular basis.
				if !(math.Abs(w[j]-want) <= basisTol) {
					return fmt.Errorf("tetra: cell %d basis self-check failed at corner %d: got %v", ci, i, w)
				}
			}
		}
	}
	return nil
}
