package tetra

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// NearestVertex returns the index of the mesh vertex closest to pos,
// or -1 for an empty mesh. Callers can use it to clamp out-of-hull
// sample positions to the payload of the nearest probe instead of
// accepting the zero fallback of Sampler.
func (m *Mesh) NearestVertex(pos r3.Vec) int {
	if m.tree == nil {
		return none
	}
	got, _ := m.tree.Nearest(probePoint{pos: pos, idx: none})
	return got.(probePoint).idx
}

// probePoint is a mesh vertex as a kd-tree element. idx survives the
// reordering done by kdtree.New.
type probePoint struct {
	pos r3.Vec
	idx int
}

func (p probePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(probePoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	case 2:
		return p.pos.Z - q.pos.Z
	}
	panic("unreachable")
}

func (p probePoint) Dims() int { return 3 }

func (p probePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(probePoint)
	return r3.Norm2(r3.Sub(p.pos, q.pos))
}

type probeSet []probePoint

func makeProbeSet(vertices []r3.Vec) probeSet {
	set := make(probeSet, len(vertices))
	for i, v := range vertices {
		set[i] = probePoint{pos: v, idx: i}
	}
	return set
}

// Index returns the ith element of the list of points.
func (s probeSet) Index(i int) kdtree.Comparable { return s[i] }

// Len returns the length of the list.
func (s probeSet) Len() int { return len(s) }

// Pivot partitions the list based on the dimension specified.
func (s probeSet) Pivot(d kdtree.Dim) int {
	p := probePlane{dim: int(d), set: s}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half open
// indexing equivalent to built-in slice indexing.
func (s probeSet) Slice(start, end int) kdtree.Interface { return s[start:end] }

// Bounds implements the kdtree.Bounder interface.
func (s probeSet) Bounds() *kdtree.Bounding {
	min := probePoint{pos: r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}, idx: none}
	max := probePoint{pos: r3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}, idx: none}
	for _, p := range s {
		min.pos.X = math.Min(min.pos.X, p.pos.X)
		min.pos.Y = math.Min(min.pos.Y, p.pos.Y)
		min.pos.Z = math.Min(min.pos.Z, p.pos.Z)
		max.pos.X = math.Max(max.pos.X, p.pos.X)
		max.pos.Y = math.Max(max.pos.Y, p.pos.Y)
		max.pos.Z = math.Max(max.pos.Z, p.pos.Z)
	}
	return &kdtree.Bounding{Min: min, Max: max}
}

type probePlane struct {
	dim int
	set probeSet
}

func (p probePlane) Less(i, j int) bool {
	return p.set[i].Compare(p.set[j], kdtree.Dim(p.dim)) < 0
}
func (p probePlane) Swap(i, j int) {
	p.set[i], p.set[j] = p.set[j], p.set[i]
}
func (p probePlane) Len() int { return len(p.set) }
func (p probePlane) Slice(start, end int) kdtree.SortSlicer {
	p.set = p.set[start:end]
	return p
}
