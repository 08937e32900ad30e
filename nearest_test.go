package tetra

import (
	"math"
	"testing"

	"github.com/soypat/tetra/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNearestVertex(t *testing.T) {
	m, points := defineCloud(t, 100, 43)
	bb := d3.Box{Min: d3.Elem(-0.5), Max: d3.Elem(1.5)}
	for i := 0; i < 50; i++ {
		q := bb.Random()
		got := m.NearestVertex(q)
		if got < 0 || got >= len(points) {
			t.Fatalf("vertex index %d out of range", got)
		}
		bestDist := math.MaxFloat64
		best := -1
		for vi, v := range points {
			if d := r3.Norm2(r3.Sub(q, v)); d < bestDist {
				bestDist = d
				best = vi
			}
		}
		if gotDist := r3.Norm2(r3.Sub(q, points[got])); math.Abs(gotDist-bestDist) > 1e-12 {
			t.Errorf("query %v: got vertex %d at dist2 %g, brute force found %d at %g",
				q, got, gotDist, best, bestDist)
		}
	}
}

func TestNearestVertexEmptyMesh(t *testing.T) {
	var m Mesh
	if got := m.NearestVertex(r3.Vec{}); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}
