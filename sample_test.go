package tetra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func linearField(p r3.Vec) float64 {
	return 2*p.X + 3*p.Y + 5*p.Z
}

// Barycentric blending reproduces any linear field exactly, no matter
// how the cloud was decomposed into cells.
func TestSampleScalarLinearField(t *testing.T) {
	m, points := defineCloud(t, 40, 23)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = linearField(p)
	}
	hint := 0
	for ci := range m.Tetrahedrons {
		p := m.CellVertices(ci)
		pos := r3.Scale(0.25, r3.Add(r3.Add(p[0], p[1]), r3.Add(p[2], p[3])))
		got := m.SampleScalar(pos, &hint, values)
		assert.InDelta(t, linearField(pos), got, tol, "cell %d centroid", ci)
	}
}

func TestSamplerLinearField(t *testing.T) {
	m, points := defineCloud(t, 40, 29)
	// Payload equal to the probe position: interpolation must return
	// the queried position for any interior point.
	sampler, err := NewSampler(m, points)
	assert.NoError(t, err)
	hint := 0
	for ci := range m.Tetrahedrons {
		p := m.CellVertices(ci)
		pos := r3.Scale(0.25, r3.Add(r3.Add(p[0], p[1]), r3.Add(p[2], p[3])))
		got := sampler.Sample(pos, &hint)
		assert.InDelta(t, pos.X, got.X, tol)
		assert.InDelta(t, pos.Y, got.Y, tol)
		assert.InDelta(t, pos.Z, got.Z, tol)
		// The updated hint points at a cell containing pos.
		w := m.Barycentric(hint, pos)
		for i := 0; i < 4; i++ {
			assert.GreaterOrEqual(t, w[i], -tol, "hint cell weight %d", i)
		}
	}
}

func TestSampleOutsideHullFallback(t *testing.T) {
	m, points := defineCloud(t, 20, 31)
	sampler, err := NewSampler(m, points)
	assert.NoError(t, err)
	far := r3.Vec{X: 100, Y: 100, Z: 100}
	hint := 0
	assert.Equal(t, r3.Vec{}, sampler.Sample(far, &hint), "vector fallback")
	values := make([]float64, len(points))
	for i := range values {
		values[i] = 42
	}
	assert.Equal(t, 0.0, m.SampleScalar(far, &hint, values), "scalar fallback")
	// Failed locate leaves the hint unchanged.
	assert.Equal(t, 0, hint)
}

func TestSampleNilHint(t *testing.T) {
	m, points := defineCloud(t, 20, 37)
	sampler, err := NewSampler(m, points)
	assert.NoError(t, err)
	pos := m.CellVertices(0)
	centroid := r3.Scale(0.25, r3.Add(r3.Add(pos[0], pos[1]), r3.Add(pos[2], pos[3])))
	got := sampler.Sample(centroid, nil)
	assert.InDelta(t, centroid.X, got.X, tol)
}

func TestNewSamplerLengthMismatch(t *testing.T) {
	m, points := defineCloud(t, 10, 41)
	_, err := NewSampler(m, points[:len(points)-1])
	assert.Error(t, err)
}
