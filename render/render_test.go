package render_test

import (
	"math/rand"
	"os"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/tetra"
	"github.com/soypat/tetra/internal/d3"
	"github.com/soypat/tetra/render"
	"gonum.org/v1/gonum/spatial/r3"
)

type viewConfig struct {
	// what position (point) to look at
	lookat r3.Vec
	// which way is up (direction)
	up r3.Vec
	// where the camera/eye located at (point)
	eyepos r3.Vec
	far    float64
	near   float64
}

// TestHullVisualization writes the hull of a probe cloud to STL and
// renders it to PNG, the debug path used when inspecting meshes by
// eye. Files are kept on failure.
func TestHullVisualization(t *testing.T) {
	rand.Seed(61)
	bb := d3.Box{Max: d3.Elem(1)}
	points := bb.RandomSet(40)
	var m tetra.Mesh
	if err := m.Define(points, 0.05); err != nil {
		t.Fatal(err)
	}
	model := render.HullTriangles(&m)
	if len(model) == 0 {
		t.Fatal("no hull triangles to render")
	}
	const (
		stlPath = "test_hull.stl"
		pngPath = "test_hull.png"
	)
	if err := render.CreateSTL(stlPath, model); err != nil {
		t.Fatal(err)
	}
	stlToPNG(t, stlPath, pngPath, viewConfig{
		up:     r3.Vec{Z: 1},
		eyepos: d3.Elem(3),
		near:   1,
		far:    10,
	})
	if !t.Failed() {
		os.Remove(stlPath)
		os.Remove(pngPath)
	}
}

func stlToPNG(t testing.TB, stlName, outputname string, view viewConfig) {
	mesh, err := fauxgl.LoadSTL(stlName)
	if err != nil {
		t.Fatal(err)
	}
	const (
		width, height = 960, 540 // output width and height in pixels
		scale         = 1        // optional supersampling
		fovy          = 30       // vertical field of view in degrees
	)

	var (
		far    = view.far
		near   = view.near
		eye    = fauxgl.V(view.eyepos.X, view.eyepos.Y, view.eyepos.Z) // camera position
		center = fauxgl.V(view.lookat.X, view.lookat.Y, view.lookat.Z) // view center position
		up     = fauxgl.V(view.up.X, view.up.Y, view.up.Z)             // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()                  // light direction
		color  = fauxgl.HexColor("#468966")                            // object color
	)

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	// create a rendering context
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	// create transformation matrix and light direction
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	// use builtin phong shader
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	// render
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	err = fauxgl.SavePNG(outputname, image)
	if err != nil {
		t.Fatal(err)
	}
}
