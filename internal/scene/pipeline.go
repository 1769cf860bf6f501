package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scanline-renderer/internal/raster"
)

// Clip planes of the default projection.
const (
	Near = 0.1
	Far  = 100
)

// Pipeline composes projection, view and model matrices.
type Pipeline struct {
	Proj  mgl32.Mat4
	View  mgl32.Mat4
	Model mgl32.Mat4
}

// NewPipeline returns a perspective pipeline for a w×h target with the
// camera 3 units back from the origin.
func NewPipeline(w, h int, fovDeg float32) Pipeline {
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	return Pipeline{
		Proj:  mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, Near, Far),
		View:  mgl32.Translate3D(0, 0, -3),
		Model: mgl32.Ident4(),
	}
}

// AnimatedModel is the model matrix at t seconds: a sideways sway of
// 0.5·sin(t/2) combined with a rotation of 2π·sin(t/2) about (1,1,1).
func AnimatedModel(t float32) mgl32.Mat4 {
	s := math32.Sin(t / 2)
	axis := mgl32.Vec3{1, 1, 1}.Normalize()
	return mgl32.Translate3D(0.5*s, 0, 0).Mul4(mgl32.HomogRotate3D(2*math32.Pi*s, axis))
}

// MVP returns Proj·View·Model.
func (p Pipeline) MVP() mgl32.Mat4 {
	return p.Proj.Mul4(p.View).Mul4(p.Model)
}

// Project transforms a model-space point to normalized device coordinates.
// ok is false when the point is at or behind the camera plane.
func Project(mvp mgl32.Mat4, pt mgl32.Vec3) (ndc mgl32.Vec3, ok bool) {
	c := mvp.Mul4x1(pt.Vec4(1))
	if c.W() <= 0 {
		return mgl32.Vec3{}, false
	}
	return c.Vec3().Mul(1 / c.W()), true
}

// ScreenVertex maps an NDC point to a w×h pixel grid.
func ScreenVertex(ndc mgl32.Vec3, w, h int) raster.Vertex {
	return raster.ToScreen(float64(ndc.X()), float64(ndc.Y()), float64(ndc.Z()), w, h)
}
