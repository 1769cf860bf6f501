package scene

import (
	"image/color"
	"math"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/shade"
)

// Scene is a mesh drawn through a pipeline with flat per-face lighting.
type Scene struct {
	Mesh     []Triangle3D
	Pipeline Pipeline
	Light    shade.LightConfig
	Lit      bool // false paints faces with their base color
	Depth    bool // darken each face with distance instead of a flat fill
	Workers  int  // >1 splits each frame into row bands
}

// NewCubeScene returns the lit cube for a w×h target.
func NewCubeScene(w, h int, fovDeg float32) *Scene {
	return &Scene{
		Mesh:     Cube(),
		Pipeline: NewPipeline(w, h, fovDeg),
		Light:    shade.DefaultLightConfig(),
		Lit:      true,
	}
}

// Projected is a screen-space triangle and its face color.
type Projected struct {
	Tri   raster.Triangle
	Color color.NRGBA
}

// Project runs the pipeline over the mesh for a w×h target. Triangles with
// a vertex behind the camera are dropped.
func (s *Scene) Project(w, h int) []Projected {
	mvp := s.Pipeline.MVP()
	normalM := s.Pipeline.Model.Mat3()

	out := make([]Projected, 0, len(s.Mesh))
	for _, t := range s.Mesh {
		var tri raster.Triangle
		visible := true
		for k, p := range t.P {
			ndc, ok := Project(mvp, p)
			if !ok {
				visible = false
				break
			}
			tri.V[k] = ScreenVertex(ndc, w, h)
		}
		if !visible {
			continue
		}

		c := t.Color
		if s.Lit {
			n := normalM.Mul3x1(t.Normal())
			c = s.Light.Lit(c, mathutil.Vec3{float64(n.X()), float64(n.Y()), float64(n.Z())})
		}
		out = append(out, Projected{Tri: tri, Color: c})
	}
	return out
}

// Render animates the model to t seconds and draws the mesh into f. The
// frame is not cleared. It returns the number of triangles submitted.
func (s *Scene) Render(f *raster.Frame, t float64) int {
	s.Pipeline.Model = AnimatedModel(float32(t))
	return s.Draw(f)
}

// Draw draws the mesh with the current model matrix.
func (s *Scene) Draw(f *raster.Frame) int {
	proj := s.Project(f.Color.Width, f.Color.Height)
	if !s.Depth {
		raster.DrawParallelFunc(f.Color, f.Depth, len(proj), s.Workers, func(r *raster.Rasterizer, i int) {
			r.SetColor(proj[i].Color)
			r.DrawTriangle(proj[i].Tri)
		})
		return len(proj)
	}

	// The nearest vertex keeps full intensity; the farthest drops to half.
	near, far := DepthRange(proj)
	far += far - near
	tints := make([]raster.SurfaceShadeFunc, len(proj))
	for i, p := range proj {
		tints[i] = shade.DepthTint(p.Color, near, far)
	}
	raster.DrawParallelFunc(f.Color, f.Depth, len(proj), s.Workers, func(r *raster.Rasterizer, i int) {
		r.SetSurfaceShade(tints[i])
		r.DrawTriangle(proj[i].Tri)
	})
	return len(proj)
}

// DepthRange returns the smallest and largest vertex depth in proj, or
// (0, 0) when proj is empty.
func DepthRange(proj []Projected) (near, far float64) {
	if len(proj) == 0 {
		return 0, 0
	}
	near, far = math.Inf(1), math.Inf(-1)
	for _, p := range proj {
		for _, v := range p.Tri.V {
			near = min(near, v.Z)
			far = max(far, v.Z)
		}
	}
	return near, far
}
