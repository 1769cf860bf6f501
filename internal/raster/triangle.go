package raster

import (
	"context"
	"image/color"
	"log/slog"

	"scanline-renderer/internal/mathutil"
)

// Vertex is a screen-space pixel position plus depth. Smaller Z is nearer.
type Vertex struct {
	X, Y int
	Z    float64
}

// Triangle is an ordered triple of vertices. Winding is not significant.
type Triangle struct {
	V [3]Vertex
}

// Tri builds a triangle from three vertices.
func Tri(a, b, c Vertex) Triangle {
	return Triangle{V: [3]Vertex{a, b, c}}
}

// Sorted returns a copy with vertices ordered by ascending Y.
func (t Triangle) Sorted() Triangle {
	v := t.V
	if v[1].Y > v[2].Y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].Y > v[1].Y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].Y > v[2].Y {
		v[1], v[2] = v[2], v[1]
	}
	return Triangle{V: v}
}

// ShadeFunc colors a pixel from its coordinates.
type ShadeFunc func(x, y int) color.NRGBA

// SurfaceShadeFunc colors a pixel from the triangle being drawn and the
// interpolated position (x, y, depth). t is the triangle exactly as passed
// to DrawTriangle, not sorted, so a callback reading t.V[i] makes the
// output depend on vertex order; pos alone does not.
type SurfaceShadeFunc func(t Triangle, pos mathutil.Vec3) color.NRGBA

// Green is the fill used when no shading is configured.
var Green = color.NRGBA{0, 255, 0, 255}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithDepth enables depth testing against zb. A nil zb disables it.
func WithDepth(zb *DepthBuffer) Option {
	return func(r *Rasterizer) { r.zb = zb }
}

// WithShade sets the 2D shade callback.
func WithShade(fn ShadeFunc) Option {
	return func(r *Rasterizer) {
		if fn != nil {
			r.shade = fn
		}
	}
}

// WithSurfaceShade sets the 3D shade callback. It takes precedence over the
// 2D callback.
func WithSurfaceShade(fn SurfaceShadeFunc) Option {
	return func(r *Rasterizer) { r.surface = fn }
}

// WithColor sets an override color used instead of any callback.
func WithColor(c color.NRGBA) Option {
	return func(r *Rasterizer) { r.SetColor(c) }
}

// WithRows restricts writes to rows [lo, hi). Used to split a frame into
// disjoint bands.
func WithRows(lo, hi int) Option {
	return func(r *Rasterizer) {
		r.rowMin, r.rowMax = lo, hi
	}
}

// Rasterizer fills triangles and spans into a FrameBuffer, optionally depth
// tested. It holds no per-draw state; a single Rasterizer must not be used
// from several goroutines at once.
type Rasterizer struct {
	fb       *FrameBuffer
	zb       *DepthBuffer
	shade    ShadeFunc
	surface  SurfaceShadeFunc
	color    color.NRGBA
	hasColor bool
	rowMin   int
	rowMax   int
}

// NewRasterizer returns a rasterizer drawing into fb.
func NewRasterizer(fb *FrameBuffer, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		fb:     fb,
		shade:  func(int, int) color.NRGBA { return Green },
		rowMin: 0,
		rowMax: fb.Height,
	}
	for _, o := range opts {
		o(r)
	}
	r.rowMin = max(r.rowMin, 0)
	r.rowMax = min(r.rowMax, fb.Height)
	return r
}

// SetColor sets the override color.
func (r *Rasterizer) SetColor(c color.NRGBA) {
	r.color = c
	r.hasColor = true
}

// SetShade replaces the 2D shade callback. nil restores the default.
func (r *Rasterizer) SetShade(fn ShadeFunc) {
	if fn == nil {
		fn = func(int, int) color.NRGBA { return Green }
	}
	r.shade = fn
}

// SetSurfaceShade replaces the 3D shade callback. nil disables it.
func (r *Rasterizer) SetSurfaceShade(fn SurfaceShadeFunc) {
	r.surface = fn
}

// SetPixel writes c at (x, y) if it lies inside the buffer and row band.
func (r *Rasterizer) SetPixel(x, y int, c color.NRGBA) {
	if y < r.rowMin || y >= r.rowMax {
		return
	}
	r.fb.Set(x, y, c)
}

// DrawLine fills the horizontal run [sx, ex) on row y using the override
// color or the 2D shade callback. No depth test is applied.
func (r *Rasterizer) DrawLine(sx, y, ex int) {
	if r.hasColor {
		r.line(sx, y, ex, r.color, true)
		return
	}
	r.line(sx, y, ex, color.NRGBA{}, false)
}

// DrawLineColor fills [sx, ex) on row y with c.
func (r *Rasterizer) DrawLineColor(sx, y, ex int, c color.NRGBA) {
	r.line(sx, y, ex, c, true)
}

func (r *Rasterizer) line(sx, y, ex int, c color.NRGBA, fixed bool) {
	if y < r.rowMin || y >= r.rowMax {
		return
	}
	if sx > ex {
		sx, ex = ex, sx
	}
	lo, hi := max(sx, 0), min(ex, r.fb.Width)
	row := y * r.fb.Width
	for x := lo; x < hi; x++ {
		if fixed {
			r.fb.set((row+x)*4, c)
		} else {
			r.fb.set((row+x)*4, r.shade(x, y))
		}
	}
}

// DrawTriangle scanline-fills t. Rows and columns outside the buffer are
// clamped away; edges with no vertical extent contribute no rows.
func (r *Rasterizer) DrawTriangle(t Triangle) {
	s := t.Sorted()
	v0, v1, v2 := s.V[0], s.V[1], s.V[2]

	if v0.Y == v2.Y {
		if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
			l.Debug("raster: skip flat triangle", "y", v0.Y)
		}
		return
	}

	long := newEdge(v0, v2)
	r.fillHalf(&t, long, newEdge(v0, v1), v0.Y, v1.Y)
	r.fillHalf(&t, long, newEdge(v1, v2), v1.Y, v2.Y)
}

// edge is a triangle side parameterized from its upper vertex.
type edge struct {
	a, b Vertex
	dy   int
}

func newEdge(a, b Vertex) edge {
	return edge{a: a, b: b, dy: b.Y - a.Y}
}

// at returns the x intercept and depth at row y. dy must be non-zero.
func (e edge) at(y int) (int, float64) {
	d := y - e.a.Y
	x := e.a.X + (e.b.X-e.a.X)*d/e.dy
	z := e.a.Z + (e.b.Z-e.a.Z)*float64(d)/float64(e.dy)
	return x, z
}

func (r *Rasterizer) fillHalf(t *Triangle, long, short edge, y0, y1 int) {
	if long.dy == 0 || short.dy == 0 {
		return
	}
	lo, hi := max(y0, r.rowMin), min(y1, r.rowMax)
	for y := lo; y < hi; y++ {
		sx, sz := long.at(y)
		ex, ez := short.at(y)
		if sx > ex {
			sx, ex = ex, sx
			sz, ez = ez, sz
		}
		r.span(t, y, sx, ex, sz, ez)
	}
}

// span fills [sx, ex) on row y. Depth is interpolated from the unclamped
// endpoints so clipping does not shift it.
func (r *Rasterizer) span(t *Triangle, y, sx, ex int, sz, ez float64) {
	lo, hi := max(sx, 0), min(ex, r.fb.Width)
	if lo >= hi {
		return
	}
	w := float64(ex - sx)
	row := y * r.fb.Width
	for x := lo; x < hi; x++ {
		z := sz + (ez-sz)*float64(x-sx)/w
		if r.zb != nil && !r.zb.Test(x, y, z) {
			continue
		}
		r.fb.set((row+x)*4, r.colorAt(t, x, y, z))
	}
}

func (r *Rasterizer) colorAt(t *Triangle, x, y int, z float64) color.NRGBA {
	switch {
	case r.hasColor:
		return r.color
	case r.surface != nil:
		return r.surface(*t, mathutil.Vec3{float64(x), float64(y), z})
	default:
		return r.shade(x, y)
	}
}
