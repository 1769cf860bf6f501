// Package picker implements the interactive vertex editing mode: a single
// persistent 2D triangle whose vertices can be grabbed and dragged with the
// cursor, re-rasterized on every move.
package picker

import (
	"image"
	"image/color"
	"math"

	"scanline-renderer/internal/raster"
)

// DefaultRadius is the pick distance in pixels.
const DefaultRadius = 5.0

// NamedVertex is an editable 2D vertex.
type NamedVertex struct {
	Name string
	Pos  image.Point
}

// Picker tracks a vertex set and which vertex, if any, is grabbed.
type Picker struct {
	Verts  []NamedVertex
	Radius float64
	picked int
}

// New returns a picker over verts. A radius <= 0 uses DefaultRadius.
func New(verts []NamedVertex, radius float64) *Picker {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Picker{Verts: verts, Radius: radius, picked: -1}
}

// Pick returns the index of the vertex nearest to pos whose distance is
// strictly below the radius.
func (p *Picker) Pick(pos image.Point) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, v := range p.Verts {
		d := dist(v.Pos, pos)
		if d < p.Radius && d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// Picked returns the grabbed vertex index.
func (p *Picker) Picked() (int, bool) {
	return p.picked, p.picked >= 0
}

// Press grabs the vertex under pos, if any, and reports whether it did.
func (p *Picker) Press(pos image.Point) bool {
	i, ok := p.Pick(pos)
	if ok {
		p.picked = i
	}
	return ok
}

// Move relocates the grabbed vertex to pos. It reports whether a vertex
// moved.
func (p *Picker) Move(pos image.Point) bool {
	if p.picked < 0 {
		return false
	}
	p.Verts[p.picked].Pos = pos
	return true
}

// Release drops the grabbed vertex.
func (p *Picker) Release() {
	p.picked = -1
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Session couples a picker over three vertices with the frame it draws
// into. Every successful move clears the frame and redraws the triangle.
type Session struct {
	*Picker
	Frame *raster.Frame
	rast  *raster.Rasterizer
}

// DefaultTriangle is the starting triangle of the editor.
func DefaultTriangle() []NamedVertex {
	return []NamedVertex{
		{Name: "A", Pos: image.Pt(140, 0)},
		{Name: "B", Pos: image.Pt(240, 220)},
		{Name: "C", Pos: image.Pt(20, 160)},
	}
}

// NewSession creates a w×h session. shade may be nil for the default fill.
// verts must hold exactly three vertices; missing ones are taken from
// DefaultTriangle.
func NewSession(w, h int, verts []NamedVertex, radius float64, bg color.NRGBA, shade raster.ShadeFunc) *Session {
	tri := DefaultTriangle()
	copy(tri, verts)

	f := raster.NewFrame(w, h, bg, false, 0)
	s := &Session{
		Picker: New(tri, radius),
		Frame:  f,
		rast:   f.Rasterizer(raster.WithShade(shade)),
	}
	s.Redraw()
	return s
}

// Triangle returns the current triangle in screen space.
func (s *Session) Triangle() raster.Triangle {
	var t raster.Triangle
	for i := range t.V {
		p := s.Verts[i].Pos
		t.V[i] = raster.Vertex{X: p.X, Y: p.Y}
	}
	return t
}

// Redraw clears the frame and rasterizes the triangle.
func (s *Session) Redraw() {
	s.Frame.Clear()
	s.rast.DrawTriangle(s.Triangle())
}

// SetBackground changes the clear color and redraws.
func (s *Session) SetBackground(c color.NRGBA) {
	s.Frame.Background = c
	s.Redraw()
}

// SetShade replaces the fill callback and redraws. nil restores the
// default fill.
func (s *Session) SetShade(fn raster.ShadeFunc) {
	s.rast.SetShade(fn)
	s.Redraw()
}

// Move relocates the grabbed vertex and redraws. It reports whether the
// frame changed.
func (s *Session) Move(pos image.Point) bool {
	if !s.Picker.Move(pos) {
		return false
	}
	s.Redraw()
	return true
}

// Points returns the vertex positions and names, for markers.
func (s *Session) Points() ([]image.Point, []string) {
	pts := make([]image.Point, len(s.Verts))
	names := make([]string, len(s.Verts))
	for i, v := range s.Verts {
		pts[i], names[i] = v.Pos, v.Name
	}
	return pts, names
}
