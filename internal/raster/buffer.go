package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the color target as a flat slice for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // NRGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a zeroed (transparent black) color buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
}

// In reports whether (x, y) lies inside the buffer.
func (fb *FrameBuffer) In(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Clear sets every pixel to c.
func (fb *FrameBuffer) Clear(c color.NRGBA) {
	if len(fb.Pix) == 0 {
		return
	}
	fb.Pix[0], fb.Pix[1], fb.Pix[2], fb.Pix[3] = c.R, c.G, c.B, c.A
	// Doubling copy fills the rest from the first pixel.
	for n := 4; n < len(fb.Pix); n *= 2 {
		copy(fb.Pix[n:], fb.Pix[:n])
	}
}

// Set writes c at (x, y). Out of range coordinates are ignored.
func (fb *FrameBuffer) Set(x, y int, c color.NRGBA) {
	if !fb.In(x, y) {
		return
	}
	fb.set((y*fb.Width+x)*4, c)
}

func (fb *FrameBuffer) set(i int, c color.NRGBA) {
	fb.Pix[i] = c.R
	fb.Pix[i+1] = c.G
	fb.Pix[i+2] = c.B
	fb.Pix[i+3] = c.A
}

// At returns the color at (x, y), or the zero color when out of range.
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	if !fb.In(x, y) {
		return color.NRGBA{}
	}
	i := (y*fb.Width + x) * 4
	return color.NRGBA{fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3]}
}

// Image wraps the pixels in an *image.NRGBA without copying.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Pix,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Count returns the number of pixels that differ from bg.
func (fb *FrameBuffer) Count(bg color.NRGBA) int {
	n := 0
	for i := 0; i+3 < len(fb.Pix); i += 4 {
		if fb.Pix[i] != bg.R || fb.Pix[i+1] != bg.G || fb.Pix[i+2] != bg.B || fb.Pix[i+3] != bg.A {
			n++
		}
	}
	return n
}

// DepthBuffer stores the nearest depth written so far per pixel.
// Smaller values are nearer to the viewer.
type DepthBuffer struct {
	Width  int
	Height int
	Far    float64
	Z      []float64 // len = W*H
}

// NewDepthBuffer allocates a depth buffer cleared to far. A NaN far value
// falls back to +Inf.
func NewDepthBuffer(w, h int, far float64) *DepthBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if math.IsNaN(far) {
		far = math.Inf(1)
	}
	zb := &DepthBuffer{
		Width:  w,
		Height: h,
		Far:    far,
		Z:      make([]float64, w*h),
	}
	zb.Clear()
	return zb
}

// Clear resets every cell to the far sentinel.
func (zb *DepthBuffer) Clear() {
	for i := range zb.Z {
		zb.Z[i] = zb.Far
	}
}

// At returns the stored depth at (x, y). ok is false when out of range, in
// which case the far value is returned.
func (zb *DepthBuffer) At(x, y int) (z float64, ok bool) {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		return zb.Far, false
	}
	return zb.Z[y*zb.Width+x], true
}

// Test stores z at (x, y) if it is strictly nearer than the current value
// and reports whether it did.
func (zb *DepthBuffer) Test(x, y int, z float64) bool {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		return false
	}
	i := y*zb.Width + x
	if !(z < zb.Z[i]) {
		return false
	}
	zb.Z[i] = z
	return true
}

// Frame is the per-frame render target: colors, optional depth and the
// background both are reset to. Lifecycle is Clear, draw, then present.
type Frame struct {
	Color      *FrameBuffer
	Depth      *DepthBuffer // nil disables depth testing
	Background color.NRGBA
}

// NewFrame creates a w×h frame. When depth is true a depth buffer with the
// given far sentinel is attached.
func NewFrame(w, h int, bg color.NRGBA, depth bool, far float64) *Frame {
	f := &Frame{
		Color:      NewFrameBuffer(w, h),
		Background: bg,
	}
	if depth {
		f.Depth = NewDepthBuffer(w, h, far)
	}
	f.Clear()
	return f
}

// Clear resets the color buffer to the background and depth to far.
func (f *Frame) Clear() {
	f.Color.Clear(f.Background)
	if f.Depth != nil {
		f.Depth.Clear()
	}
}

// Rasterizer returns a rasterizer bound to this frame's buffers.
func (f *Frame) Rasterizer(opts ...Option) *Rasterizer {
	if f.Depth != nil {
		opts = append([]Option{WithDepth(f.Depth)}, opts...)
	}
	return NewRasterizer(f.Color, opts...)
}

// Image returns the frame's pixels as an image sharing storage.
func (f *Frame) Image() *image.NRGBA {
	return f.Color.Image()
}
