package raster

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanline-renderer/internal/mathutil"
)

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
	bg   = color.NRGBA{}
)

func v(x, y int, z float64) Vertex { return Vertex{X: x, Y: y, Z: z} }

// coordShade colors a pixel from its position so tests can tell pixels apart.
func coordShade(x, y int) color.NRGBA {
	return color.NRGBA{uint8(x * 7), uint8(y * 13), uint8(x ^ y), 255}
}

func filled(fb *FrameBuffer) [][2]int {
	var out [][2]int
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.At(x, y) != bg {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

func TestSorted(t *testing.T) {
	s := Tri(v(0, 9, 0), v(1, 3, 0), v(2, 5, 0)).Sorted()
	require.Equal(t, 3, s.V[0].Y)
	require.Equal(t, 5, s.V[1].Y)
	require.Equal(t, 9, s.V[2].Y)
}

func TestAreaApproximation(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	r := NewRasterizer(fb, WithColor(red))
	r.DrawTriangle(Tri(v(0, 0, 0), v(10, 0, 0), v(0, 10, 0)))

	px := filled(fb)
	assert.InDelta(t, 50, len(px), 10)
	// Rows 0..9 hold 10, 9, ..., 1 pixels.
	assert.Len(t, px, 55)
	for _, p := range px {
		assert.GreaterOrEqual(t, p[0], 0)
		assert.GreaterOrEqual(t, p[1], 0)
		assert.LessOrEqual(t, p[0]+p[1], 10, "pixel %v outside hull", p)
	}
}

func TestSortInvariance(t *testing.T) {
	cases := []struct {
		name string
		tri  [3]Vertex
	}{
		{"scalene", [3]Vertex{v(3, 1, 0.5), v(27, 9, 2), v(11, 28, 1)}},
		{"flat top", [3]Vertex{v(2, 4, 1), v(25, 4, 3), v(14, 26, 2)}},
		{"flat bottom", [3]Vertex{v(14, 2, 1), v(2, 24, 3), v(28, 24, 2)}},
		{"off screen", [3]Vertex{v(-40, -7, 1), v(50, 12, 3), v(9, 90, 2)}},
	}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var refPix []uint8
			var refZ []float64
			for i, p := range perms {
				f := NewFrame(32, 32, bg, true, math.Inf(1))
				r := f.Rasterizer(WithShade(coordShade))
				r.DrawTriangle(Tri(tc.tri[p[0]], tc.tri[p[1]], tc.tri[p[2]]))
				if i == 0 {
					refPix = append([]uint8(nil), f.Color.Pix...)
					refZ = append([]float64(nil), f.Depth.Z...)
					require.NotZero(t, f.Color.Count(bg))
					continue
				}
				require.Equal(t, refPix, f.Color.Pix, "permutation %v", p)
				require.Equal(t, refZ, f.Depth.Z, "permutation %v", p)
			}
		})
	}
}

func TestSurfaceShadeSortInvariance(t *testing.T) {
	verts := [3]Vertex{v(3, 1, 0.5), v(27, 9, 2), v(11, 28, 1)}
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	depthShade := func(_ Triangle, pos mathutil.Vec3) color.NRGBA {
		return color.NRGBA{uint8(pos.Z() * 100), 0, 0, 255}
	}

	var ref []uint8
	for _, p := range perms {
		tri := Tri(verts[p[0]], verts[p[1]], verts[p[2]])
		fb := NewFrameBuffer(32, 32)
		var seen Triangle
		r := NewRasterizer(fb, WithSurfaceShade(func(got Triangle, pos mathutil.Vec3) color.NRGBA {
			seen = got
			return depthShade(got, pos)
		}))
		r.DrawTriangle(tri)

		// The callback gets the input order, not the sorted one.
		assert.Equal(t, tri, seen, "permutation %v", p)
		if ref == nil {
			ref = append([]uint8(nil), fb.Pix...)
			continue
		}
		assert.Equal(t, ref, fb.Pix, "permutation %v", p)
	}
}

func TestDepthOcclusion(t *testing.T) {
	a := Tri(v(2, 2, 1), v(18, 2, 1), v(2, 18, 1))
	b := Tri(v(3, 1, 5), v(19, 4, 5), v(1, 17, 5))

	draw := func(first, second Triangle, c1, c2 color.NRGBA) *Frame {
		f := NewFrame(20, 20, bg, true, math.Inf(1))
		r := f.Rasterizer()
		r.SetColor(c1)
		r.DrawTriangle(first)
		r.SetColor(c2)
		r.DrawTriangle(second)
		return f
	}

	ab := draw(a, b, red, blue)
	ba := draw(b, a, blue, red)
	require.Equal(t, ab.Color.Pix, ba.Color.Pix)
	require.Equal(t, ab.Depth.Z, ba.Depth.Z)

	// Inside both: the nearer triangle wins.
	assert.Equal(t, red, ab.Color.At(5, 5))
	z, ok := ab.Depth.At(5, 5)
	assert.True(t, ok)
	assert.Equal(t, 1.0, z)
}

func TestBoundsSafety(t *testing.T) {
	t.Run("right of buffer", func(t *testing.T) {
		fb := NewFrameBuffer(16, 12)
		NewRasterizer(fb, WithColor(red)).DrawTriangle(Tri(v(20, 0, 0), v(30, 0, 0), v(25, 10, 0)))
		assert.Zero(t, fb.Count(bg), "writes must not wrap into the next row")
	})

	t.Run("covers buffer", func(t *testing.T) {
		fb := NewFrameBuffer(16, 12)
		NewRasterizer(fb, WithColor(red)).DrawTriangle(Tri(v(-100, -100, 0), v(1000, -100, 0), v(-100, 1000, 0)))
		assert.Equal(t, 16*12, fb.Count(bg))
	})

	t.Run("far outside", func(t *testing.T) {
		f := NewFrame(16, 12, bg, true, math.Inf(1))
		r := f.Rasterizer(WithShade(coordShade))
		require.NotPanics(t, func() {
			r.DrawTriangle(Tri(v(-1<<20, -500, 2), v(3000, 10, 1), v(5, 1<<20, 3)))
			r.DrawTriangle(Tri(v(-5, -5, 0), v(-1, -9, 0), v(-3, -1, 0)))
			r.DrawTriangle(Tri(v(8, 100, 0), v(2, 200, 0), v(9, 150, 0)))
		})
		assert.Len(t, f.Color.Pix, 16*12*4)
		assert.Len(t, f.Depth.Z, 16*12)
	})
}

func TestDegenerateTriangles(t *testing.T) {
	cases := []struct {
		name string
		tri  Triangle
	}{
		{"two identical vertices", Tri(v(5, 5, 0), v(5, 5, 0), v(9, 9, 0))},
		{"all identical", Tri(v(5, 5, 0), v(5, 5, 0), v(5, 5, 0))},
		{"colinear", Tri(v(0, 0, 0), v(4, 4, 0), v(8, 8, 0))},
		{"horizontal", Tri(v(0, 3, 0), v(7, 3, 0), v(15, 3, 0))},
		{"vertical", Tri(v(4, 0, 0), v(4, 6, 0), v(4, 15, 0))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFrame(16, 16, bg, true, math.Inf(1))
			require.NotPanics(t, func() {
				f.Rasterizer(WithColor(red)).DrawTriangle(tc.tri)
			})
			assert.LessOrEqual(t, f.Color.Count(bg), 8)
		})
	}
}

func TestIdempotentRedraw(t *testing.T) {
	f := NewFrame(24, 24, bg, true, math.Inf(1))
	tri := Tri(v(1, 2, 3), v(22, 7, 1), v(9, 21, 2))
	r := f.Rasterizer(WithShade(coordShade))
	r.DrawTriangle(tri)

	pix := append([]uint8(nil), f.Color.Pix...)
	z := append([]float64(nil), f.Depth.Z...)

	r.DrawTriangle(tri)
	require.Equal(t, pix, f.Color.Pix)
	require.Equal(t, z, f.Depth.Z)

	// Equal depth is rejected, so a different color changes nothing.
	r.SetColor(blue)
	r.DrawTriangle(tri)
	require.Equal(t, pix, f.Color.Pix)
}

func TestDepthInterpolation(t *testing.T) {
	f := NewFrame(16, 16, bg, true, math.Inf(1))
	f.Rasterizer().DrawTriangle(Tri(v(0, 0, 0), v(10, 0, 10), v(0, 10, 0)))

	z, ok := f.Depth.At(5, 0)
	require.True(t, ok)
	assert.InDelta(t, 5.0, z, 1e-9)

	z, _ = f.Depth.At(0, 5)
	assert.InDelta(t, 0.0, z, 1e-9)
}

func TestSurfaceShade(t *testing.T) {
	fb := NewFrameBuffer(16, 16)
	tri := Tri(v(0, 0, 2), v(12, 0, 2), v(0, 12, 2))

	var calls int
	r := NewRasterizer(fb, WithShade(func(int, int) color.NRGBA { return blue }),
		WithSurfaceShade(func(got Triangle, pos mathutil.Vec3) color.NRGBA {
			calls++
			assert.Equal(t, tri, got)
			assert.Equal(t, 2.0, pos.Z())
			return color.NRGBA{uint8(pos.X()), uint8(pos.Y()), 0, 255}
		}))
	r.DrawTriangle(tri)

	assert.Equal(t, fb.Count(bg), calls)
	assert.Equal(t, color.NRGBA{3, 4, 0, 255}, fb.At(3, 4))
}

func TestOverrideColor(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	r := NewRasterizer(fb, WithShade(coordShade), WithColor(red))
	r.DrawTriangle(Tri(v(0, 0, 0), v(8, 0, 0), v(0, 8, 0)))
	assert.Equal(t, red, fb.At(1, 1))

	// The override also beats a surface callback.
	r = NewRasterizer(fb, WithColor(red), WithSurfaceShade(func(Triangle, mathutil.Vec3) color.NRGBA { return Green }))
	fb.Clear(color.NRGBA{})
	r.DrawTriangle(Tri(v(0, 0, 0), v(8, 0, 0), v(0, 8, 0)))
	assert.Equal(t, red, fb.At(1, 1))
}

func TestDefaultShadeIsGreen(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	NewRasterizer(fb).DrawTriangle(Tri(v(0, 0, 0), v(8, 0, 0), v(0, 8, 0)))
	assert.Equal(t, Green, fb.At(0, 0))
}

func TestDrawLine(t *testing.T) {
	fb := NewFrameBuffer(10, 4)
	r := NewRasterizer(fb, WithShade(coordShade))

	r.DrawLine(-5, 2, 100)
	for x := 0; x < 10; x++ {
		assert.Equal(t, coordShade(x, 2), fb.At(x, 2))
	}

	r.DrawLineColor(6, 0, 2, red)
	assert.Equal(t, bg, fb.At(1, 0))
	assert.Equal(t, red, fb.At(2, 0))
	assert.Equal(t, red, fb.At(5, 0))
	assert.Equal(t, bg, fb.At(6, 0))

	require.NotPanics(t, func() {
		r.DrawLine(0, -1, 10)
		r.DrawLine(0, 4, 10)
		r.SetPixel(-1, 0, red)
		r.SetPixel(10, 3, red)
	})
	assert.Equal(t, 10+4, fb.Count(bg))
}

func TestWithRows(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	r := NewRasterizer(fb, WithColor(red), WithRows(2, 5))
	r.DrawTriangle(Tri(v(-10, -10, 0), v(100, -10, 0), v(-10, 100, 0)))
	r.SetPixel(0, 0, red)

	for y := 0; y < 8; y++ {
		want := bg
		if y >= 2 && y < 5 {
			want = red
		}
		assert.Equal(t, want, fb.At(3, y), "row %d", y)
	}
}

func TestDrawParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tris := make([]Triangle, 200)
	for i := range tris {
		for k := 0; k < 3; k++ {
			tris[i].V[k] = v(rng.Intn(140)-20, rng.Intn(110)-15, rng.Float64()*10)
		}
	}
	depthShade := WithSurfaceShade(func(_ Triangle, pos mathutil.Vec3) color.NRGBA {
		return color.NRGBA{uint8(pos.Z() * 25), uint8(pos.X()), uint8(pos.Y()), 255}
	})

	seq := NewFrame(100, 80, bg, true, math.Inf(1))
	r := seq.Rasterizer(depthShade)
	for _, tri := range tris {
		r.DrawTriangle(tri)
	}

	for _, workers := range []int{0, 1, 3, 8, 200} {
		par := NewFrame(100, 80, bg, true, math.Inf(1))
		DrawParallel(par.Color, par.Depth, tris, workers, depthShade)
		require.Equal(t, seq.Color.Pix, par.Color.Pix, "workers=%d", workers)
		require.Equal(t, seq.Depth.Z, par.Depth.Z, "workers=%d", workers)
	}
}

func TestDrawParallelWithoutDepth(t *testing.T) {
	tris := []Triangle{Tri(v(0, 0, 0), v(30, 0, 0), v(0, 30, 0))}
	seq := NewFrameBuffer(32, 32)
	NewRasterizer(seq, WithColor(red)).DrawTriangle(tris[0])

	par := NewFrameBuffer(32, 32)
	DrawParallel(par, nil, tris, 4, WithColor(red))
	require.Equal(t, seq.Pix, par.Pix)
}
