// Package shade provides ready-made color callbacks for the rasterizer.
package shade

import (
	"image/color"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/raster"
)

// Solid returns a callback that paints every pixel c.
func Solid(c color.NRGBA) raster.ShadeFunc {
	return func(int, int) color.NRGBA { return c }
}

// Checker returns a screen-space checkerboard with cells of size pixels.
func Checker(size int, a, b color.NRGBA) raster.ShadeFunc {
	if size < 1 {
		size = 1
	}
	return func(x, y int) color.NRGBA {
		if (floorDiv(x, size)+floorDiv(y, size))&1 == 0 {
			return a
		}
		return b
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// DepthTint darkens base linearly from full intensity at near to black at
// far. Depths outside [near, far] are clamped.
func DepthTint(base color.NRGBA, near, far float64) raster.SurfaceShadeFunc {
	span := far - near
	return func(_ raster.Triangle, pos mathutil.Vec3) color.NRGBA {
		k := 1.0
		if span != 0 {
			k = 1 - mathutil.Clamp01((pos.Z()-near)/span)
		}
		return color.NRGBA{
			R: clamp255(float64(base.R) * k),
			G: clamp255(float64(base.G) * k),
			B: clamp255(float64(base.B) * k),
			A: base.A,
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
