package shade

import (
	"image"
	"image/color"

	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/texture"
)

// Texture returns a screen-space callback that tiles tex with its texels
// stretched to scale pixels each. The texture is sampled bilinearly.
func Texture(tex *image.NRGBA, scale float64) raster.ShadeFunc {
	if scale <= 0 {
		scale = 1
	}
	tw := float64(tex.Rect.Dx()) * scale
	th := float64(tex.Rect.Dy()) * scale
	return func(x, y int) color.NRGBA {
		r, g, b, a := texture.Sample(tex, float64(x)/tw, float64(y)/th)
		return color.NRGBA{r, g, b, a}
	}
}
