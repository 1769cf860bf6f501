// Package texture loads images for use as fill patterns and samples them
// with bilinear filtering.
package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"scanline-renderer/internal/export"
)

// Load reads a png, jpeg, tga, bmp, tiff or webp file and returns it as
// NRGBA with its origin at (0, 0). The decoder is chosen by extension.
func Load(path string) (*image.NRGBA, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tga", ".bmp", ".tif", ".tiff", ".webp":
	default:
		return nil, fmt.Errorf("texture: unknown extension %q: %s", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	img, err := export.Decode(bufio.NewReader(f), ext)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	tex := ToNRGBA(img)
	if tex.Rect.Empty() {
		return nil, fmt.Errorf("texture: empty image: %s", path)
	}
	return tex, nil
}

// ToNRGBA converts src to NRGBA anchored at the origin. An NRGBA already
// anchored there is returned as is.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

// Sample performs bilinear filtering with UV wrapping. u and v cover the
// texture once over [0, 1). Accesses tex.Pix directly for performance.
func Sample(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	// Wrap UVs
	u -= float64(int(u))
	if u < 0 {
		u += 1.0
	}
	v -= float64(int(v))
	if v < 0 {
		v += 1.0
	}

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 + float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}
