package shade

import (
	"image/color"
	"math"

	"scanline-renderer/internal/mathutil"
)

// LightConfig holds flat (per-face) lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3
	Ambient  float64
	Hemi     float64
	Direct   float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light from the upper right front.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.4, 0.7, 0.6}.Normalize(),
		Ambient:  0.25,
		Hemi:     0.20,
		Direct:   0.90,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	n := normal.Normalize()
	// Lambertian, abs for double-sided faces
	ndl := math.Abs(n.Dot(lc.LightDir))
	hemi := (1.0-math.Abs(n[1]))*0.5 + 0.5
	return lc.Ambient + hemi*lc.Hemi + ndl*lc.Direct
}

// Lit applies the face lighting to base in linear space and returns the
// sRGB result. Alpha is kept.
func (lc *LightConfig) Lit(base color.NRGBA, normal mathutil.Vec3) color.NRGBA {
	s := lc.ComputeShade(normal) * lc.Exposure
	ch := func(c uint8) uint8 {
		t := ACESTonemap(srgbToLinear[c] * s)
		return clamp255(math.Pow(t, lc.InvGamma) * 255)
	}
	return color.NRGBA{R: ch(base.R), G: ch(base.G), B: ch(base.B), A: base.A}
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
