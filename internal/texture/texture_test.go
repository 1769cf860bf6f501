package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker2x2() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 0, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 200, 0, 255})
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 200, 255})
	return img
}

func TestSampleCorners(t *testing.T) {
	tex := checker2x2()
	r, g, b, a := Sample(tex, 0, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{r, g, b, a})

	// Halfway along u blends the top row.
	r, g, b, a = Sample(tex, 0.5, 0)
	assert.Equal(t, [4]uint8{100, 0, 0, 255}, [4]uint8{r, g, b, a})

	// Centre blends all four.
	r, g, b, _ = Sample(tex, 0.5, 0.5)
	assert.Equal(t, [3]uint8{50, 50, 50}, [3]uint8{r, g, b})
}

func TestSampleWraps(t *testing.T) {
	tex := checker2x2()
	for _, uv := range [][2]float64{{1.25, 0.5}, {-0.75, 0.5}, {0.25, 2.5}} {
		r1, g1, b1, _ := Sample(tex, uv[0], uv[1])
		r2, g2, b2, _ := Sample(tex, 0.25, 0.5)
		assert.Equal(t, [3]uint8{r2, g2, b2}, [3]uint8{r1, g1, b1}, "uv %v", uv)
	}
}

func TestToNRGBA(t *testing.T) {
	n := checker2x2()
	assert.Same(t, n, ToNRGBA(n))

	sub := n.SubImage(image.Rect(1, 1, 2, 2))
	got := ToNRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 1, 1), got.Rect)
	assert.Equal(t, color.NRGBA{0, 0, 200, 255}, got.NRGBAAt(0, 0))

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 128
	assert.Equal(t, color.NRGBA{128, 128, 128, 255}, ToNRGBA(gray).NRGBAAt(0, 0))
}

func writeTexture(t *testing.T, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
	return path
}

func TestLoad(t *testing.T) {
	cases := map[string]func(f *os.File) error{
		"tex.png": func(f *os.File) error { return png.Encode(f, checker2x2()) },
		"TEX.PNG": func(f *os.File) error { return png.Encode(f, checker2x2()) },
		"tex.tga": func(f *os.File) error { return tga.Encode(f, checker2x2()) },
	}
	for name, encode := range cases {
		t.Run(name, func(t *testing.T) {
			tex, err := Load(writeTexture(t, name, encode))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 2, 2), tex.Rect)
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					assert.Equal(t, checker2x2().NRGBAAt(x, y), tex.NRGBAAt(x, y), "texel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "tex.gif"))
	assert.ErrorContains(t, err, "texture: unknown extension")

	// A png file named .tga goes to the tga decoder and fails.
	misnamed := writeTexture(t, "tex.tga", func(f *os.File) error { return png.Encode(f, checker2x2()) })
	_, err = Load(misnamed)
	assert.ErrorContains(t, err, "texture: decode")

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "texture: decode")
}
