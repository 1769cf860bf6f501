package export

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MarkerRadius is the radius in pixels of the dot drawn at each point.
const MarkerRadius = 2

// DrawMarkers draws a filled dot at each point and, when labels has a
// matching entry, the label just above and right of it. Drawing is clipped
// to img.
func DrawMarkers(img *image.NRGBA, pts []image.Point, labels []string, c color.NRGBA) {
	b := img.Bounds()
	for _, p := range pts {
		for dy := -MarkerRadius; dy <= MarkerRadius; dy++ {
			for dx := -MarkerRadius; dx <= MarkerRadius; dx++ {
				if dx*dx+dy*dy > MarkerRadius*MarkerRadius {
					continue
				}
				q := image.Pt(p.X+dx, p.Y+dy)
				if q.In(b) {
					img.SetNRGBA(q.X, q.Y, c)
				}
			}
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	for i, p := range pts {
		if i >= len(labels) || labels[i] == "" {
			continue
		}
		d.Dot = fixed.P(p.X+MarkerRadius+2, p.Y-MarkerRadius-2)
		d.DrawString(labels[i])
	}
}
