package raster

import "math"

// coordLimit bounds projected coordinates so edge arithmetic cannot
// overflow and Inf/NaN never reach an int conversion.
const coordLimit = 1 << 30

// ToScreen maps a point in normalized device coordinates to pixel space:
// x' = (x+1)/2*w, y' = (y+1)/2*h. Depth passes through unchanged.
func ToScreen(x, y, z float64, w, h int) Vertex {
	return Vertex{
		X: toPixel((x + 1) * 0.5 * float64(w)),
		Y: toPixel((y + 1) * 0.5 * float64(h)),
		Z: z,
	}
}

func toPixel(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > coordLimit:
		return coordLimit
	case v < -coordLimit:
		return -coordLimit
	}
	return int(math.Floor(v))
}
