// Package scene is the transform pipeline feeding the rasterizer: a cube
// mesh, model/view/projection composition and the NDC to screen mapping.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Triangle3D is a model-space triangle with a base color.
type Triangle3D struct {
	P     [3]mgl32.Vec3
	Color color.NRGBA
}

// Face colors, in mesh order: front, back, left, right, top, bottom.
var FaceColors = [6]color.NRGBA{
	{220, 50, 50, 255},
	{50, 180, 70, 255},
	{60, 90, 220, 255},
	{230, 200, 40, 255},
	{200, 70, 200, 255},
	{40, 200, 210, 255},
}

// Cube returns the 12 triangles of an axis-aligned unit cube centered on
// the origin, two per face.
func Cube() []Triangle3D {
	const h = 0.5
	faces := [6][2][3]mgl32.Vec3{
		// Front
		{{{-h, -h, h}, {h, -h, h}, {h, h, h}}, {{-h, -h, h}, {-h, h, h}, {h, h, h}}},
		// Back
		{{{-h, -h, -h}, {-h, h, -h}, {h, h, -h}}, {{-h, -h, -h}, {h, -h, -h}, {h, h, -h}}},
		// Left
		{{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}}, {{-h, -h, -h}, {-h, h, -h}, {-h, h, h}}},
		// Right
		{{{h, -h, -h}, {h, h, -h}, {h, h, h}}, {{h, -h, -h}, {h, h, h}, {h, -h, h}}},
		// Top
		{{{-h, h, -h}, {-h, h, h}, {h, h, h}}, {{-h, h, -h}, {h, h, h}, {h, h, -h}}},
		// Bottom
		{{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}}, {{-h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	tris := make([]Triangle3D, 0, 12)
	for i, f := range faces {
		for _, p := range f {
			tris = append(tris, Triangle3D{P: p, Color: FaceColors[i]})
		}
	}
	return tris
}

// Normal returns the unnormalized face normal (p1-p0)×(p2-p0).
func (t Triangle3D) Normal() mgl32.Vec3 {
	return t.P[1].Sub(t.P[0]).Cross(t.P[2].Sub(t.P[0]))
}
