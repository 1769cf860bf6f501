// Package viewer presents a raster.Frame in a desktop window and feeds
// mouse input back to the application driving it.
package viewer

import (
	"image"
	"image/color"

	"scanline-renderer/internal/config"
	"scanline-renderer/internal/raster"
)

// Input is the mouse state for one tick, in frame pixel coordinates.
type Input struct {
	Cursor       image.Point
	Down         bool // left button held
	JustPressed  bool
	JustReleased bool
}

// App is driven once per tick by the viewer.
type App interface {
	// Frame returns the frame to present. Its size fixes the logical
	// screen size.
	Frame() *raster.Frame
	// Update advances the app by one tick.
	Update(in Input) error
}

// Marked is implemented by apps that want dots drawn over the frame.
type Marked interface {
	Markers() []image.Point
}

// Reloadable is implemented by apps that accept config changes while
// running.
type Reloadable interface {
	Reload(cfg config.Config) error
}

// Options configures a viewer window.
type Options struct {
	Title       string
	Scale       int // window pixels per frame pixel
	TPS         int
	MarkerColor color.NRGBA
	MarkerSize  float32
	// Reload delivers configs to a Reloadable app between ticks.
	Reload <-chan config.Config
}

func (o *Options) defaults() {
	if o.Title == "" {
		o.Title = "scanline"
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.TPS <= 0 {
		o.TPS = 20
	}
	if o.MarkerColor == (color.NRGBA{}) {
		o.MarkerColor = color.NRGBA{0, 0, 255, 255}
	}
	if o.MarkerSize <= 0 {
		o.MarkerSize = 3
	}
}

// step applies any pending reloads, then advances app by one tick.
func step(app App, reload <-chan config.Config, in Input) error {
	if r, ok := app.(Reloadable); ok && reload != nil {
	drain:
		for {
			select {
			case cfg, ok := <-reload:
				if !ok {
					break drain
				}
				if err := r.Reload(cfg); err != nil {
					raster.Logger().Warn("viewer: reload", "error", err)
				}
			default:
				break drain
			}
		}
	}
	return app.Update(in)
}

// premultiply converts NRGBA pixels in src to the premultiplied RGBA that
// ebiten uploads. dst and src must have the same length.
func premultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		a := uint32(src[i+3])
		switch a {
		case 0xff:
			copy(dst[i:i+4], src[i:i+4])
		case 0:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
		default:
			dst[i] = uint8((uint32(src[i])*a + 127) / 255)
			dst[i+1] = uint8((uint32(src[i+1])*a + 127) / 255)
			dst[i+2] = uint8((uint32(src[i+2])*a + 127) / 255)
			dst[i+3] = src[i+3]
		}
	}
}
