package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"scanline-renderer/internal/config"
	"scanline-renderer/internal/export"
	"scanline-renderer/internal/picker"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/shade"
	"scanline-renderer/internal/texture"
	"scanline-renderer/internal/viewer"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml, .yaml)")
	width := flag.Int("width", 0, "Frame width (default: 1600)")
	height := flag.Int("height", 0, "Frame height (default: 900)")
	radius := flag.Float64("radius", 0, "Pick radius in pixels (default: 5)")
	fill := flag.String("fill", "", "Triangle fill color (default: #ff0000)")
	background := flag.String("bg", "", "Background color (default: #ffffff)")
	checker := flag.Int("checker", 0, "Fill with a checkerboard of this cell size instead of a solid color")
	texPath := flag.String("texture", "", "Fill with this image tiled across the screen")
	texScale := flag.Float64("texscale", 1, "Screen pixels per texel for -texture")
	snapshot := flag.String("snapshot", "", "Render once to this image file instead of opening a window")
	watch := flag.Bool("watch", false, "Reload colors when the config file changes")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{
		Width:      *width,
		Height:     *height,
		Background: *background,
		Fill:       *fill,
		PickRadius: *radius,
	}
	resolve(&cfg, flags)

	app, err := newPickerApp(cfg, fillSpec{Checker: *checker, Texture: *texPath, TexScale: *texScale})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *snapshot != "" {
		img := app.Snapshot(cfg.Scale)
		if err := export.WriteFile(*snapshot, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot: %s (%dx%d)\n", *snapshot, img.Bounds().Dx(), img.Bounds().Dy())
		return
	}

	opts := viewer.Options{Title: "Vertex picker", TPS: cfg.TPS, Scale: cfg.Scale}
	if *watch && *configFile != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reload := make(chan config.Config, 1)
		go watchConfig(ctx, *configFile, flags, reload)
		opts.Reload = reload
	}

	if err := viewer.Run(app, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolve applies flags and defaults, with a white background unless one
// is configured.
func resolve(cfg *config.Config, flags config.Flags) {
	if cfg.Background == "" && flags.Background == "" {
		cfg.Background = "#ffffff"
	}
	cfg.Resolve(flags)
}

// fillSpec selects the triangle fill. A texture wins over a checkerboard,
// which wins over the plain config fill color.
type fillSpec struct {
	Checker  int
	Texture  string
	TexScale float64
}

// fillShade builds the fill callback for spec, taking colors from cfg.
func fillShade(cfg config.Config, spec fillSpec) (raster.ShadeFunc, error) {
	if spec.Texture != "" {
		tex, err := texture.Load(spec.Texture)
		if err != nil {
			return nil, err
		}
		return shade.Texture(tex, spec.TexScale), nil
	}
	fill, err := cfg.FillColor()
	if err != nil {
		return nil, err
	}
	if spec.Checker > 0 {
		return shade.Checker(spec.Checker, fill, color.NRGBA{fill.R / 2, fill.G / 2, fill.B / 2, 255}), nil
	}
	return shade.Solid(fill), nil
}

// pickerApp drives a picker.Session from viewer input.
type pickerApp struct {
	s    *picker.Session
	spec fillSpec
	cfg  config.Config // colors the session was last drawn with
}

func newPickerApp(cfg config.Config, spec fillSpec) (*pickerApp, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	fn, err := fillShade(cfg, spec)
	if err != nil {
		return nil, err
	}
	s := picker.NewSession(cfg.Width, cfg.Height, picker.DefaultTriangle(), cfg.PickRadius, bg, fn)
	return &pickerApp{s: s, spec: spec, cfg: cfg}, nil
}

func (a *pickerApp) Frame() *raster.Frame { return a.s.Frame }

func (a *pickerApp) Update(in viewer.Input) error {
	if in.JustPressed {
		if a.s.Press(in.Cursor) {
			i, _ := a.s.Picked()
			raster.Logger().Debug("picker: grab", "vertex", a.s.Verts[i].Name, "at", in.Cursor)
		}
	}
	if in.Down {
		a.s.Move(in.Cursor)
	}
	if in.JustReleased {
		a.s.Release()
	}
	return nil
}

func (a *pickerApp) Markers() []image.Point {
	pts, _ := a.s.Points()
	return pts
}

// Reload applies changed background and fill colors. The fill callback is
// rebuilt through the same spec, so a checkerboard stays a checkerboard; a
// texture fill ignores the fill color.
func (a *pickerApp) Reload(cfg config.Config) error {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	var fn raster.ShadeFunc
	if cfg.Fill != a.cfg.Fill && a.spec.Texture == "" {
		if fn, err = fillShade(cfg, a.spec); err != nil {
			return err
		}
	}

	if cfg.Background != a.cfg.Background {
		a.s.SetBackground(bg)
		a.cfg.Background = cfg.Background
	}
	if fn != nil {
		a.s.SetShade(fn)
		a.cfg.Fill = cfg.Fill
	}
	return nil
}

// Snapshot returns a copy of the frame with labeled vertex markers,
// upscaled by scale.
func (a *pickerApp) Snapshot(scale int) *image.NRGBA {
	src := a.s.Frame.Image()
	img := image.NewNRGBA(src.Rect)
	copy(img.Pix, src.Pix)

	pts, names := a.s.Points()
	img = export.Upscale(img, scale)
	for i := range pts {
		pts[i] = pts[i].Mul(max(scale, 1))
	}
	export.DrawMarkers(img, pts, names, color.NRGBA{0, 0, 255, 255})
	return img
}

func watchConfig(ctx context.Context, path string, flags config.Flags, out chan<- config.Config) {
	err := config.Watch(ctx, path, func(cfg config.Config, err error) {
		if err != nil {
			raster.Logger().Warn("config reload", "error", err)
			return
		}
		resolve(&cfg, flags)
		select {
		case out <- cfg:
		default:
		}
	})
	if err != nil {
		raster.Logger().Warn("config watch stopped", "error", err)
	}
}
