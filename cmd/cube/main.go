package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"scanline-renderer/internal/config"
	"scanline-renderer/internal/export"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/viewer"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml, .yaml)")
	width := flag.Int("width", 0, "Frame width (default: 1600)")
	height := flag.Int("height", 0, "Frame height (default: 900)")
	background := flag.String("bg", "", "Background color (default: #000000)")
	workers := flag.Int("workers", 0, "Row bands drawn in parallel (default: NumCPU)")
	shading := flag.String("shade", "lit", "Face shading: lit, flat or depth")
	snapshot := flag.String("snapshot", "", "Render one frame to this image file instead of opening a window")
	at := flag.Float64("t", 0, "Animation time in seconds for -snapshot")
	watch := flag.Bool("watch", false, "Reload settings when the config file changes")
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
		Workers:    *workers,
	}
	cfg.Resolve(flags)

	app, err := newCubeApp(cfg, *shading)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *snapshot != "" {
		app.t = *at
		app.render()
		img := export.Upscale(app.frame.Image(), cfg.Scale)
		if err := export.WriteFile(*snapshot, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot: %s at t=%.2fs\n", *snapshot, *at)
		return
	}

	opts := viewer.Options{Title: "Scanline cube", TPS: cfg.TPS, Scale: cfg.Scale}
	if *watch && *configFile != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		reload := make(chan config.Config, 1)
		go func() {
			err := config.Watch(ctx, *configFile, func(c config.Config, err error) {
				if err != nil {
					raster.Logger().Warn("config reload", "error", err)
					return
				}
				c.Resolve(flags)
				select {
				case reload <- c:
				default:
				}
			})
			if err != nil {
				raster.Logger().Warn("config watch stopped", "error", err)
			}
		}()
		opts.Reload = reload
	}

	if err := viewer.Run(app, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cubeApp animates the cube one tick at a time. Holding the mouse button
// pauses the animation.
type cubeApp struct {
	scene *scene.Scene
	frame *raster.Frame
	t     float64
	dt    float64
}

func newCubeApp(cfg config.Config, shading string) (*cubeApp, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	sc := scene.NewCubeScene(cfg.Width, cfg.Height, float32(cfg.FOV))
	sc.Workers = cfg.Workers
	switch shading {
	case "lit":
	case "flat":
		sc.Lit = false
	case "depth":
		sc.Lit = false
		sc.Depth = true
	default:
		return nil, fmt.Errorf("unknown shading %q (want lit, flat or depth)", shading)
	}

	a := &cubeApp{
		scene: sc,
		frame: raster.NewFrame(cfg.Width, cfg.Height, bg, true, cfg.FarDepth),
		dt:    1 / float64(max(cfg.TPS, 1)),
	}
	a.render()
	return a, nil
}

func (a *cubeApp) render() {
	a.frame.Clear()
	a.scene.Render(a.frame, a.t)
}

func (a *cubeApp) Frame() *raster.Frame { return a.frame }

func (a *cubeApp) Update(in viewer.Input) error {
	if in.Down {
		return nil
	}
	a.t += a.dt
	a.render()
	return nil
}

func (a *cubeApp) Reload(cfg config.Config) error {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return err
	}
	a.frame.Background = bg
	a.scene.Pipeline = scene.NewPipeline(a.frame.Color.Width, a.frame.Color.Height, float32(cfg.FOV))
	a.dt = 1 / float64(max(cfg.TPS, 1))
	a.render()
	return nil
}
