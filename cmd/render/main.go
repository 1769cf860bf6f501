package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"scanline-renderer/internal/batch"
	"scanline-renderer/internal/config"
	"scanline-renderer/internal/export"
	"scanline-renderer/internal/raster"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml, .yaml)")
	width := flag.Int("width", 0, "Frame width (default: 1600)")
	height := flag.Int("height", 0, "Frame height (default: 900)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 60)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	format := flag.String("format", "", "Output format: "+strings.Join(export.Formats, ", ")+" (default: png)")
	background := flag.String("bg", "", "Background color (default: #000000)")
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

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Width:      *width,
		Height:     *height,
		Background: *background,
		OutputDir:  *outputDir,
		Format:     *format,
		Frames:     *frames,
		Workers:    *workers,
	})

	if !slices.Contains(export.Formats, cfg.Format) {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want one of %s)\n", cfg.Format, strings.Join(export.Formats, ", "))
		os.Exit(1)
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("Scanline cube renderer → %s\n", cfg.Format)
	fmt.Printf("Frames: %d at %d fps, %dx%d (x%d), Workers: %d\n",
		cfg.Frames, cfg.FPS, cfg.Width, cfg.Height, cfg.Scale, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FOV:        float32(cfg.FOV),
		FarDepth:   cfg.FarDepth,
		Background: bg,
		Frames:     cfg.Frames,
		FPS:        cfg.FPS,
		Scale:      cfg.Scale,
		Workers:    cfg.Workers,
	}

	results := batch.Run(ctx, batchCfg)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  %s: %s\n", batch.FrameName(e.Index, cfg.Format), e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batchCfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
