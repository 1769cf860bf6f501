package batch

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"scanline-renderer/internal/export"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir  string
	Format     string // file extension without the dot
	Width      int
	Height     int
	FOV        float32
	FarDepth   float64
	Background color.NRGBA
	Frames     int
	FPS        int
	Scale      int // nearest-neighbor upscale factor applied before writing
	Workers    int
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index   int
	Time    float64
	File    string // relative to OutputDir
	Covered int    // pixels differing from the background
	Success bool
	Error   string
}

// FrameName returns the output file name for frame i.
func FrameName(i int, format string) string {
	return fmt.Sprintf("frame_%04d.%s", i, format)
}

// Run renders cfg.Frames frames of the animated cube using a worker pool.
// Frame i is rendered at t = i/FPS seconds into its own Frame. A failed
// frame is reported in its Result and does not stop the others. Once ctx
// is done no further frames are dispatched; those left get ctx's error.
func Run(ctx context.Context, cfg Config) []Result {
	total := max(cfg.Frames, 0)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := max(cfg.Workers, 1)
	fps := max(cfg.FPS, 1)
	log := raster.Logger()
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("batch: progress", "done", p, "total", total, "fps", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, idx, float64(idx)/float64(fps))
				if !results[idx].Success {
					log.Warn("batch: frame failed", "index", idx, "error", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for ; sent < total; sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break send
		case frameChan <- sent:
		}
	}
	close(frameChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{
			Index: i,
			Time:  float64(i) / float64(fps),
			Error: context.Cause(ctx).Error(),
		}
	}

	log.Info("batch: finished", "frames", total, "dispatched", sent, "elapsed", time.Since(start))
	return results
}

func renderFrame(cfg Config, idx int, t float64) Result {
	name := FrameName(idx, cfg.Format)
	res := Result{Index: idx, Time: t, File: name}

	f := raster.NewFrame(cfg.Width, cfg.Height, cfg.Background, true, cfg.FarDepth)
	sc := scene.NewCubeScene(cfg.Width, cfg.Height, cfg.FOV)
	sc.Render(f, t)
	res.Covered = f.Color.Count(cfg.Background)

	img := export.Upscale(f.Image(), cfg.Scale)
	if err := export.WriteFile(filepath.Join(cfg.OutputDir, name), img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}
