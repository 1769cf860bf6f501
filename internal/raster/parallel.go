package raster

import (
	"context"
	"log/slog"
	"sync"
)

// DrawParallel draws tris into fb (depth tested against zb when non-nil)
// using up to workers goroutines. See DrawParallelFunc.
func DrawParallel(fb *FrameBuffer, zb *DepthBuffer, tris []Triangle, workers int, opts ...Option) {
	DrawParallelFunc(fb, zb, len(tris), workers, func(r *Rasterizer, i int) {
		r.DrawTriangle(tris[i])
	}, opts...)
}

// DrawParallelFunc splits the rows of fb into disjoint bands, one goroutine
// per band, and calls draw(r, i) for i in [0, n) in order on each band's
// rasterizer. Every pixel is owned by exactly one goroutine, so the result
// equals a sequential draw. draw and any shade callbacks run concurrently
// and must not share mutable state.
func DrawParallelFunc(fb *FrameBuffer, zb *DepthBuffer, n, workers int, draw func(r *Rasterizer, i int), opts ...Option) {
	workers = min(workers, fb.Height)
	if workers <= 1 {
		r := NewRasterizer(fb, append(opts[:len(opts):len(opts)], WithDepth(zb))...)
		for i := 0; i < n; i++ {
			draw(r, i)
		}
		return
	}

	band := (fb.Height + workers - 1) / workers
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("raster: parallel draw", "triangles", n, "workers", workers, "band", band)
	}

	var wg sync.WaitGroup
	for lo := 0; lo < fb.Height; lo += band {
		hi := min(lo+band, fb.Height)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := NewRasterizer(fb, append(opts[:len(opts):len(opts)], WithDepth(zb), WithRows(lo, hi))...)
			for i := 0; i < n; i++ {
				draw(r, i)
			}
		}()
	}
	wg.Wait()
}
