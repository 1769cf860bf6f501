package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Index   int     `json:"index"`
	Time    float64 `json:"time"`
	File    string  `json:"file"`
	Covered int     `json:"covered"`
}

// Manifest is the document written to manifest.json.
type Manifest struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    int             `json:"fps"`
	Frames []ManifestEntry `json:"frames"`
}

// NewManifest lists the successful results in index order.
func NewManifest(cfg Config, results []Result) Manifest {
	m := Manifest{
		Width:  cfg.Width * max(cfg.Scale, 1),
		Height: cfg.Height * max(cfg.Scale, 1),
		FPS:    cfg.FPS,
		Frames: make([]ManifestEntry, 0, len(results)),
	}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index:   r.Index,
			Time:    r.Time,
			File:    r.File,
			Covered: r.Covered,
		})
	}
	return m
}

// WriteManifest writes the manifest for results to path.
func WriteManifest(path string, cfg Config, results []Result) error {
	data, err := json.MarshalIndent(NewManifest(cfg, results), "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
