package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files with an unsupported extension.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config holds all render and viewer settings.
type Config struct {
	// Target
	Width      int     `json:"width" toml:"width" yaml:"width"`
	Height     int     `json:"height" toml:"height" yaml:"height"`
	FarDepth   float64 `json:"far_depth" toml:"far_depth" yaml:"far_depth"`
	Background string  `json:"background" toml:"background" yaml:"background"`
	Fill       string  `json:"fill" toml:"fill" yaml:"fill"`

	// Interaction
	PickRadius float64 `json:"pick_radius" toml:"pick_radius" yaml:"pick_radius"`
	TPS        int     `json:"tps" toml:"tps" yaml:"tps"`
	FOV        float64 `json:"fov" toml:"fov" yaml:"fov"`

	// Output
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	Format    string `json:"format" toml:"format" yaml:"format"`
	Frames    int    `json:"frames" toml:"frames" yaml:"frames"`
	FPS       int    `json:"fps" toml:"fps" yaml:"fps"`
	Scale     int    `json:"scale" toml:"scale" yaml:"scale"`
	Workers   int    `json:"workers" toml:"workers" yaml:"workers"`
}

// Load reads a config file and returns Config. The format is chosen by
// extension: .json, .toml, .yaml or .yml. Fields not set in the file keep
// their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width      int
	Height     int
	Background string
	Fill       string
	PickRadius float64
	OutputDir  string
	Format     string
	Frames     int
	Workers    int
}

// Resolve applies non-zero flags over the file values, then fills any
// empty field with its default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Fill != "" {
		c.Fill = flags.Fill
	}
	if flags.PickRadius > 0 {
		c.PickRadius = flags.PickRadius
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Width <= 0 {
		c.Width = 1600
	}
	if c.Height <= 0 {
		c.Height = 900
	}
	if c.FarDepth == 0 || math.IsNaN(c.FarDepth) {
		c.FarDepth = math.Inf(1)
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.Fill == "" {
		c.Fill = "#ff0000"
	}
	if c.PickRadius <= 0 {
		c.PickRadius = 5
	}
	if c.TPS <= 0 {
		c.TPS = 20
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = 45
	}
	if c.OutputDir == "" {
		c.OutputDir = "frames"
	}
	if c.Format == "" {
		c.Format = "png"
	}
	c.Format = strings.ToLower(strings.TrimPrefix(c.Format, "."))
	if c.Frames <= 0 {
		c.Frames = 60
	}
	if c.FPS <= 0 {
		c.FPS = 20
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// BackgroundColor parses Background.
func (c *Config) BackgroundColor() (color.NRGBA, error) {
	return ParseColor(c.Background)
}

// FillColor parses Fill.
func (c *Config) FillColor() (color.NRGBA, error) {
	return ParseColor(c.Fill)
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color into an opaque NRGBA.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
