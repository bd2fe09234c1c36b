// Package config loads editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/BurntSushi/toml"

	"emojiforge/internal/palette"
	"emojiforge/internal/state"
)

// Config holds every tunable of the editor.
type Config struct {
	DefaultColor     string  `toml:"default_color"`
	BrushSize        int     `toml:"brush_size"`
	CanvasWidth      float64 `toml:"canvas_width"`
	CanvasHeight     float64 `toml:"canvas_height"`
	EmojiWidth       int     `toml:"emoji_width"`
	EmojiHeight      int     `toml:"emoji_height"`
	BackgroundColor  string  `toml:"background_color"`
	ZoomStep         float64 `toml:"zoom_step"`
	WheelZoomStep    float64 `toml:"wheel_zoom_step"`
	MinPointDistance float64 `toml:"min_point_distance"`
	ShowGrid         bool    `toml:"show_grid"`
	GridSize         float64 `toml:"grid_size"`
	ExportSizes      []int   `toml:"export_sizes"`
	PreviewSizes     []int   `toml:"preview_sizes"`
	LogLevel         string  `toml:"log_level"`
	LogFormat        string  `toml:"log_format"`
	StoreLatencyMS   int     `toml:"store_latency_ms"`
}

func Default() Config {
	return Config{
		DefaultColor:    state.DefaultColor,
		BrushSize:       state.DefaultBrushSize,
		CanvasWidth:     state.DefaultCanvasSize,
		CanvasHeight:    state.DefaultCanvasSize,
		EmojiWidth:      state.DefaultDocumentSize,
		EmojiHeight:     state.DefaultDocumentSize,
		BackgroundColor: state.DefaultBackgroundColor,
		ZoomStep:        state.DefaultZoomStep,
		WheelZoomStep:   state.DefaultWheelZoomStep,
		ShowGrid:        true,
		GridSize:        20,
		ExportSizes:     []int{16, 32, 64, 128, 256},
		PreviewSizes:    []int{16, 32, 64, 128},
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg.Normalize(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg.Normalize(), nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.Normalize(), nil
}

// Normalize replaces out of range values with the nearest valid ones, or
// with the default when there is no sensible nearest value.
func (c Config) Normalize() Config {
	def := Default()
	if n, err := palette.Normalize(c.DefaultColor); err != nil || n == palette.None {
		c.DefaultColor = def.DefaultColor
	} else {
		c.DefaultColor = n
	}
	if n, err := palette.Normalize(c.BackgroundColor); err != nil {
		c.BackgroundColor = def.BackgroundColor
	} else {
		c.BackgroundColor = n
	}
	c.BrushSize = clampInt(c.BrushSize, state.MinBrushSize, state.MaxBrushSize)
	c.CanvasWidth = positiveOr(c.CanvasWidth, def.CanvasWidth)
	c.CanvasHeight = positiveOr(c.CanvasHeight, def.CanvasHeight)
	if c.EmojiWidth <= 0 {
		c.EmojiWidth = def.EmojiWidth
	}
	if c.EmojiHeight <= 0 {
		c.EmojiHeight = def.EmojiHeight
	}
	if !(c.ZoomStep > 1) {
		c.ZoomStep = def.ZoomStep
	}
	if !(c.WheelZoomStep > 1) {
		c.WheelZoomStep = def.WheelZoomStep
	}
	if c.MinPointDistance < 0 || math.IsNaN(c.MinPointDistance) {
		c.MinPointDistance = 0
	}
	c.GridSize = positiveOr(c.GridSize, def.GridSize)
	c.ExportSizes = positiveSizes(c.ExportSizes, def.ExportSizes)
	c.PreviewSizes = positiveSizes(c.PreviewSizes, def.PreviewSizes)
	if c.StoreLatencyMS < 0 {
		c.StoreLatencyMS = 0
	}
	return c
}

// EditorOptions maps the config onto state.Options.
func (c Config) EditorOptions() state.Options {
	return state.Options{
		Color:            c.DefaultColor,
		BrushSize:        c.BrushSize,
		CanvasWidth:      c.CanvasWidth,
		CanvasHeight:     c.CanvasHeight,
		DocumentWidth:    c.EmojiWidth,
		DocumentHeight:   c.EmojiHeight,
		Background:       c.BackgroundColor,
		ZoomStep:         c.ZoomStep,
		WheelZoomStep:    c.WheelZoomStep,
		MinPointDistance: c.MinPointDistance,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func positiveOr(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return def
}

func positiveSizes(sizes, def []int) []int {
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s > 0 {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]int(nil), def...)
	}
	return out
}
