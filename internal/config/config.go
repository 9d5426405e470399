// Package config holds every tunable of the circuit background: layout
// density, colours, pulse behaviour and host window settings. Defaults
// reproduce the stock look; a TOML file can override any subset.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/iburimskiy/circuit-background/internal/board"
	"github.com/iburimskiy/circuit-background/internal/pulse"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Style  StyleConfig  `toml:"style"`
	Pulse  PulseConfig  `toml:"pulse"`
	Window WindowConfig `toml:"window"`
}

type LayoutConfig struct {
	GridSize       int     `toml:"grid_size"`
	ChipArea       float64 `toml:"chip_area"`  // px² per chip placement attempt
	TraceArea      float64 `toml:"trace_area"` // px² per trace routing attempt
	ChipMinCells   int     `toml:"chip_min_cells"`
	ChipMaxCells   int     `toml:"chip_max_cells"`
	TraceMinSteps  int     `toml:"trace_min_steps"`
	TraceMaxSteps  int     `toml:"trace_max_steps"`
	TurnChance     float64 `toml:"turn_chance"`
	MinTracePoints int     `toml:"min_trace_points"`
}

type StyleConfig struct {
	Background  Color `toml:"background"`
	TraceColor  Color `toml:"trace_color"`
	ChipFill    Color `toml:"chip_fill"`
	ChipBorder  Color `toml:"chip_border"`
	PinColor    Color `toml:"pin_color"`
	DetailColor Color `toml:"detail_color"`
	LabelColor  Color `toml:"label_color"`

	TraceWidth      float64 `toml:"trace_width"`
	ChipBorderWidth float64 `toml:"chip_border_width"`
	PinWidth        float64 `toml:"pin_width"`
	PinLength       float64 `toml:"pin_length"`
	ViaRadius       float64 `toml:"via_radius"`
	DetailSize      float64 `toml:"detail_size"`
	DetailInset     float64 `toml:"detail_inset"`
	LabelSize       float64 `toml:"label_size"`
	Labels          bool    `toml:"labels"`
}

type PulseConfig struct {
	Chance      float64 `toml:"chance"`
	BaseSpeed   float64 `toml:"base_speed"`
	Palette     []Color `toml:"palette"`
	Radius      float64 `toml:"radius"`
	GlowRadius  float64 `toml:"glow_radius"`
	TailLength  int     `toml:"tail_length"`
	TailSpacing float64 `toml:"tail_spacing"`
	TailRadius  float64 `toml:"tail_radius"`
	TailAlpha   float64 `toml:"tail_alpha"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	FPS    int    `toml:"fps"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			GridSize:       30,
			ChipArea:       60000,
			TraceArea:      1500,
			ChipMinCells:   2,
			ChipMaxCells:   3,
			TraceMinSteps:  10,
			TraceMaxSteps:  49,
			TurnChance:     0.2,
			MinTracePoints: 3,
		},
		Style: StyleConfig{
			Background:      Hex("#05070AFF"),
			TraceColor:      Hex("#00CFF959"),
			ChipFill:        Hex("#05141E99"),
			ChipBorder:      Hex("#00CFF966"),
			PinColor:        Hex("#00CFF966"),
			DetailColor:     Hex("#00329633"),
			LabelColor:      Hex("#0064FF33"),
			TraceWidth:      1,
			ChipBorderWidth: 2,
			PinWidth:        1,
			PinLength:       4,
			ViaRadius:       1.5,
			DetailSize:      10,
			DetailInset:     10,
			LabelSize:       8,
			Labels:          true,
		},
		Pulse: PulseConfig{
			Chance:      0.04,
			BaseSpeed:   2,
			Palette:     []Color{Hex("#00CFF9"), Hex("#0099CC"), Hex("#006699")},
			Radius:      1.5,
			GlowRadius:  5,
			TailLength:  8,
			TailSpacing: 3,
			TailRadius:  1,
			TailAlpha:   0.5,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Circuit Background",
			FPS:    60,
		},
	}
}

// Load reads path over the defaults. Keys the file sets but Config does not
// know are logged and ignored.
func Load(path string, logger *log.Logger) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && logger != nil {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges that the generator and renderer rely on.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	l := c.Layout
	check(l.GridSize > 0, "layout.grid_size must be positive, got %d", l.GridSize)
	check(l.ChipArea > 0, "layout.chip_area must be positive, got %v", l.ChipArea)
	check(l.TraceArea > 0, "layout.trace_area must be positive, got %v", l.TraceArea)
	check(l.ChipMinCells > 0 && l.ChipMinCells <= l.ChipMaxCells,
		"layout.chip_min_cells/chip_max_cells must satisfy 0 < min <= max, got %d/%d", l.ChipMinCells, l.ChipMaxCells)
	check(l.TraceMinSteps >= 0 && l.TraceMinSteps <= l.TraceMaxSteps,
		"layout.trace_min_steps/trace_max_steps must satisfy 0 <= min <= max, got %d/%d", l.TraceMinSteps, l.TraceMaxSteps)
	check(l.TurnChance >= 0 && l.TurnChance <= 1, "layout.turn_chance must be in [0,1], got %v", l.TurnChance)
	check(l.MinTracePoints >= 3, "layout.min_trace_points must be at least 3, got %d", l.MinTracePoints)

	p := c.Pulse
	check(p.Chance >= 0 && p.Chance <= 1, "pulse.chance must be in [0,1], got %v", p.Chance)
	check(p.BaseSpeed > 0, "pulse.base_speed must be positive, got %v", p.BaseSpeed)
	check(len(p.Palette) > 0, "pulse.palette must not be empty")
	check(p.TailLength >= 0, "pulse.tail_length must not be negative, got %d", p.TailLength)
	check(p.TailAlpha >= 0 && p.TailAlpha <= 1, "pulse.tail_alpha must be in [0,1], got %v", p.TailAlpha)

	w := c.Window
	check(w.Width > 0 && w.Height > 0, "window size must be positive, got %dx%d", w.Width, w.Height)
	check(w.FPS > 0, "window.fps must be positive, got %d", w.FPS)
	return errors.Join(errs...)
}

// BoardParams converts the layout section for the generator.
func (c Config) BoardParams() board.Params {
	l := c.Layout
	return board.Params{
		CellSize:       l.GridSize,
		ChipArea:       l.ChipArea,
		TraceArea:      l.TraceArea,
		ChipMinCells:   l.ChipMinCells,
		ChipMaxCells:   l.ChipMaxCells,
		TraceMinSteps:  l.TraceMinSteps,
		TraceMaxSteps:  l.TraceMaxSteps,
		TurnChance:     l.TurnChance,
		MinTracePoints: l.MinTracePoints,
	}
}

// PulseParams converts the pulse section for the simulator.
func (c Config) PulseParams() pulse.Params {
	palette := make([]color.NRGBA, len(c.Pulse.Palette))
	for i, p := range c.Pulse.Palette {
		palette[i] = p.NRGBA
	}
	return pulse.Params{
		Chance:    c.Pulse.Chance,
		BaseSpeed: c.Pulse.BaseSpeed,
		Palette:   palette,
		MinPoints: c.Layout.MinTracePoints,
	}
}
