// Package config handles configuration loading for the scatter chart.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the chart configuration.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Chart  ChartConfig  `yaml:"chart"`
	Render RenderConfig `yaml:"render"`
	Cache  CacheConfig  `yaml:"cache"`
	Output OutputConfig `yaml:"output"`
}

// DataConfig contains data source settings.
type DataConfig struct {
	Path          string `yaml:"path"`
	StrictNumeric bool   `yaml:"strict_numeric"`
}

// ChartConfig contains the drawing size.
type ChartConfig struct {
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Margin MarginConfig `yaml:"margin"`
}

// MarginConfig contains the space around the plot area.
type MarginConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	TransitionMS int           `yaml:"transition_ms"`
	MarkRadius   float64       `yaml:"mark_radius"`
	Fill         string        `yaml:"fill"`
	ColorBy      string        `yaml:"color_by"`
	Colormap     string        `yaml:"colormap"`
	FrameRate    int           `yaml:"frame_rate"`
	Tooltip      TooltipConfig `yaml:"tooltip"`
}

// TooltipConfig contains the tooltip offset from its mark.
type TooltipConfig struct {
	OffsetTop  *float64 `yaml:"offset_top"`
	OffsetLeft *float64 `yaml:"offset_left"`
}

// CacheConfig contains caching settings.
type CacheConfig struct {
	FrameSizeMB       int `yaml:"frame_size_mb"`
	FrameTTLMinutes   int `yaml:"frame_ttl_minutes"`
	DocumentCacheSize int `yaml:"document_cache_size"`
}

// OutputConfig contains where rendered files go.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	top, left := 80.0, -60.0
	return &Config{
		Data: DataConfig{
			Path: "./data/data.csv",
		},
		Chart: ChartConfig{
			Width:  1000,
			Height: 600,
			Margin: MarginConfig{Top: 20, Right: 40, Bottom: 60, Left: 100},
		},
		Render: RenderConfig{
			TransitionMS: 1800,
			MarkRadius:   12,
			Fill:         "skyblue",
			Colormap:     "viridis",
			FrameRate:    30,
			Tooltip:      TooltipConfig{OffsetTop: &top, OffsetLeft: &left},
		},
		Cache: CacheConfig{
			FrameSizeMB:       64,
			FrameTTLMinutes:   10,
			DocumentCacheSize: 32,
		},
		Output: OutputConfig{
			Dir: "./out",
		},
	}
}

// TransitionDuration returns the animation length.
func (c *Config) TransitionDuration() time.Duration {
	return time.Duration(c.Render.TransitionMS) * time.Millisecond
}

// FrameTTL returns how long rendered frames stay cached.
func (c *Config) FrameTTL() time.Duration {
	return time.Duration(c.Cache.FrameTTLMinutes) * time.Minute
}

// PlotSize returns the plot area inside the margins.
func (c *Config) PlotSize() (width, height int) {
	m := c.Chart.Margin
	return c.Chart.Width - m.Left - m.Right, c.Chart.Height - m.Top - m.Bottom
}

// Validate reports settings that cannot produce a chart.
func (c *Config) Validate() error {
	if w, h := c.PlotSize(); w <= 0 || h <= 0 {
		return fmt.Errorf("chart %dx%d leaves no room inside its margins", c.Chart.Width, c.Chart.Height)
	}
	if c.Render.TransitionMS < 0 {
		return fmt.Errorf("negative transition_ms %d", c.Render.TransitionMS)
	}
	// GIF frame delays are whole hundredths of a second
	if c.Render.FrameRate < 1 || c.Render.FrameRate > 100 {
		return fmt.Errorf("frame_rate %d outside 1-100", c.Render.FrameRate)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Data.Path == "" {
		cfg.Data.Path = defaults.Data.Path
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = defaults.Chart.Width
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = defaults.Chart.Height
	}
	if cfg.Chart.Margin == (MarginConfig{}) {
		cfg.Chart.Margin = defaults.Chart.Margin
	}
	if cfg.Render.TransitionMS == 0 {
		cfg.Render.TransitionMS = defaults.Render.TransitionMS
	}
	if cfg.Render.MarkRadius == 0 {
		cfg.Render.MarkRadius = defaults.Render.MarkRadius
	}
	if cfg.Render.Fill == "" {
		cfg.Render.Fill = defaults.Render.Fill
	}
	if cfg.Render.Colormap == "" {
		cfg.Render.Colormap = defaults.Render.Colormap
	}
	if cfg.Render.FrameRate == 0 {
		cfg.Render.FrameRate = defaults.Render.FrameRate
	}
	// offsets may legitimately be zero
	if cfg.Render.Tooltip.OffsetTop == nil {
		cfg.Render.Tooltip.OffsetTop = defaults.Render.Tooltip.OffsetTop
	}
	if cfg.Render.Tooltip.OffsetLeft == nil {
		cfg.Render.Tooltip.OffsetLeft = defaults.Render.Tooltip.OffsetLeft
	}
	if cfg.Cache.FrameSizeMB == 0 {
		cfg.Cache.FrameSizeMB = defaults.Cache.FrameSizeMB
	}
	if cfg.Cache.FrameTTLMinutes == 0 {
		cfg.Cache.FrameTTLMinutes = defaults.Cache.FrameTTLMinutes
	}
	if cfg.Cache.DocumentCacheSize == 0 {
		cfg.Cache.DocumentCacheSize = defaults.Cache.DocumentCacheSize
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaults.Output.Dir
	}
}
