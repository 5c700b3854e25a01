// Package config loads the application configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lanseria/fund-investment-assistant-mp/chart"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		// Path is a CSV or JSON history file.
		Path string `yaml:"path"`
		// SQLitePath, when set and Path is empty, reads history for Code
		// from a SQLite database.
		SQLitePath string `yaml:"sqlite_path"`
		Code       string `yaml:"code"`
	} `yaml:"source"`
	Chart struct {
		DefaultRange string   `yaml:"default_range"`
		Accent       string   `yaml:"accent"`
		LineWidth    float64  `yaml:"line_width"`
		RedrawDelay  Duration `yaml:"redraw_delay"`
	} `yaml:"chart"`
	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"window"`
	LogLevel string `yaml:"log_level"`
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Chart.RedrawDelay = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("NAVSCOPE_SOURCE"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("NAVSCOPE_SQLITE"); v != "" {
		cfg.Source.SQLitePath = v
	}
	if v := os.Getenv("NAVSCOPE_CODE"); v != "" {
		cfg.Source.Code = v
	}
	if v := os.Getenv("NAVSCOPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Chart.DefaultRange == "" {
		cfg.Chart.DefaultRange = chart.DefaultRange
	}
	if cfg.Chart.Accent == "" {
		cfg.Chart.Accent = "#EF4444"
	}
	if cfg.Chart.LineWidth == 0 {
		cfg.Chart.LineWidth = 2
	}
	if cfg.Chart.RedrawDelay < 0 {
		cfg.Chart.RedrawDelay = Duration(50 * time.Millisecond)
	}
	if cfg.Window.Width == 0 {
		cfg.Window.Width = 420
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = 640
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, ok := chart.LookupRange(c.Chart.DefaultRange); !ok {
		return fmt.Errorf("chart.default_range %q is not one of the known ranges", c.Chart.DefaultRange)
	}
	if _, err := ParseHexColor(c.Chart.Accent); err != nil {
		return fmt.Errorf("chart.accent: %w", err)
	}
	if c.Chart.LineWidth <= 0 {
		return fmt.Errorf("chart.line_width must be positive")
	}
	if c.Source.SQLitePath != "" && c.Source.Path == "" && c.Source.Code == "" {
		return fmt.Errorf("source.code is required when reading from source.sqlite_path")
	}
	return nil
}

// Style builds the chart style from the chart section.
func (c *Config) Style() chart.Style {
	accent, _ := ParseHexColor(c.Chart.Accent)
	st := chart.DefaultStyle(accent)
	st.LineWidth = c.Chart.LineWidth
	return st
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
