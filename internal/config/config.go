// Package config loads the optional JSON build configuration and merges
// CLI flags over it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/tkpic/internal/profile"
)

// DefaultOutputDir is where build writes when nothing else is configured.
const DefaultOutputDir = "./tkpic_out"

// Config holds build settings. Zero values mean "take it from the profile".
type Config struct {
	OutputDir string `json:"output_dir"`
	Profile   string `json:"profile"`
	Workers   int    `json:"workers"`

	// Profile overrides
	Widths    []int    `json:"widths"`
	Formats   []string `json:"formats"`
	Quality   int      `json:"quality"`
	Filter    string   `json:"filter"`
	Blur      int      `json:"blur"`
	Colors    int      `json:"colors"`
	Quantizer string   `json:"quantizer"`
	Dither    bool     `json:"dither"`

	// NoRegressSize skips variants larger than their source file.
	// A nil value means enabled.
	NoRegressSize *bool `json:"no_regress_size"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Profile   string
	Workers   int
	Widths    []int
	Formats   []string
	Quality   int
	Filter    string
	Blur      int
	Colors    int
	Quantizer string
	Dither    bool
	// NoRegressSize is applied only when NoRegressSizeSet is true.
	NoRegressSize    bool
	NoRegressSizeSet bool
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI flags over the file values and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Profile != "" {
		c.Profile = flags.Profile
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if len(flags.Widths) > 0 {
		c.Widths = flags.Widths
	}
	if len(flags.Formats) > 0 {
		c.Formats = flags.Formats
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.Blur > 0 {
		c.Blur = flags.Blur
	}
	if flags.Colors > 0 {
		c.Colors = flags.Colors
	}
	if flags.Quantizer != "" {
		c.Quantizer = flags.Quantizer
	}
	if flags.Dither {
		c.Dither = true
	}
	if flags.NoRegressSizeSet {
		v := flags.NoRegressSize
		c.NoRegressSize = &v
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Profile == "" {
		c.Profile = profile.Default
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.NoRegressSize == nil {
		v := true
		c.NoRegressSize = &v
	}
}

// BuildProfile returns the named profile with the configured overrides
// applied.
func (c *Config) BuildProfile() profile.Profile {
	p := profile.Get(c.Profile)
	if len(c.Widths) > 0 {
		p.Widths = append([]int(nil), c.Widths...)
	}
	if len(c.Formats) > 0 {
		p.Formats = append([]string(nil), c.Formats...)
	}
	if c.Quality > 0 {
		p.Quality = min(c.Quality, 100)
	}
	if c.Filter != "" {
		p.Filter = c.Filter
	}
	if c.Blur > 0 {
		p.Blur = c.Blur
	}
	if c.Colors > 0 {
		p.Colors = min(c.Colors, 256)
	}
	if c.Quantizer != "" {
		p.Quantizer = c.Quantizer
	}
	if c.Dither {
		p.Dither = true
	}
	return p
}
