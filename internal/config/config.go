// Package config holds runtime configuration: defaults, an optional YAML
// file, environment overrides, CLI flag binding, and validation.
//
// Layers are applied in this order, later layers winning:
// [DefaultConfig] → [LoadFile] → [LoadEnv] → explicitly set CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Quality bounds accepted by ddjvu's -quality option.
const (
	QualityMin = 1
	QualityMax = 100
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// layered by [Load], and passed (by pointer) to packages that need it.
type Config struct {
	// Paths. InputDir comes from the positional argument only.
	InputDir  string `yaml:"-"`
	OutputDir string `yaml:"output_dir"` // Empty: same as InputDir.
	TempDir   string `yaml:"temp_dir"`   // Parent for scratch areas. Empty: os.TempDir().

	// External DjVuLibre tools. Bare names are resolved through PATH.
	DdjvuPath   string        `yaml:"ddjvu"`        // Default: "ddjvu".
	DjvusedPath string        `yaml:"djvused"`      // Default: "djvused".
	ToolTimeout time.Duration `yaml:"tool_timeout"` // Per invocation. 0 disables. Default: 10m.

	// Conversion.
	Quality          int `yaml:"quality"`            // Default: 85.
	Workers          int `yaml:"workers"`            // Default: 1 (sequential).
	DefaultPageCount int `yaml:"default_page_count"` // Used when both count strategies fail. Default: 100.

	// Behavior flags.
	DryRun bool `yaml:"dry_run"`

	// Display and logging.
	Verbose      bool      `yaml:"verbose"`
	ShowProgress bool      `yaml:"show_progress"` // Default: true.
	ColorMode    ColorMode `yaml:"color"`         // Default: "auto".
	LogFile      string    `yaml:"log_file"`      // Optional log file path.
}

// DefaultConfig returns a Config with sensible defaults: quality 85, one
// worker and a 100-page fallback.
func DefaultConfig() Config {
	return Config{
		DdjvuPath:        "ddjvu",
		DjvusedPath:      "djvused",
		ToolTimeout:      10 * time.Minute,
		Quality:          85,
		Workers:          1,
		DefaultPageCount: 100,
		DryRun:           false,
		Verbose:          false,
		ShowProgress:     true,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks value ranges and enum fields. It does not touch the
// filesystem; existence of InputDir is a batch precondition checked by the
// pipeline.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Quality < QualityMin || c.Quality > QualityMax {
		return fmt.Errorf("quality must be between %d and %d (got %d)", QualityMin, QualityMax, c.Quality)
	}
	if c.DefaultPageCount < 1 {
		return fmt.Errorf("default page count must be positive (got %d)", c.DefaultPageCount)
	}
	if c.ToolTimeout < 0 {
		return errors.New("tool timeout must not be negative")
	}
	if strings.TrimSpace(c.DdjvuPath) == "" {
		return errors.New("ddjvu path must not be empty")
	}
	if strings.TrimSpace(c.DjvusedPath) == "" {
		return errors.New("djvused path must not be empty")
	}
	return nil
}

// ResolvedOutputDir returns OutputDir, or InputDir when no output root was given.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir == "" {
		return c.InputDir
	}
	return c.OutputDir
}

// Parallel reports whether documents are converted by a worker pool rather
// than one at a time.
func (c *Config) Parallel() bool {
	return c.Workers > 1
}
