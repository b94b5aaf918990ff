// Package config holds the YAML configuration for the pooltrack CLI.
//
// Values resolve in precedence order: built-in defaults, then the config
// file, then command line flags, then positional arguments. The file layer
// is optional; Load is only called when the user names a file explicitly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/pooltrack/delta"
	"github.com/arloliu/pooltrack/format"
	"github.com/arloliu/pooltrack/internal/pool"
)

// Config holds all pooltrack settings.
type Config struct {
	// Sampling loop settings.
	IntervalSeconds int `yaml:"interval_seconds"`
	SampleCount     int `yaml:"sample_count"`

	// Growth reporting settings.
	ThresholdKB int      `yaml:"threshold_kb"`
	TopRows     int      `yaml:"top_rows"`
	TagFilters  []string `yaml:"tag_filters"`

	// Query buffer size in bytes.
	BufferSize int `yaml:"buffer_size"`

	// Snapshot archive settings.
	Archive ArchiveConfig `yaml:"archive"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// ArchiveConfig configures the optional snapshot archive.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	Compression string `yaml:"compression"` // none, zstd, s2, lz4
}

// LoggingConfig configures the diagnostic logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IntervalSeconds: 30,
		SampleCount:     20,
		ThresholdKB:     100,
		TopRows:         15,
		BufferSize:      pool.QueryBufferDefaultSize,
		Archive: ArchiveConfig{
			Enabled:     false,
			Path:        "pooltrack.ptrk",
			Compression: "s2",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. The path comes from an
// explicit user request, so a missing or unreadable file is an error rather
// than a silent fallback.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the sampling loop cannot run
// with. It is called after all layers have been applied.
func (c *Config) Validate() error {
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	if c.SampleCount <= 0 {
		return fmt.Errorf("sample_count must be positive, got %d", c.SampleCount)
	}
	if c.ThresholdKB < 0 {
		return fmt.Errorf("threshold_kb must not be negative, got %d", c.ThresholdKB)
	}
	if c.TopRows <= 0 {
		return fmt.Errorf("top_rows must be positive, got %d", c.TopRows)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}

	if _, err := format.ParseCompression(c.Archive.Compression); err != nil {
		return fmt.Errorf("invalid archive compression: %w", err)
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive enabled but no archive path configured")
	}

	if _, err := delta.NewTagFilter(c.TagFilters...); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// Interval returns the sampling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ThresholdBytes returns the growth threshold in bytes.
func (c *Config) ThresholdBytes() int64 {
	return int64(c.ThresholdKB) * 1024
}

// Compression returns the parsed archive compression type. Call Validate
// first; an unknown name returns an error here too.
func (c *Config) Compression() (format.CompressionType, error) {
	return format.ParseCompression(c.Archive.Compression)
}
