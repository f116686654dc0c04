// Package config loads pgq settings from YAML.
//
// Example:
//
//	default_limit: 100
//	log_level: info
//	export:
//	  anchor_label: Document
//	  relationship_types: [APPEARS_IN, SENT, RECEIVED]
//
// Unset export fields keep their defaults from export.DefaultSkeleton.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pgq/internal/export"
)

// Config holds settings shared by the CLI and the MCP server.
type Config struct {
	// DefaultLimit caps every compiled statement. nil means no cap.
	DefaultLimit *int `yaml:"default_limit"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Export is the export skeleton after overrides are applied.
	Export export.Skeleton `yaml:"export"`
}

// Default returns the built-in configuration: no limit, info logging and the
// default export skeleton.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Export:   export.DefaultSkeleton(),
	}
}

// Load reads and validates a YAML config file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config over Default and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the limit, log level and export skeleton.
func (c *Config) Validate() error {
	if c.DefaultLimit != nil && *c.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must be non-negative, got %d", *c.DefaultLimit)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Level returns the configured slog level. Validate guarantees it parses.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level: unknown level %q (want debug, info, warn or error)", s)
}
