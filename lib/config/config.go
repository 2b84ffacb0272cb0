// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cxz/crush/lib/stream"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "CRUSH_CONFIG"

// Log output formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the master configuration structure.
type Config struct {
	Stream StreamConfig `yaml:"stream"`
	Log    LogConfig    `yaml:"log"`
	Paths  PathsConfig  `yaml:"paths"`
	Help   HelpConfig   `yaml:"help"`
}

// StreamConfig tunes the pipes between pipeline stages.
type StreamConfig struct {
	// Capacity is the number of rows a stream buffers before Send
	// suspends the producer.
	Capacity int `yaml:"capacity"`
}

// LogConfig selects the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is auto, text, or json. Auto picks text when stderr is a
	// terminal.
	Format string `yaml:"format"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	// WorkDir is where relative file operands resolve. Empty means the
	// process working directory.
	WorkDir string `yaml:"workdir"`
}

// HelpConfig tunes rendered help text.
type HelpConfig struct {
	// Width is the wrap column. Zero means the terminal width, or 80
	// when output is not a terminal.
	Width int `yaml:"width"`
}

// Default returns a configuration with defaults for interactive use.
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			Capacity: stream.DefaultCapacity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatAuto,
		},
	}
}

// Load loads configuration from the file named by CRUSH_CONFIG. When the
// variable is not set, the defaults are returned unchanged.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Keys missing
// from the file keep their defaults. The only expansion performed is
// ${VAR} and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.WorkDir = expandVars(c.Paths.WorkDir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. vars take
// precedence over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, fallback := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fallback
	})
}

// SlogLevel returns Log.Level as a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Stream.Capacity < 1 {
		errs = append(errs, fmt.Errorf("stream.capacity must be at least 1, got %d", c.Stream.Capacity))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	formats := []string{FormatAuto, FormatText, FormatJSON}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %s", strings.Join(formats, ", ")))
	}

	if c.Paths.WorkDir != "" {
		info, err := os.Stat(c.Paths.WorkDir)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("paths.workdir: %w", err))
		case !info.IsDir():
			errs = append(errs, fmt.Errorf("paths.workdir: %s is not a directory", c.Paths.WorkDir))
		}
	}

	if c.Help.Width < 0 {
		errs = append(errs, fmt.Errorf("help.width must not be negative, got %d", c.Help.Width))
	}

	return errors.Join(errs...)
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
