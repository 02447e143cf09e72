// Package config loads the editor's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Zero fields in a file keep their
// defaults.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Debug  DebugConfig  `yaml:"debug"`
	Export ExportConfig `yaml:"export"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // any logrus level name
	Format string `yaml:"format"` // "json" or "text"
}

type DebugConfig struct {
	History bool `yaml:"history"` // record history timings
	Codec   bool `yaml:"codec"`   // log image reads and writes
}

type ExportConfig struct {
	Format string `yaml:"format"` // extension used when an export path has none
}

var exportFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "bmp": true,
	"tif": true, "tiff": true, "webp": true, "pdf": true,
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "json"},
		Export: ExportConfig{Format: "png"},
	}
}

// Load reads the file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Export.Format = strings.TrimPrefix(strings.ToLower(cfg.Export.Format), ".")
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if !exportFormats[c.Export.Format] {
		return fmt.Errorf("export.format: unsupported format %q", c.Export.Format)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
