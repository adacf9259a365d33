// Package config loads the optional arbor.yaml / arbor.toml project file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the schema major version this build understands.
const SupportedMajor = "v1"

// File names searched by LoadOptional, in order.
var fileNames = []string{"arbor.yaml", "arbor.yml", "arbor.toml"}

// Config represents the project configuration.
type Config struct {
	Schema SchemaConfig `yaml:"schema" toml:"schema"`
	Engine EngineConfig `yaml:"engine" toml:"engine"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

// SchemaConfig identifies the configuration format.
type SchemaConfig struct {
	Version string `yaml:"version,omitempty" toml:"version"`
}

// EngineConfig contains frame driver settings.
type EngineConfig struct {
	Width    float64 `yaml:"width,omitempty" toml:"width"`
	Height   float64 `yaml:"height,omitempty" toml:"height"`
	LogLevel string  `yaml:"log_level,omitempty" toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Schema: SchemaConfig{Version: SupportedMajor + ".0.0"},
		Engine: EngineConfig{Width: 320, Height: 240, LogLevel: "info"},
	}
}

// LoadOptional reads the first configuration file found in dir. A directory
// without one yields the defaults.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		return Load(path)
	}
	return Default(), nil
}

// Load reads the configuration at path. The format follows the extension.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	name := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml or .toml)", filepath.Ext(path))
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks the schema version and engine settings.
func (c *Config) Validate() error {
	version := strings.TrimSpace(c.Schema.Version)
	if version == "" {
		return fmt.Errorf("schema.version is required")
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return fmt.Errorf("schema.version %q is not a semantic version", c.Schema.Version)
	}
	if major := semver.Major(version); major != SupportedMajor {
		return fmt.Errorf("schema.version %s is not supported (this build reads %s)", c.Schema.Version, SupportedMajor)
	}
	c.Schema.Version = semver.Canonical(version)

	if !validExtent(c.Engine.Width) || !validExtent(c.Engine.Height) {
		return fmt.Errorf("engine surface %gx%g must be positive and finite", c.Engine.Width, c.Engine.Height)
	}
	if _, err := zerolog.ParseLevel(c.Engine.LogLevel); err != nil {
		return fmt.Errorf("engine.log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Engine.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func validExtent(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
