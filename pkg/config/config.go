// Package config loads the optional fabric.yaml renderer configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in a project.
const FileName = "fabric.yaml"

// SupportedMajor is the configuration format major version understood by
// this package.
const SupportedMajor = "v1"

// Config represents fabric.yaml.
type Config struct {
	Version  string         `yaml:"version,omitempty"`
	Name     string         `yaml:"name,omitempty"`
	Layout   LayoutConfig   `yaml:"layout"`
	Mounting MountingConfig `yaml:"mounting"`
	Text     TextConfig     `yaml:"text"`
}

// LayoutConfig contains layout engine settings.
type LayoutConfig struct {
	PointScaleFactor      float64 `yaml:"pointScaleFactor,omitempty"`
	MaxCachedMeasurements int     `yaml:"maxCachedMeasurements,omitempty"`
	FontSizeMultiplier    float64 `yaml:"fontSizeMultiplier,omitempty"`
	SwapLeftAndRightInRTL bool    `yaml:"swapLeftAndRightInRTL,omitempty"`
}

// MountingConfig contains commit and mount settings.
type MountingConfig struct {
	MaxCommitAttempts int `yaml:"maxCommitAttempts,omitempty"`
	// StateReconciliation is a pointer so an explicit false survives
	// defaulting.
	StateReconciliation *bool `yaml:"stateReconciliation,omitempty"`
	TelemetrySamples    int   `yaml:"telemetrySamples,omitempty"`
}

// ReconcilesState reports whether commits progress state to the latest
// revision held by each family.
func (m MountingConfig) ReconcilesState() bool {
	return m.StateReconciliation == nil || *m.StateReconciliation
}

// TextConfig contains text measurement settings.
type TextConfig struct {
	CacheSize       int     `yaml:"cacheSize,omitempty"`
	DefaultFontSize float64 `yaml:"defaultFontSize,omitempty"`
}

// Defaults.
const (
	DefaultPointScaleFactor      = 1.0
	DefaultMaxCachedMeasurements = 8
	DefaultMaxCommitAttempts     = 1024
	DefaultTelemetrySamples      = 512
	DefaultTextCacheSize         = 256
	DefaultFontSize              = 14.0
	defaultName                  = "fabric"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults("")
	return cfg
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data, filepath.Dir(path))
}

// LoadOptional reads fabric.yaml from dir if present, and returns the
// defaults otherwise.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = &Config{}
			cfg.applyDefaults(dir)
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document. dir is used to
// derive a default name from the enclosing Go module, if any.
func Parse(data []byte, dir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.applyDefaults(dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(dir string) {
	c.Version = strings.TrimSpace(c.Version)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = defaultNameFor(dir)
	}
	if c.Layout.PointScaleFactor == 0 {
		c.Layout.PointScaleFactor = DefaultPointScaleFactor
	}
	if c.Layout.MaxCachedMeasurements == 0 {
		c.Layout.MaxCachedMeasurements = DefaultMaxCachedMeasurements
	}
	if c.Layout.FontSizeMultiplier == 0 {
		c.Layout.FontSizeMultiplier = 1
	}
	if c.Mounting.MaxCommitAttempts == 0 {
		c.Mounting.MaxCommitAttempts = DefaultMaxCommitAttempts
	}
	if c.Mounting.TelemetrySamples == 0 {
		c.Mounting.TelemetrySamples = DefaultTelemetrySamples
	}
	if c.Text.CacheSize == 0 {
		c.Text.CacheSize = DefaultTextCacheSize
	}
	if c.Text.DefaultFontSize == 0 {
		c.Text.DefaultFontSize = DefaultFontSize
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Version != "" {
		if !semver.IsValid(c.Version) {
			return fmt.Errorf("version must be a semantic version like v1.0.0 (got %q)", c.Version)
		}
		if major := semver.Major(c.Version); major != SupportedMajor {
			return fmt.Errorf("unsupported config version %s (want %s.x.x)", c.Version, SupportedMajor)
		}
	}
	if err := positiveFinite("layout.pointScaleFactor", c.Layout.PointScaleFactor); err != nil {
		return err
	}
	if err := positiveFinite("layout.fontSizeMultiplier", c.Layout.FontSizeMultiplier); err != nil {
		return err
	}
	if c.Layout.MaxCachedMeasurements < 1 {
		return fmt.Errorf("layout.maxCachedMeasurements must be at least 1 (got %d)", c.Layout.MaxCachedMeasurements)
	}
	if c.Mounting.MaxCommitAttempts < 1 {
		return fmt.Errorf("mounting.maxCommitAttempts must be at least 1 (got %d)", c.Mounting.MaxCommitAttempts)
	}
	if c.Mounting.TelemetrySamples < 1 {
		return fmt.Errorf("mounting.telemetrySamples must be at least 1 (got %d)", c.Mounting.TelemetrySamples)
	}
	if c.Text.CacheSize < 1 {
		return fmt.Errorf("text.cacheSize must be at least 1 (got %d)", c.Text.CacheSize)
	}
	return positiveFinite("text.defaultFontSize", c.Text.DefaultFontSize)
}

func positiveFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be a positive number (got %v)", name, v)
	}
	return nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// fabric.yaml or go.mod.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

// defaultNameFor names the configuration after the last element of the
// enclosing module path, falling back to the directory name.
func defaultNameFor(dir string) string {
	if dir == "" {
		return defaultName
	}
	base := filepath.Base(dir)
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		if path := modfile.ModulePath(data); path != "" {
			if prefix, _, ok := module.SplitPathVersion(path); ok {
				path = prefix
			}
			parts := strings.Split(path, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return defaultName
	}
	return base
}
