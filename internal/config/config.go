// Package config provides configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tvm/core/tvm"
	"tvm/internal/errors"
	"tvm/internal/logging"
)

// AppName names the settings directory
const AppName = "tvm"

// SettingsFile is the settings file name inside the settings directory
const SettingsFile = "settings.yaml"

// Config holds user preferences
type Config struct {
	// Frequency is the number of periods per year
	Frequency int `yaml:"frequency"`

	// Timing is "end" (ordinary annuity) or "begin" (annuity-due)
	Timing string `yaml:"timing"`

	// Currency is the symbol printed before amounts
	Currency string `yaml:"currency"`

	// Precision is the number of decimal places for amounts
	Precision int `yaml:"precision"`

	// Style is "fixed" ($1,234.56) or "si" ($1.23k)
	Style string `yaml:"style"`

	// Tolerance is the rate solver's convergence threshold
	Tolerance float64 `yaml:"tolerance"`

	// MaxIterations bounds the rate solver
	MaxIterations int `yaml:"max_iterations"`

	// Color enables ANSI colors in terminal output
	Color bool `yaml:"color"`

	// Logging contains logging configuration
	Logging logging.Config `yaml:"logging"`
}

// Output styles
const (
	StyleFixed = "fixed"
	StyleSI    = "si"
)

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Frequency:     12,
		Timing:        tvm.End.String(),
		Currency:      "$",
		Precision:     2,
		Style:         StyleFixed,
		Tolerance:     tvm.DefaultTolerance,
		MaxIterations: tvm.DefaultMaxIterations,
		Color:         true,
		Logging:       logging.DefaultConfig(),
	}
}

// DefaultPath returns the platform settings file location, for example
// ~/.config/tvm/settings.yaml on Linux.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, SettingsFile)
}

// Discover returns the first existing settings file on the XDG search path,
// or DefaultPath if there is none.
func Discover() string {
	if path, err := xdg.SearchConfigFile(filepath.Join(AppName, SettingsFile)); err == nil {
		return path
	}
	return DefaultPath()
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. A .env file in the working directory and TVM_* environment
// variables override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Config(".env", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Config(fmt.Sprintf("read %s", path), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Config(fmt.Sprintf("parse %s", path), err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Config("create settings directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Config("encode settings", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Config(fmt.Sprintf("write %s", path), err)
	}
	return nil
}

// Validate rejects settings the calculator cannot use
func (c *Config) Validate() error {
	if c.Frequency <= 0 {
		return errors.Config(fmt.Sprintf("frequency must be positive, got %d", c.Frequency), nil)
	}
	if _, err := tvm.ParseTiming(c.Timing); err != nil {
		return errors.Config("timing", err)
	}
	if c.Style != StyleFixed && c.Style != StyleSI {
		return errors.Config(fmt.Sprintf("style must be %q or %q, got %q", StyleFixed, StyleSI, c.Style), nil)
	}
	if c.Precision < 0 || c.Precision > 10 {
		return errors.Config(fmt.Sprintf("precision must be between 0 and 10, got %d", c.Precision), nil)
	}
	if c.Tolerance <= 0 {
		return errors.Config(fmt.Sprintf("tolerance must be positive, got %g", c.Tolerance), nil)
	}
	if c.MaxIterations <= 0 {
		return errors.Config(fmt.Sprintf("max_iterations must be positive, got %d", c.MaxIterations), nil)
	}
	return nil
}

// SolverOptions converts the settings into solver options
func (c *Config) SolverOptions() tvm.Options {
	opts := tvm.DefaultOptions()
	opts.Tolerance = c.Tolerance
	opts.MaxIterations = c.MaxIterations
	opts.Timing, _ = tvm.ParseTiming(c.Timing)
	return opts
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TVM_FREQUENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Config("TVM_FREQUENCY", err)
		}
		cfg.Frequency = n
	}
	if v := os.Getenv("TVM_TIMING"); v != "" {
		cfg.Timing = v
	}
	if v := os.Getenv("TVM_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("TVM_PRECISION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Config("TVM_PRECISION", err)
		}
		cfg.Precision = n
	}
	if v := os.Getenv("TVM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TVM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
