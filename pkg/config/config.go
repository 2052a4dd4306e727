// Package config loads domsel settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"domsel/pkg/browser"
	"domsel/pkg/logging"
)

// Config holds all domsel configuration.
type Config struct {
	// Logging
	Logging logging.Config `yaml:"logging"`

	// Browser host
	Browser browser.Config `yaml:"browser"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Browser: browser.DefaultConfig(),
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied last in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes c as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("DOMSEL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if url := os.Getenv("DOMSEL_DEBUGGER_URL"); url != "" {
		c.Browser.DebuggerURL = url
	}
	if raw := os.Getenv("DOMSEL_HEADLESS"); raw != "" {
		if headless, err := strconv.ParseBool(raw); err == nil {
			c.Browser.Headless = headless
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging: invalid format %q (valid: text, json)", c.Logging.Format)
	}
	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("browser: viewport dimensions must not be negative")
	}
	if c.Browser.NavigationTimeoutMs < 0 || c.Browser.OperationTimeoutMs < 0 {
		return fmt.Errorf("browser: timeouts must not be negative")
	}
	return nil
}
