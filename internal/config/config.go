// Package config handles global depgate configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global depgate configuration, loaded from
// ~/.config/depgate/config.toml.
type Config struct {
	// Binary is the default dependency-query binary to invoke.
	Binary string `toml:"binary"`

	// Args are default leading arguments for the binary (e.g. a
	// subcommand like "query").
	Args []string `toml:"args"`

	// History controls the SQLite run history. Defaults to enabled.
	History *bool `toml:"history"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output. Supported values
	// are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// HistoryEnabled reports whether run history should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// Load loads the configuration from the default location. A missing file
// yields a zero config, not an error.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path. Prefers XDG-style
// ~/.config/depgate/config.toml, then the OS-specific config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "depgate", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "depgate", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
