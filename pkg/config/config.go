// Package config loads arbor configuration from TOML files.
//
// Configuration is optional: every field has a usable default, and a
// missing config file is not an error. The CLI reads
// ~/.config/arbor/config.toml (or $XDG_CONFIG_HOME/arbor/config.toml),
// the server additionally honors an explicit --config path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/arbor-viz/arbor/pkg/layout"
)

const appName = "arbor"

// Config is the root configuration document.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig holds spacing settings for the layout engine.
type LayoutConfig struct {
	LevelWidth float64 `toml:"level_width"`
	NodeHeight float64 `toml:"node_height"`
}

// RenderConfig holds default output settings.
type RenderConfig struct {
	Format string `toml:"format"`
}

// ServerConfig holds HTTP server and backend settings. Empty Redis and
// Mongo addresses select the in-memory backends.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// CacheConfig holds artifact cache settings.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			LevelWidth: layout.DefaultLevelWidth,
			NodeHeight: layout.DefaultNodeHeight,
		},
		Render: RenderConfig{Format: "svg"},
		Server: ServerConfig{
			Addr:    ":8080",
			MongoDB: appName,
		},
	}
}

// Load reads the config file at path. An empty path falls back to the
// default location, and a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded values against the layout engine's
// constraints.
func (c *Config) Validate() error {
	return c.LayoutOptions().Validate()
}

// LayoutOptions returns the configured spacing as layout options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		LevelWidth: c.Layout.LevelWidth,
		NodeHeight: c.Layout.NodeHeight,
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/arbor/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
