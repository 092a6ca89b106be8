// Package config provides layered configuration for the hifz tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Review   ReviewConfig   `yaml:"review"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the item store backend
type DatabaseConfig struct {
	// Driver is "sqlite3" or "postgres"
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite3 or a connection string for postgres
	DSN string `yaml:"dsn"`
}

// ReviewConfig configures review sessions
type ReviewConfig struct {
	// DueLimit caps the number of items returned by a due query
	DueLimit int `yaml:"due_limit"`
}

// WatchConfig configures the periodic progress digest
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures structured logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    filepath.Join("data", "hifz.db"),
		},
		Review: ReviewConfig{
			DueLimit: 20,
		},
		Watch: WatchConfig{
			Interval: time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Review.DueLimit < 1 {
		return fmt.Errorf("review.due_limit must be positive, got %d", c.Review.DueLimit)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Database.Driver != "" {
		c.Database.Driver = other.Database.Driver
	}
	if other.Database.DSN != "" {
		c.Database.DSN = other.Database.DSN
	}
	if other.Review.DueLimit != 0 {
		c.Review.DueLimit = other.Review.DueLimit
	}
	if other.Watch.Interval != 0 {
		c.Watch.Interval = other.Watch.Interval
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// LoadFromFile reads a YAML config file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the config as YAML, creating parent directories
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
