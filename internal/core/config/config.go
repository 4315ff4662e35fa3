// Package config handles configuration loading and validation for ballotview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/ballotview/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Tables   map[string]TableConfig `yaml:"tables"`
	View     ViewConfig             `yaml:"view"`
	Database DatabaseConfig         `yaml:"database"`
	DataDir  string                 `yaml:"-"` // set by caller, not from config file
}

// ViewConfig tunes the virtualized table renderer.
type ViewConfig struct {
	RowHeight      int           `yaml:"row_height"`      // estimated height of an unmeasured row
	Overscan       int           `yaml:"overscan"`        // rows rendered beyond each viewport edge
	ReflowDebounce time.Duration `yaml:"reflow_debounce"` // delay before measured heights are applied
	Stacked        bool          `yaml:"stacked"`         // start tables in the stacked column layout
	Theme          string        `yaml:"theme"`
}

// DatabaseConfig holds the SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tables: builtinTables(),
		View: ViewConfig{
			RowHeight:      1,
			Overscan:       3,
			ReflowDebounce: 16 * time.Millisecond,
			Theme:          styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			var user Config
			if err := yaml.Unmarshal(data, &user); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.Tables = mergeTables(cfg.Tables, user.Tables)
			cfg.View = user.View
			cfg.Database = user.Database
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.View.RowHeight == 0 {
		c.View.RowHeight = defaults.View.RowHeight
	}
	if c.View.Overscan == 0 {
		c.View.Overscan = defaults.View.Overscan
	}
	if c.View.ReflowDebounce == 0 {
		c.View.ReflowDebounce = defaults.View.ReflowDebounce
	}
	if c.View.Theme == "" {
		c.View.Theme = defaults.View.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Tables == nil {
		c.Tables = map[string]TableConfig{}
	}
}

// mergeTables overlays user table definitions onto the built-in ones. A user
// table with a built-in name is merged field by field; any other name is
// added as is.
func mergeTables(defaults, user map[string]TableConfig) map[string]TableConfig {
	result := make(map[string]TableConfig, len(defaults)+len(user))

	for name, tc := range defaults {
		result[name] = tc
	}

	for name, tc := range user {
		base, ok := result[name]
		if !ok {
			result[name] = tc
			continue
		}
		result[name] = base.overlay(tc)
	}

	return result
}

// DBPath returns the path of the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "ballotview.db")
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "ballotview.log")
}
