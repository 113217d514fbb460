// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/pocket-budget/internal/models"
	"fjacquet/pocket-budget/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "POCKET"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StorageConfig selects and locates the preference backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// CycleConfig configures cycle computation.
type CycleConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// ExportConfig configures CSV output.
type ExportConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// NotificationsConfig toggles budget notifications.
type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Config represents the complete application configuration
type Config struct {
	Log           LogConfig           `mapstructure:"log" yaml:"log"`
	Storage       StorageConfig       `mapstructure:"storage" yaml:"storage"`
	Cycle         CycleConfig         `mapstructure:"cycle" yaml:"cycle"`
	Categories    []string            `mapstructure:"categories" yaml:"categories"`
	Export        ExportConfig        `mapstructure:"export" yaml:"export"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
}

// InitializeConfig loads configuration from defaults, then the config file, then POCKET_*
// environment variables. An explicit configFile replaces the search path.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.pocket-budget")
		v.AddConfigPath(".pocket-budget")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides the defaults.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("storage.backend", BackendYAML)
	v.SetDefault("storage.path", "")

	v.SetDefault("cycle.timezone", "")

	v.SetDefault("categories", models.DefaultCategories)

	v.SetDefault("export.delimiter", ",")

	v.SetDefault("notifications.enabled", true)
}

// Validate checks the configuration after command-line overrides have been applied.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	return validateConfig(c)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Storage.Backend {
	case BackendMemory, BackendYAML, BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'memory', 'yaml' or 'sqlite')", config.Storage.Backend)
	}

	if _, err := config.Location(); err != nil {
		return fmt.Errorf("invalid cycle timezone: %s", config.Cycle.Timezone)
	}

	if _, err := validation.Delimiter(config.Export.Delimiter); err != nil {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	if len(config.Categories) == 0 {
		return fmt.Errorf("categories must not be empty")
	}

	return nil
}

// Location returns the time zone cycles are computed in. An empty setting means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Cycle.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Cycle.Timezone)
}

// Delimiter returns the export delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, err := validation.Delimiter(c.Export.Delimiter)
	if err != nil {
		return ','
	}
	return r
}

// StoragePath returns the configured storage path, or the default file for the backend under
// $HOME/.pocket-budget.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}

	dir := ".pocket-budget"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".pocket-budget")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		return filepath.Join(dir, "budget.db")
	default:
		return filepath.Join(dir, "preferences.yaml")
	}
}
