// Package config loads rpeek settings from a YAML file and RPEEK_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full client configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
	Preview PreviewConfig `mapstructure:"preview"`
	Search  SearchConfig  `mapstructure:"search"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls the zap logger. Output defaults to "none" because
// the terminal is owned by the UI.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
	Output string `mapstructure:"output" validate:"required"`
}

// StoreConfig locates the remote catalog.
type StoreConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// PreviewConfig tunes content loading. A zero fetch timeout waits forever.
type PreviewConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gte=0"`
}

// SearchConfig tunes search-as-you-type.
type SearchConfig struct {
	QuietInterval time.Duration `mapstructure:"quiet_interval" validate:"gt=0"`
	Limit         int           `mapstructure:"limit" validate:"gte=1,lte=1000"`
	RecentLimit   int           `mapstructure:"recent_limit" validate:"gte=0,lte=1000"`
}

// MetricsConfig enables the Prometheus listener when Listen is set.
type MetricsConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// Load reads configuration from configPath (or the default location when
// empty), applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("RPEEK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"logging.level", "logging.format", "logging.output",
		"store.base_url", "store.token", "store.timeout",
		"preview.fetch_timeout",
		"search.quiet_interval", "search.limit", "search.recent_limit",
		"metrics.listen",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(GetConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if configPath != "" && errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", configPath)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// GetConfigDir returns the directory searched for config.yaml.
func GetConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rpeek")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rpeek")
}
