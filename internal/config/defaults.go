package config

import (
	"strings"
	"time"
)

// ApplyDefaults fills zero-valued settings. Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStoreDefaults(&cfg.Store)
	applySearchDefaults(&cfg.Search)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	cfg.Level = strings.ToLower(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "none"
	}
}

func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
}

func applySearchDefaults(cfg *SearchConfig) {
	if cfg.QuietInterval == 0 {
		cfg.QuietInterval = 300 * time.Millisecond
	}
	if cfg.Limit == 0 {
		cfg.Limit = 50
	}
	if cfg.RecentLimit == 0 {
		cfg.RecentLimit = 20
	}
}
