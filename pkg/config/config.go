// Package config loads process-wide configuration from the environment.
// The resulting Config is immutable after Load and passed explicitly to
// constructors; nothing in the module reads the environment after startup.
package config

import (
	"fmt"

	"github.com/arnokha/neowatch/pkg/client"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces all environment variables (ASTEROID_API_KEY,
// ASTEROID_REDIS_ADDR, ...).
const EnvPrefix = "ASTEROID"

// Config holds the process configuration.
type Config struct {
	// APIKey is the NeoWs credential. Required; startup fails without it.
	APIKey string `mapstructure:"api_key"`

	// BrowseURL and FeedURL override the catalog endpoints.
	BrowseURL string `mapstructure:"browse_url"`
	FeedURL   string `mapstructure:"feed_url"`

	// RedisAddr enables the response cache when non-empty.
	RedisAddr string `mapstructure:"redis_addr"`

	// MetricsAddr exposes Prometheus metrics over HTTP when non-empty.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// LogLevel and LogPretty configure the logger.
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration from ASTEROID_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("browse_url", client.DefaultBrowseURL)
	v.SetDefault("feed_url", client.DefaultFeedURL)
	v.SetDefault("log_level", "info")

	// AutomaticEnv alone does not surface env-only keys through Unmarshal;
	// bind each key explicitly.
	for _, key := range []string{"api_key", "browse_url", "feed_url", "redis_addr", "metrics_addr", "log_level", "log_pretty"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}

	return &cfg, nil
}
