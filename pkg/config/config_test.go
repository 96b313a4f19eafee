package config

import (
	"testing"

	"github.com/arnokha/neowatch/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("ASTEROID_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASTEROID_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ASTEROID_API_KEY", "demo-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "demo-key", cfg.APIKey)
	assert.Equal(t, client.DefaultBrowseURL, cfg.BrowseURL)
	assert.Equal(t, client.DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.MetricsAddr)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ASTEROID_API_KEY", "demo-key")
	t.Setenv("ASTEROID_BROWSE_URL", "http://localhost:9090/browse")
	t.Setenv("ASTEROID_FEED_URL", "http://localhost:9090/feed")
	t.Setenv("ASTEROID_REDIS_ADDR", "localhost:6379")
	t.Setenv("ASTEROID_METRICS_ADDR", ":2112")
	t.Setenv("ASTEROID_LOG_LEVEL", "debug")
	t.Setenv("ASTEROID_LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090/browse", cfg.BrowseURL)
	assert.Equal(t, "http://localhost:9090/feed", cfg.FeedURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, ":2112", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
}
