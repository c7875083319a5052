package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeedURL = "https://example.test/feed.geojson"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.False(t, cfg.FeedStrict)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, time.UTC, cfg.DisplayLocation)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "quake-markers", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("FEED_URL", testFeedURL)
	t.Setenv("FEED_TIMEOUT", "5s")
	t.Setenv("FEED_STRICT", "true")
	t.Setenv("OUTPUT_DIR", "/tmp/quakes")
	t.Setenv("DISPLAY_TZ", "America/Los_Angeles")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-markers")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testFeedURL, cfg.FeedURL)
	assert.Equal(t, 5*time.Second, cfg.FeedTimeout)
	assert.True(t, cfg.FeedStrict)
	assert.Equal(t, "/tmp/quakes", cfg.OutputDir)
	assert.Equal(t, "America/Los_Angeles", cfg.DisplayLocation.String())
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-markers", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_NegativeFeedTimeout(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_InvalidFeedStrict(t *testing.T) {
	t.Setenv("FEED_STRICT", "sometimes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_STRICT")
}

func TestLoad_InvalidDisplayTZ(t *testing.T) {
	t.Setenv("DISPLAY_TZ", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISPLAY_TZ")
}

func TestLoad_EmptyOutputDirWithServer(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("HTTP_ADDR", ":8080")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OutputDir)
}

func TestLoad_NoPublisher(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to publish")
}
