package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFeedURL is the USGS summary feed of all earthquakes in the past week.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL     string
	FeedTimeout time.Duration
	// FeedStrict turns any malformed feature into a failed load.
	FeedStrict bool

	OutputDir       string
	DisplayLocation *time.Location

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional marker sink.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether rendered markers should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FEED_TIMEOUT", "30s"))
	if err != nil || feedTimeout <= 0 {
		return nil, errors.New("invalid FEED_TIMEOUT")
	}

	strict, err := parseBool("FEED_STRICT")
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("DISPLAY_TZ", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TZ %q: %w", tz, err)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		FeedStrict:      strict,
		OutputDir:       envOrDefaultAllowEmpty("OUTPUT_DIR", "public"),
		DisplayLocation: loc,
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "quake-markers"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.OutputDir == "" && cfg.HTTPAddr == "" && !cfg.KafkaEnabled() {
		return nil, errors.New("nothing to publish to: set OUTPUT_DIR, HTTP_ADDR, or KAFKA_BROKERS")
	}

	return cfg, nil
}

func parseBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// envOrDefaultAllowEmpty treats a variable that is set but empty as an explicit
// opt-out rather than a request for the default.
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
