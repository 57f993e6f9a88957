package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Feed endpoint defaults. The station feed is the MeteoSwiss open-data
// current-measurement CSV; the forecast feed is the MeteoSwiss app backend.
const (
	defaultStationFeedURL  = "https://data.geo.admin.ch/ch.meteoschweiz.messwerte-aktuell/VQHA80.csv"
	defaultForecastBaseURL = "https://app-prod-ws.meteoswiss-app.ch/v1/plzDetail"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	PostCode    string // postal code for the forecast feed, required
	StationCode string // observation station code; empty means forecast-feed fallback only

	StationFeedURL   string
	ForecastBaseURL  string
	ForecastLanguage string // en, de, fr, or it

	PollIntervalMin time.Duration // lower bound of the jittered poll interval
	PollIntervalMax time.Duration // upper bound
	ForecastMaxAge  time.Duration // merged points older than this are dropped
	FetchTimeout    time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka sink; disabled when no brokers are configured.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// SinkEnabled reports whether snapshots should be published to Kafka.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	pollMin, err := envDuration("POLL_INTERVAL_MIN", 55*time.Minute)
	if err != nil {
		return nil, err
	}
	pollMax, err := envDuration("POLL_INTERVAL_MAX", 65*time.Minute)
	if err != nil {
		return nil, err
	}
	maxAge, err := envDuration("FORECAST_MAX_AGE", time.Hour)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PostCode:    os.Getenv("POST_CODE"),
		StationCode: os.Getenv("STATION_CODE"),

		StationFeedURL:   envOrDefault("STATION_FEED_URL", defaultStationFeedURL),
		ForecastBaseURL:  envOrDefault("FORECAST_BASE_URL", defaultForecastBaseURL),
		ForecastLanguage: envOrDefault("FORECAST_LANGUAGE", "en"),

		PollIntervalMin: pollMin,
		PollIntervalMax: pollMax,
		ForecastMaxAge:  maxAge,
		FetchTimeout:    fetchTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:   splitBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "weather-snapshots"),
	}

	if cfg.PostCode == "" {
		return nil, errors.New("POST_CODE is required")
	}
	if !validPostCode(cfg.PostCode) {
		return nil, fmt.Errorf("POST_CODE %q is not a four-digit Swiss postal code", cfg.PostCode)
	}
	switch cfg.ForecastLanguage {
	case "en", "de", "fr", "it":
	default:
		return nil, fmt.Errorf("FORECAST_LANGUAGE %q not supported (en, de, fr, it)", cfg.ForecastLanguage)
	}
	if cfg.PollIntervalMin <= 0 || cfg.PollIntervalMax < cfg.PollIntervalMin {
		return nil, errors.New("poll interval bounds must satisfy 0 < POLL_INTERVAL_MIN <= POLL_INTERVAL_MAX")
	}
	if cfg.ForecastMaxAge < 0 {
		return nil, errors.New("FORECAST_MAX_AGE must not be negative")
	}
	if cfg.SinkEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func validPostCode(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
