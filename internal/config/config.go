package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath       string
	ContinentsPath string // empty selects the embedded default table
	CentroidsPath  string // empty selects the embedded default table

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SampleWindow is the default neighborhood size (in grid cells) used
	// when categorizing an entity around its centroid. Regions may
	// override it in the continents table.
	SampleWindow int

	// Drought alert publishing (optional, off unless ALERTS_ENABLED).
	AlertsEnabled   bool
	KafkaBrokers    []string
	KafkaAlertTopic string
	AlertExtremePct float64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sampleWindow, err := parseInt("SAMPLE_WINDOW", 5)
	if err != nil {
		return nil, err
	}

	alertExtremePct, err := parseFloat("ALERT_EXTREME_PCT", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:       envOrDefault("DATA_PATH", "data/spei01.nc"),
		ContinentsPath: os.Getenv("CONTINENTS_PATH"),
		CentroidsPath:  os.Getenv("CENTROIDS_PATH"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SampleWindow: sampleWindow,

		AlertsEnabled:   os.Getenv("ALERTS_ENABLED") == "true",
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "drought-alerts"),
		AlertExtremePct: alertExtremePct,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.SampleWindow <= 0 {
		return nil, errors.New("SAMPLE_WINDOW must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.AlertExtremePct < 0 || cfg.AlertExtremePct > 100 {
		return nil, errors.New("ALERT_EXTREME_PCT must be between 0 and 100")
	}
	if cfg.AlertsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaAlertTopic == "" {
			return nil, errors.New("ALERTS_ENABLED is true but KAFKA_ALERT_TOPIC is not set")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
