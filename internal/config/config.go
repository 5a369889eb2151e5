// Package config loads runtime settings for the harvester command from
// environment variables. Harvest requests themselves arrive as YAML
// configuration files, not through the environment.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all command settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// HTTPAddr enables the health and metrics endpoint when non-empty.
	HTTPAddr string

	// KafkaBrokers and KafkaTopic enable the record sink when both are set.
	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      os.Getenv("KAFKA_TOPIC"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.KafkaTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_TOPIC is set but KAFKA_BROKERS is not")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is not")
	}

	return cfg, nil
}

// SinkEnabled reports whether harvested records should also be published
// to Kafka.
func (c *Config) SinkEnabled() bool {
	return c.KafkaTopic != "" && len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseShutdownTimeout() (time.Duration, error) {
	raw := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}
