package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all settings for the preprocessor, the dashboard and the
// supporting tools, populated from environment variables.
type Config struct {
	AccidentsPath string
	VehiclesPath  string
	OutputDir     string
	ExtractPath   string

	HTTPAddr        string
	Debug           bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dashboard map sampling.
	SampleSize            int
	SampleSeed            uint64
	SampleAfterTimeFilter bool

	// Extract notices, enabled when brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	debug, err := parseBool("DEBUG", false)
	if err != nil {
		return nil, err
	}

	sampleAfter, err := parseBool("MAP_SAMPLE_AFTER_FILTER", false)
	if err != nil {
		return nil, err
	}

	sampleSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("SAMPLE_SIZE", "50000"))
	if err != nil || sampleSize <= 0 {
		return nil, errors.New("invalid SAMPLE_SIZE: must be a positive integer")
	}

	sampleSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("SAMPLE_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SAMPLE_SEED: must be a non-negative integer")
	}

	var brokers []string
	if raw := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		AccidentsPath: sharedcfg.EnvOrDefault("ACCIDENTS_PATH", "data/raw/Accident_Information.csv"),
		VehiclesPath:  sharedcfg.EnvOrDefault("VEHICLES_PATH", "data/raw/Vehicle_Information.csv"),
		OutputDir:     sharedcfg.EnvOrDefault("OUTPUT_DIR", "data/processed"),
		ExtractPath:   sharedcfg.EnvOrDefault("EXTRACT_PATH", ""),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", "127.0.0.1:8050"),
		Debug:           debug,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		SampleSize:            sampleSize,
		SampleSeed:            sampleSeed,
		SampleAfterTimeFilter: sampleAfter,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "accident-extracts"),
		KafkaEnabled: len(brokers) > 0,

		PushgatewayURL: sharedcfg.EnvOrDefault("PUSHGATEWAY_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that flags may have overridden after Load.
func (c *Config) Validate() error {
	if c.AccidentsPath == "" {
		return errors.New("ACCIDENTS_PATH is required")
	}
	if c.VehiclesPath == "" {
		return errors.New("VEHICLES_PATH is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", c.LogFormat)
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func parseBool(key string, def bool) (bool, error) {
	raw := sharedcfg.EnvOrDefault(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
