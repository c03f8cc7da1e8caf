package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration
const DefaultConfigFile = "leasecost.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays non-empty environment variables onto cfg
func loadEnv(cfg *Config) error {
	setString(&cfg.AWS.Region, "AWS_REGION")
	setString(&cfg.AWS.Profile, "AWS_PROFILE")
	setString(&cfg.Logging.Level, "LEASECOST_LOG_LEVEL")

	return errors.Join(
		setInt(&cfg.AWS.MaxAttempts, "LEASECOST_AWS_MAX_ATTEMPTS"),
		setDuration(&cfg.AWS.MaxBackoff, "LEASECOST_AWS_MAX_BACKOFF"),
		setInt(&cfg.Engine.BatchSize, "LEASECOST_BATCH_SIZE"),
		setInt(&cfg.Engine.MaxConcurrency, "LEASECOST_MAX_CONCURRENCY"),
	)
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.AWS.Region == "" {
		errs = append(errs, errors.New("aws.region is required"))
	}
	if cfg.AWS.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("aws.max_attempts must be >= 1, got %d", cfg.AWS.MaxAttempts))
	}
	if cfg.Engine.BatchSize < 1 || cfg.Engine.BatchSize > 199 {
		errs = append(errs, fmt.Errorf("engine.batch_size must be within 1..199, got %d", cfg.Engine.BatchSize))
	}
	if cfg.Engine.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("engine.max_concurrency must be >= 1, got %d", cfg.Engine.MaxConcurrency))
	}
	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
