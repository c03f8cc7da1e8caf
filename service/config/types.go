package config

import "time"

// Config is the full runtime configuration
type Config struct {
	AWS     AWS     `yaml:"aws"`
	Engine  Engine  `yaml:"engine"`
	Logging Logging `yaml:"logging"`
}

// AWS holds credentials selection and SDK retry policy
type AWS struct {
	Region      string        `yaml:"region"`
	Profile     string        `yaml:"profile"`
	MaxAttempts int           `yaml:"max_attempts"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

// Engine tunes batching and the daily fetch rate
type Engine struct {
	BatchSize      int `yaml:"batch_size"`
	MaxConcurrency int `yaml:"max_concurrency"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() Config {
	return Config{
		AWS: AWS{
			Region:      "us-east-1",
			MaxAttempts: 5,
			MaxBackoff:  20 * time.Second,
		},
		Engine: Engine{
			BatchSize:      199,
			MaxConcurrency: 5,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}
