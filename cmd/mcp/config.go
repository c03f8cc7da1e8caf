package main

import (
	"os"

	"github.com/elC0mpa/lease-cost/service/config"
)

// LoadConfig reads the shared configuration, taking the YAML path from
// LEASECOST_CONFIG when set
func LoadConfig() (*config.Config, error) {
	return config.LoadFrom(getEnvOrDefault("LEASECOST_CONFIG", config.DefaultConfigFile))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
