package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration, populated from AURAFLOW_* environment
// variables.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"auraflow.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("auraflow", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}
