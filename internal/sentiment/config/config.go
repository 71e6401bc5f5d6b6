package config

import (
	"crypto-pulse/pkg/config"
)

// Aggregation holds the windowed aggregation settings. Weights are keyed by
// question code; when empty the compiled-in defaults apply.
type Aggregation struct {
	Weights map[string]float64 `mapstructure:"weights"`
}

// Config holds the full configuration for the sentiment service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	API         config.API      `mapstructure:"api"`
	Gemini      config.Gemini   `mapstructure:"gemini"`
	Aggregation Aggregation     `mapstructure:"aggregation"`
}

// Load loads the sentiment service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
