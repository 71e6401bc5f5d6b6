package config

import (
	"crypto-pulse/pkg/config"
)

// FirebaseWeb is the client-side Firebase configuration served to the
// frontend. Values typically come from the environment.
type FirebaseWeb struct {
	APIKey            string `mapstructure:"api_key" json:"apiKey"`
	AuthDomain        string `mapstructure:"auth_domain" json:"authDomain"`
	ProjectID         string `mapstructure:"project_id" json:"projectId"`
	StorageBucket     string `mapstructure:"storage_bucket" json:"storageBucket"`
	MessagingSenderID string `mapstructure:"messaging_sender_id" json:"messagingSenderId"`
	AppID             string `mapstructure:"app_id" json:"appId"`
	MeasurementID     string `mapstructure:"measurement_id" json:"measurementId"`
}

// Config holds the full configuration for the auth service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	API         config.API      `mapstructure:"api"`
	Firebase    config.Firebase `mapstructure:"firebase"`
	FirebaseWeb FirebaseWeb     `mapstructure:"firebase_web"`
}

// Load loads the auth service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
