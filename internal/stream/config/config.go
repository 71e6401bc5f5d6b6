package config

import (
	"crypto-pulse/pkg/config"
)

// Scheduler holds the cron specs for the stream service background jobs.
// An empty spec disables the job.
type Scheduler struct {
	DumpCron       string `mapstructure:"dump_cron"`
	DumpLimit      int    `mapstructure:"dump_limit"`
	DumpTimeFilter string `mapstructure:"dump_time_filter"`
	NewsCron       string `mapstructure:"news_cron"`
	AlertCron      string `mapstructure:"alert_cron"`
}

// Cache holds post-cache settings.
type Cache struct {
	PostTTL string `mapstructure:"post_ttl"`
}

// News holds the news refresh settings.
type News struct {
	Feeds         []string `mapstructure:"feeds"`
	MaxParagraphs int      `mapstructure:"max_paragraphs"`
	MaxArticles   int      `mapstructure:"max_articles"`
}

// Config holds the full configuration for the stream service.
type Config struct {
	App       config.App       `mapstructure:"app"`
	Logger    config.Logger    `mapstructure:"logger"`
	Database  config.Database  `mapstructure:"database"`
	Redis     config.Redis     `mapstructure:"redis"`
	API       config.API       `mapstructure:"api"`
	Reddit    config.Reddit    `mapstructure:"reddit"`
	Sentiment config.Sentiment `mapstructure:"sentiment"`
	Telegram  config.Telegram  `mapstructure:"telegram"`
	Firebase  config.Firebase  `mapstructure:"firebase"`
	Scheduler Scheduler        `mapstructure:"scheduler"`
	Cache     Cache            `mapstructure:"cache"`
	News      News             `mapstructure:"news"`
}

// Load loads the stream service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
