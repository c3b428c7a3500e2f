package config

import (
	"time"

	"github.com/hyperjump/studentgear/internal/models"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.ChatRateLimit.RequestsPerSecond == 0 {
		cfg.Server.ChatRateLimit.RequestsPerSecond = 5
	}
	if cfg.Server.ChatRateLimit.Burst == 0 {
		cfg.Server.ChatRateLimit.Burst = 10
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/studentgear/data/studentgear.db"
	}
	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = 500 * time.Millisecond
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 20
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.SuggestLimit == 0 {
		cfg.Search.SuggestLimit = 3
	}
	if cfg.Search.SuggestMinChars == 0 {
		cfg.Search.SuggestMinChars = 2
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 12
	}
	cfg.Search.Ranking.ApplyDefaults()
	if cfg.Marketplace.Overrides == nil {
		cfg.Marketplace.Overrides = map[string]models.AffiliateLinks{
			"Casio FX-991CW": {Amazon: "https://amzn.to/4rnIiqW"},
		}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
