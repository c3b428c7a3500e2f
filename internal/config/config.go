// Package config provides configuration loading and structs for the StudentGear server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/internal/ranking"
)

// DefaultPath is where the server looks for its config file.
const DefaultPath = "/usr/local/etc/studentgear/config.yaml"

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Search      SearchConfig      `yaml:"search"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	RequestTimeout time.Duration   `yaml:"request_timeout"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	ChatRateLimit  RateLimitConfig `yaml:"chat_rate_limit"`
}

// RateLimitConfig is a token bucket: a sustained rate plus a burst.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StorageConfig selects the cart and runtime product store.
type StorageConfig struct {
	Driver       string `yaml:"driver"` // memory or sqlite
	DatabasePath string `yaml:"database_path"`
}

// CatalogConfig points at the catalog source. An empty path uses the built-in catalog.
type CatalogConfig struct {
	Path     string        `yaml:"path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// SearchConfig holds result limits and the ranking table.
type SearchConfig struct {
	DefaultLimit    int                   `yaml:"default_limit"`
	MaxLimit        int                   `yaml:"max_limit"`
	SuggestLimit    int                   `yaml:"suggest_limit"`
	SuggestMinChars int                   `yaml:"suggest_min_chars"`
	PageSize        int                   `yaml:"page_size"`
	Ranking         ranking.RankingConfig `yaml:"ranking"`
}

// MarketplaceConfig holds per-product marketplace link overrides, keyed by product name.
type MarketplaceConfig struct {
	Overrides map[string]models.AffiliateLinks `yaml:"overrides"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Catalog.Path != "" {
		cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every default applied, for running without a file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("invalid storage driver %q (supported: memory, sqlite)", c.Storage.Driver)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search max_limit (%d) is below default_limit (%d)", c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if c.Server.ChatRateLimit.RequestsPerSecond < 0 || c.Server.ChatRateLimit.Burst < 0 {
		return fmt.Errorf("chat_rate_limit must be non-negative")
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
