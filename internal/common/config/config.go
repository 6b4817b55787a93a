// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Services ServicesConfig `mapstructure:"services"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServicesConfig holds the endpoints of the remote collaborators.
type ServicesConfig struct {
	Onboarding    ServiceEndpoint `mapstructure:"onboarding"`
	Formalization ServiceEndpoint `mapstructure:"formalization"`
	Document      ServiceEndpoint `mapstructure:"document"`
}

type ServiceEndpoint struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
	Token   string `mapstructure:"token"`
}

// CacheConfig holds the eligibility snapshot cache settings.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
}

// UploadConfig bounds document uploads before presign is requested.
type UploadConfig struct {
	MaxSizeBytes  int64    `mapstructure:"max_size_bytes"`
	AcceptedTypes []string `mapstructure:"accepted_types"`
}

// CatalogConfig points at an optional question catalog file. When empty the
// embedded default questions are used.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.Services.Onboarding.BaseURL == "" {
		return fmt.Errorf("services.onboarding.base_url is required")
	}
	if cfg.Services.Formalization.BaseURL == "" {
		return fmt.Errorf("services.formalization.base_url is required")
	}
	if cfg.Services.Document.BaseURL == "" {
		return fmt.Errorf("services.document.base_url is required")
	}
	if cfg.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be positive")
	}
	return nil
}
