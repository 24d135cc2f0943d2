package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Weather provider configuration.
	OpenWeatherAPIKey  string        `envconfig:"OPENWEATHER_API_KEY" required:"true"`
	OpenWeatherBaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	ProviderTimeout    time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
	ProviderAttempts   int           `envconfig:"PROVIDER_MAX_ATTEMPTS" default:"3"`
	ProviderBackoff    time.Duration `envconfig:"PROVIDER_BACKOFF_BASE" default:"1s"`

	// Outbound call shaping. The free OpenWeatherMap tier allows 60
	// calls/minute; the default limiter stays safely under that.
	ProviderRateLimit float64 `envconfig:"PROVIDER_RATE_LIMIT" default:"1"`
	ProviderRateBurst int     `envconfig:"PROVIDER_RATE_BURST" default:"5"`
	BreakerThreshold  uint32  `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text", "pretty":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, errors.New("PROVIDER_TIMEOUT must be positive")
	}
	if cfg.ProviderAttempts < 1 {
		return nil, errors.New("PROVIDER_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.ProviderBackoff <= 0 {
		return nil, errors.New("PROVIDER_BACKOFF_BASE must be positive")
	}
	if cfg.ProviderRateLimit <= 0 {
		return nil, errors.New("PROVIDER_RATE_LIMIT must be positive")
	}
	if cfg.ProviderRateBurst < 1 {
		return nil, errors.New("PROVIDER_RATE_BURST must be at least 1")
	}

	return &cfg, nil
}
