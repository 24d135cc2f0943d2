package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 3, cfg.ProviderAttempts)
	assert.Equal(t, time.Second, cfg.ProviderBackoff)
	assert.Equal(t, 1.0, cfg.ProviderRateLimit)
	assert.Equal(t, 5, cfg.ProviderRateBurst)
	assert.Equal(t, uint32(5), cfg.BreakerThreshold)
}

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("PROVIDER_MAX_ATTEMPTS", "5")
	t.Setenv("PROVIDER_BACKOFF_BASE", "500ms")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, 5, cfg.ProviderAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ProviderBackoff)
	assert.Equal(t, uint32(2), cfg.BreakerThreshold)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "x") // registers restore on cleanup
	os.Unsetenv("OPENWEATHER_API_KEY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"bad log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s", "SHUTDOWN_TIMEOUT"},
		{"zero provider timeout", "PROVIDER_TIMEOUT", "0s", "PROVIDER_TIMEOUT"},
		{"zero attempts", "PROVIDER_MAX_ATTEMPTS", "0", "PROVIDER_MAX_ATTEMPTS"},
		{"zero backoff", "PROVIDER_BACKOFF_BASE", "0s", "PROVIDER_BACKOFF_BASE"},
		{"zero rate limit", "PROVIDER_RATE_LIMIT", "0", "PROVIDER_RATE_LIMIT"},
		{"zero burst", "PROVIDER_RATE_BURST", "0", "PROVIDER_RATE_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENWEATHER_API_KEY", "test-key")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
