package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/saferseas/fishing-advisory/internal/adapter/httpapi"
	"github.com/saferseas/fishing-advisory/internal/adapter/openweather"
	"github.com/saferseas/fishing-advisory/internal/config"
	"github.com/saferseas/fishing-advisory/internal/observability"
	"github.com/saferseas/fishing-advisory/internal/pipeline"
)

func main() {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	provider := openweather.NewClient(openweather.Options{
		APIKey:           cfg.OpenWeatherAPIKey,
		BaseURL:          cfg.OpenWeatherBaseURL,
		Timeout:          cfg.ProviderTimeout,
		MaxAttempts:      cfg.ProviderAttempts,
		BackoffBase:      cfg.ProviderBackoff,
		RateLimit:        cfg.ProviderRateLimit,
		RateBurst:        cfg.ProviderRateBurst,
		BreakerThreshold: cfg.BreakerThreshold,
	}, metrics, logger)

	checker := pipeline.NewChecker(provider, logger, metrics, clockwork.NewRealClock())
	srv := httpapi.NewServer(cfg.HTTPAddr, checker, checker, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
