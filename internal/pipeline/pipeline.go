// Package pipeline composes the fishing safety check: fetch an observation,
// classify its risk, and generate a recommendation. Control flows strictly
// forward through the three stages once per request; a fetch failure
// short-circuits straight to the failure recommendation.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/saferseas/fishing-advisory/internal/domain"
	"github.com/saferseas/fishing-advisory/internal/observability"
)

// Result is the outcome of one safety check. On success Observation is set
// and FetchErr is nil; on a fetch failure Observation is nil, the
// assessment is the unknown tier, and FetchErr carries the typed
// classification the API layer maps to an HTTP status.
type Result struct {
	Observation *domain.Observation
	Assessment  domain.RiskAssessment
	Advice      domain.Recommendation
	FetchErr    *domain.WeatherError
}

// Checker runs the fetch → classify → recommend pipeline. It holds no state
// across invocations; concurrent checks share only the provider's outbound
// connection pool.
type Checker struct {
	provider domain.ObservationProvider
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// NewChecker creates a Checker with the given provider and observability.
// A nil clock falls back to real time.
func NewChecker(provider domain.ObservationProvider, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Checker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Checker{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// CheckReadiness returns nil when the checker can serve traffic. The
// service is stateless, so readiness only requires a wired provider.
func (c *Checker) CheckReadiness(_ context.Context) error {
	if c.provider == nil {
		return errors.New("weather provider is not configured")
	}
	return nil
}

// Check runs one complete safety check for a location. It never returns an
// error: a fetch failure produces the unknown-tier, unsafe recommendation
// with the failure surfaced in the narrative, and classification and
// recommendation of observed conditions are defined to never fail.
func (c *Checker) Check(ctx context.Context, location string) Result {
	start := c.clock.Now()

	obs, err := c.provider.CurrentWeather(ctx, location)
	if err != nil {
		werr := domain.AsWeatherError(err)
		c.logger.Error("safety check failed at fetch stage",
			"location", location,
			"kind", werr.Kind,
			"error", err,
		)
		assessment := domain.AssessRisk(nil)
		c.observeCheck("fetch_error", assessment.Tier, start)
		return Result{
			Assessment: assessment,
			Advice:     domain.BuildFailureRecommendation(location, werr.Message),
			FetchErr:   werr,
		}
	}

	assessment := domain.AssessRisk(&obs)
	advice := domain.BuildRecommendation(location, &obs, assessment)

	c.observeCheck("ok", assessment.Tier, start)
	c.logger.Info("safety check complete",
		"location", location,
		"risk_level", assessment.Tier,
		"risk_factors", len(assessment.Factors),
		"safe_to_fish", advice.SafeToFish,
	)

	return Result{
		Observation: &obs,
		Assessment:  assessment,
		Advice:      advice,
	}
}

func (c *Checker) observeCheck(outcome string, tier domain.RiskTier, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ChecksTotal.WithLabelValues(outcome).Inc()
	c.metrics.RiskAssessments.WithLabelValues(string(tier)).Inc()
	c.metrics.CheckDuration.Observe(c.clock.Since(start).Seconds())
}
