package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferseas/fishing-advisory/internal/domain"
	"github.com/saferseas/fishing-advisory/internal/observability"
)

// fakeProvider returns a canned observation or error.
type fakeProvider struct {
	obs   domain.Observation
	err   error
	calls int
}

func (f *fakeProvider) CurrentWeather(_ context.Context, _ string) (domain.Observation, error) {
	f.calls++
	return f.obs, f.err
}

func calmObservation() domain.Observation {
	vis := 10000
	return domain.Observation{
		Temperature:   28.5,
		FeelsLike:     30.2,
		Humidity:      75,
		WindSpeed:     3.5,
		WindDirection: 180,
		Condition:     "clear sky",
		CloudCoverage: 20,
		Visibility:    &vis,
		Pressure:      1013,
	}
}

func newTestChecker(provider domain.ObservationProvider) *Checker {
	return NewChecker(provider, slog.Default(), observability.NewMetricsForTesting(), nil)
}

func TestCheck_CalmConditions(t *testing.T) {
	provider := &fakeProvider{obs: calmObservation()}
	checker := newTestChecker(provider)

	result := checker.Check(context.Background(), "Chennai")

	require.Nil(t, result.FetchErr)
	require.NotNil(t, result.Observation)
	assert.Equal(t, 1, provider.calls)

	assert.Empty(t, result.Assessment.Factors)
	assert.Equal(t, domain.TierLow, result.Assessment.Tier)

	assert.True(t, result.Advice.SafeToFish)
	assert.Equal(t, domain.TierLow, result.Advice.RiskLevel)
	assert.Equal(t, "05:00–09:00 or 16:00–18:00", result.Advice.BestFishingHours)
	assert.Len(t, result.Advice.Precautions, 5)
}

func TestCheck_HighRiskConditions(t *testing.T) {
	vis := 500
	obs := calmObservation()
	obs.WindSpeed = 12.0
	obs.Visibility = &vis
	obs.Condition = "heavy rain"
	checker := newTestChecker(&fakeProvider{obs: obs})

	result := checker.Check(context.Background(), "Chennai")

	require.Nil(t, result.FetchErr)
	assert.Equal(t,
		[]domain.RiskFactor{domain.FactorHighWind, domain.FactorPoorVisibility, domain.FactorBadWeather},
		result.Assessment.Factors,
	)
	assert.Equal(t, domain.TierHigh, result.Assessment.Tier)
	assert.False(t, result.Advice.SafeToFish)
	assert.Empty(t, result.Advice.BestFishingHours)
	assert.Len(t, result.Advice.Precautions, 6) // 4 base + high_wind + poor_visibility
}

func TestCheck_FetchFailureShortCircuits(t *testing.T) {
	werr := domain.NewProviderError("unable to fetch weather data after 3 attempts; please try again later", nil)
	checker := newTestChecker(&fakeProvider{err: werr})

	result := checker.Check(context.Background(), "Chennai")

	require.NotNil(t, result.FetchErr)
	assert.Equal(t, domain.ErrKindProvider, result.FetchErr.Kind)
	assert.Nil(t, result.Observation)

	assert.Equal(t, domain.TierUnknown, result.Assessment.Tier)
	assert.Empty(t, result.Assessment.Factors)

	assert.False(t, result.Advice.SafeToFish)
	assert.Equal(t, domain.TierUnknown, result.Advice.RiskLevel)
	assert.Contains(t, result.Advice.Advice, "after 3 attempts")
	assert.Empty(t, result.Advice.RiskFactors)
	assert.Empty(t, result.Advice.Precautions)
	assert.Empty(t, result.Advice.BestFishingHours)
}

func TestCheck_NotFoundClassificationPropagates(t *testing.T) {
	checker := newTestChecker(&fakeProvider{err: domain.NewNotFoundError("Atlantis")})

	result := checker.Check(context.Background(), "Atlantis")

	require.NotNil(t, result.FetchErr)
	assert.Equal(t, domain.ErrKindNotFound, result.FetchErr.Kind)
	assert.Contains(t, result.Advice.Advice, "Atlantis")
}

func TestCheck_UnclassifiedErrorBecomesUnknown(t *testing.T) {
	checker := newTestChecker(&fakeProvider{err: context.Canceled})

	result := checker.Check(context.Background(), "Chennai")

	require.NotNil(t, result.FetchErr)
	assert.Equal(t, domain.ErrKindUnknown, result.FetchErr.Kind)
}

func TestCheck_IndependentInvocations(t *testing.T) {
	provider := &fakeProvider{obs: calmObservation()}
	checker := newTestChecker(provider)

	first := checker.Check(context.Background(), "Chennai")
	second := checker.Check(context.Background(), "Chennai")

	assert.Equal(t, first.Assessment, second.Assessment)
	assert.Equal(t, first.Advice, second.Advice)
	assert.Equal(t, 2, provider.calls)
}

// advancingProvider moves the fake clock forward on each fetch so the
// measured check duration is deterministic.
type advancingProvider struct {
	clock *clockwork.FakeClock
	step  time.Duration
	obs   domain.Observation
}

func (p *advancingProvider) CurrentWeather(_ context.Context, _ string) (domain.Observation, error) {
	p.clock.Advance(p.step)
	return p.obs, nil
}

func TestCheck_DurationUsesInjectedClock(t *testing.T) {
	clk := clockwork.NewFakeClock()
	metrics := observability.NewMetricsForTesting()
	provider := &advancingProvider{clock: clk, step: 3 * time.Second, obs: calmObservation()}
	checker := NewChecker(provider, slog.Default(), metrics, clk)

	checker.Check(context.Background(), "Chennai")

	var m dto.Metric
	require.NoError(t, metrics.CheckDuration.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Equal(t, 3.0, m.GetHistogram().GetSampleSum())
}

func TestCheckReadiness(t *testing.T) {
	assert.NoError(t, newTestChecker(&fakeProvider{}).CheckReadiness(context.Background()))
	assert.Error(t, newTestChecker(nil).CheckReadiness(context.Background()))
}
