package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fishing advisory service.
type Metrics struct {
	ChecksTotal     *prometheus.CounterVec // labels: outcome={ok,fetch_error}
	RiskAssessments *prometheus.CounterVec // labels: tier={low,medium,high,unknown}
	CheckDuration   prometheus.Histogram

	// Provider metrics.
	ProviderRequests      *prometheus.CounterVec // labels: outcome={success,not_found,exhausted,canceled,unknown}
	ProviderAttempts      prometheus.Histogram
	ProviderCallDuration  prometheus.Histogram
	ProviderFetchDuration prometheus.Histogram

	// HTTP metrics.
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, path, status
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishing_advisory",
			Name:      "checks_total",
			Help:      "Total fishing safety checks by outcome.",
		}, []string{"outcome"}),
		RiskAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishing_advisory",
			Name:      "risk_assessments_total",
			Help:      "Risk classifications by resulting tier.",
		}, []string{"tier"}),
		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fishing_advisory",
			Name:      "check_duration_seconds",
			Help:      "Duration of a complete fetch-classify-recommend cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fishing_advisory",
			Name:      "provider_requests_total",
			Help:      "Weather provider fetches by final outcome.",
		}, []string{"outcome"}),
		ProviderAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fishing_advisory",
			Name:      "provider_attempts",
			Help:      "HTTP attempts used per weather fetch.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		ProviderCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fishing_advisory",
			Name:      "provider_call_duration_seconds",
			Help:      "Duration of individual weather API HTTP calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ProviderFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fishing_advisory",
			Name:      "provider_fetch_duration_seconds",
			Help:      "Duration of complete weather fetches including retries and backoff.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fishing_advisory",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration by method, path, and status.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
	}

	prometheus.MustRegister(
		m.ChecksTotal,
		m.RiskAssessments,
		m.CheckDuration,
		m.ProviderRequests,
		m.ProviderAttempts,
		m.ProviderCallDuration,
		m.ProviderFetchDuration,
		m.HTTPRequestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ChecksTotal:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fishing_advisory", Name: "checks_total"}, []string{"outcome"}),
		RiskAssessments:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fishing_advisory", Name: "risk_assessments_total"}, []string{"tier"}),
		CheckDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fishing_advisory", Name: "check_duration_seconds"}),
		ProviderRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fishing_advisory", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderAttempts:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fishing_advisory", Name: "provider_attempts"}),
		ProviderCallDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fishing_advisory", Name: "provider_call_duration_seconds"}),
		ProviderFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fishing_advisory", Name: "provider_fetch_duration_seconds"}),
		HTTPRequestDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "fishing_advisory", Name: "http_request_duration_seconds"}, []string{"method", "path", "status"}),
	}
}
