// Package openweather implements domain.ObservationProvider against the
// OpenWeatherMap current-weather API. All outbound calls share one
// http.Client, are rate-limited to respect the free-tier quota, and pass
// through a circuit breaker; transient failures are retried with
// exponential backoff inside CurrentWeather.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/saferseas/fishing-advisory/internal/domain"
	"github.com/saferseas/fishing-advisory/internal/observability"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Options configures a Client. Zero values fall back to production defaults.
type Options struct {
	APIKey      string
	BaseURL     string        // default https://api.openweathermap.org/data/2.5
	Timeout     time.Duration // per-call HTTP timeout, default 10s
	MaxAttempts int           // retry budget, default 3
	BackoffBase time.Duration // first retry delay, default 1s, doubles per attempt

	// Outbound call shaping.
	RateLimit        float64 // requests per second, default 1
	RateBurst        int     // default 5
	BreakerThreshold uint32  // consecutive failures before the breaker opens, default 5

	Clock clockwork.Clock // backoff time source; default real clock
}

// Client fetches current weather observations from OpenWeatherMap.
// Safe for concurrent use: the shared http.Client, limiter, and breaker all
// carry their own synchronization, and the remaining fields are read-only
// after construction.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*weatherResponse]
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxAttempts int
	backoffBase time.Duration
}

// NewClient creates an OpenWeatherMap client. Pass nil metrics to disable
// provider instrumentation.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	if opts.BreakerThreshold == 0 {
		opts.BreakerThreshold = 5
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	breaker := gobreaker.NewCircuitBreaker[*weatherResponse](gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > opts.BreakerThreshold
		},
		// A missing location is a valid provider answer, not provider
		// trouble; it must not push the breaker toward open.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var werr *domain.WeatherError
			return errors.As(err, &werr) && werr.Kind == domain.ErrKindNotFound
		},
	})

	return &Client{
		apiKey:      opts.APIKey,
		baseURL:     opts.BaseURL,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		breaker:     breaker,
		clock:       opts.Clock,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: opts.MaxAttempts,
		backoffBase: opts.BackoffBase,
	}
}

// CurrentWeather fetches an observation for a raw location input, retrying
// transient failures with exponential backoff (base * 2^attempt, no jitter,
// no cap). NotFound is raised immediately without retrying. Exhausted
// retries surface a ProviderError naming the attempt count.
func (c *Client) CurrentWeather(ctx context.Context, location string) (domain.Observation, error) {
	query := domain.ParseLocationQuery(location)
	start := c.clock.Now()

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		obs, err := c.fetchOnce(ctx, location, query)
		if err == nil {
			c.observeFetch("success", attempt+1, c.clock.Since(start))
			c.logger.Info("weather fetched",
				"location", location,
				"attempt", attempt+1,
				"max_attempts", c.maxAttempts,
			)
			return obs, nil
		}

		werr := domain.AsWeatherError(err)
		if !werr.Kind.Retryable() {
			c.observeFetch(string(werr.Kind), attempt+1, c.clock.Since(start))
			c.logger.Error("weather fetch failed", "location", location, "kind", werr.Kind, "error", err)
			return domain.Observation{}, werr
		}

		lastErr = werr
		c.logger.Warn("weather fetch attempt failed",
			"location", location,
			"attempt", attempt+1,
			"max_attempts", c.maxAttempts,
			"error", err,
		)

		if attempt < c.maxAttempts-1 {
			if err := c.sleep(ctx, backoffDelay(c.backoffBase, attempt)); err != nil {
				c.observeFetch("canceled", attempt+1, c.clock.Since(start))
				return domain.Observation{}, domain.NewProviderError("weather fetch canceled during backoff", err)
			}
		}
	}

	c.observeFetch("exhausted", c.maxAttempts, c.clock.Since(start))
	c.logger.Error("all weather fetch attempts failed", "location", location, "attempts", c.maxAttempts)
	return domain.Observation{}, domain.NewProviderError(
		fmt.Sprintf("unable to fetch weather data after %d attempts; please try again later", c.maxAttempts),
		lastErr,
	)
}

// fetchOnce performs a single rate-limited, breaker-guarded provider call.
func (c *Client) fetchOnce(ctx context.Context, location string, query domain.LocationQuery) (domain.Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Observation{}, domain.NewProviderError("rate limit wait canceled", err)
	}

	resp, err := c.breaker.Execute(func() (*weatherResponse, error) {
		return c.doRequest(ctx, location, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.Observation{}, domain.NewProviderError("weather provider circuit breaker open", err)
		}
		var werr *domain.WeatherError
		if errors.As(err, &werr) {
			return domain.Observation{}, werr
		}
		return domain.Observation{}, domain.NewProviderError("unable to fetch weather data", err)
	}

	return resp.toObservation()
}

// doRequest issues one HTTP GET and classifies transport and status
// failures. Coordinates go out as lat=/lon=, names as q=.
func (c *Client) doRequest(ctx context.Context, location string, query domain.LocationQuery) (*weatherResponse, error) {
	params := url.Values{
		"appid": {c.apiKey},
		"units": {"metric"},
		"lang":  {"en"},
	}
	if query.IsCoordinate {
		params.Set("lat", strconv.FormatFloat(query.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(query.Lon, 'f', -1, 64))
	} else {
		params.Set("q", query.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.NewProviderError("create request", err)
	}

	callStart := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.ProviderCallDuration.Observe(c.clock.Since(callStart).Seconds())
	}
	if err != nil {
		if isTimeout(err) {
			return nil, domain.NewTimeoutError(err)
		}
		return nil, domain.NewProviderError("unable to connect to weather API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFoundError(location)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewProviderError(fmt.Sprintf("weather API returned status %d", resp.StatusCode), nil)
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewProviderError("unable to parse weather data: unexpected API response format", err)
	}
	return &body, nil
}

// sleep blocks for d or until the context is done, whichever comes first.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}

func (c *Client) observeFetch(outcome string, attempts int, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderRequests.WithLabelValues(outcome).Inc()
	c.metrics.ProviderAttempts.Observe(float64(attempts))
	c.metrics.ProviderFetchDuration.Observe(elapsed.Seconds())
}

// backoffDelay computes the wait before retry number attempt+1:
// base * 2^attempt, attempt indexed from 0. No jitter, no cap.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << attempt
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// OpenWeatherMap response mapping. Mandatory fields are pointers so a
// missing field is distinguishable from a zero value.

type weatherResponse struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
		Pressure  *int     `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   *int     `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Visibility *int `json:"visibility"`
}

// toObservation validates mandatory fields and builds the immutable
// observation. Wind direction defaults to 0 when absent; visibility stays
// nil so a missing reading is never conflated with zero visibility.
func (r *weatherResponse) toObservation() (domain.Observation, error) {
	switch {
	case r.Main == nil || r.Main.Temp == nil:
		return domain.Observation{}, missingField("main.temp")
	case r.Main.FeelsLike == nil:
		return domain.Observation{}, missingField("main.feels_like")
	case r.Main.Humidity == nil:
		return domain.Observation{}, missingField("main.humidity")
	case r.Main.Pressure == nil:
		return domain.Observation{}, missingField("main.pressure")
	case r.Wind == nil || r.Wind.Speed == nil:
		return domain.Observation{}, missingField("wind.speed")
	case len(r.Weather) == 0:
		return domain.Observation{}, missingField("weather[0].description")
	case r.Clouds == nil || r.Clouds.All == nil:
		return domain.Observation{}, missingField("clouds.all")
	}

	obs := domain.Observation{
		Temperature:   *r.Main.Temp,
		FeelsLike:     *r.Main.FeelsLike,
		Humidity:      *r.Main.Humidity,
		WindSpeed:     *r.Wind.Speed,
		Condition:     r.Weather[0].Description,
		CloudCoverage: *r.Clouds.All,
		Pressure:      *r.Main.Pressure,
	}
	if r.Wind.Deg != nil {
		obs.WindDirection = *r.Wind.Deg
	}
	if r.Visibility != nil {
		v := *r.Visibility
		obs.Visibility = &v
	}
	return obs, nil
}

func missingField(name string) *domain.WeatherError {
	return domain.NewProviderError(fmt.Sprintf("unable to parse weather data: missing field %s", name), nil)
}
