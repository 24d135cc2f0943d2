// Package httpapi exposes the fishing safety check over HTTP, plus the
// health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saferseas/fishing-advisory/internal/domain"
	"github.com/saferseas/fishing-advisory/internal/observability"
	"github.com/saferseas/fishing-advisory/internal/pipeline"
)

// Check-date window relative to today: historical data is kept 30 days and
// the free provider tier forecasts at most 7 days ahead.
const (
	maxDaysPast  = 30
	maxDaysAhead = 7
)

// disallowedSubstrings are rejected anywhere in a location input, matched
// against the uppercased string.
var disallowedSubstrings = []string{"<", ">", ";", "--", "/*", "*/", "DROP", "DELETE"}

// SafetyChecker runs one fishing safety check.
type SafetyChecker interface {
	Check(ctx context.Context, location string) pipeline.Result
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the weather check API and operational endpoints.
type Server struct {
	httpServer *http.Server
	checker    SafetyChecker
	ready      ReadinessChecker
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the /api/v1/weather/check endpoint
// and /healthz, /readyz, and /metrics routes.
func NewServer(addr string, checker SafetyChecker, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		checker:  checker,
		ready:    ready,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1/weather", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // covers provider retries with backoff
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// CheckRequest is the body of POST /api/v1/weather/check.
type CheckRequest struct {
	Location  string `json:"location" validate:"required,min=2,max=100"`
	CheckDate string `json:"check_date" validate:"required,datetime=2006-01-02"`
}

// CheckResponse is the full payload returned for a weather check. On fetch
// failure Weather is absent, Error carries the failure message, and
// FishingAdvice holds the unknown-tier recommendation.
type CheckResponse struct {
	Location      string                `json:"location"`
	CheckDate     string                `json:"check_date"`
	CheckedAt     time.Time             `json:"checked_at"`
	Weather       *domain.Observation   `json:"weather,omitempty"`
	FishingAdvice domain.Recommendation `json:"fishing_advice"`
	Error         string                `json:"error,omitempty"`
}

// ErrorResponse is the body for requests rejected before the pipeline runs.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeValidationError(w, "invalid request body: expected JSON with location and check_date")
		return
	}

	req.Location = strings.TrimSpace(req.Location)
	if err := s.validate.Struct(req); err != nil {
		s.writeValidationError(w, validationMessage(err))
		return
	}
	if err := validateLocationText(req.Location); err != nil {
		s.writeValidationError(w, err.Error())
		return
	}
	if err := validateCheckDate(req.CheckDate); err != nil {
		s.writeValidationError(w, err.Error())
		return
	}

	s.logger.Info("weather check request", "location", req.Location, "check_date", req.CheckDate)

	result := s.checker.Check(r.Context(), req.Location)

	resp := CheckResponse{
		Location:      req.Location,
		CheckDate:     req.CheckDate,
		CheckedAt:     clock.Now().UTC(),
		Weather:       result.Observation,
		FishingAdvice: result.Advice,
	}

	if result.FetchErr != nil {
		resp.Error = result.FetchErr.Message
		writeJSON(w, result.FetchErr.Kind.HTTPStatus(), resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// instrument logs each request and records its duration.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}
		if s.metrics != nil {
			s.metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).
				Observe(elapsed.Seconds())
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", elapsed.Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// validateLocationText rejects markup and SQL-ish fragments in free-form
// location input before it reaches the provider query string.
func validateLocationText(location string) error {
	upper := strings.ToUpper(location)
	for _, sub := range disallowedSubstrings {
		if strings.Contains(upper, sub) {
			return fmt.Errorf("location contains invalid characters")
		}
	}
	return nil
}

// validateCheckDate enforces the -30/+7 day window around today.
func validateCheckDate(raw string) error {
	checkDate, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return fmt.Errorf("check_date must be a valid YYYY-MM-DD date")
	}

	now := clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if daysPast := int(today.Sub(checkDate).Hours() / 24); daysPast > maxDaysPast {
		return fmt.Errorf("date too far in past (max %d days): requested %s, today %s",
			maxDaysPast, raw, today.Format("2006-01-02"))
	}
	if daysAhead := int(checkDate.Sub(today).Hours() / 24); daysAhead > maxDaysAhead {
		return fmt.Errorf("date too far in future (max %d days): requested %s, today %s",
			maxDaysAhead, raw, today.Format("2006-01-02"))
	}
	return nil
}

// validationMessage flattens validator errors into a single user-facing line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Location":
			return "location must be 2-100 characters"
		case "CheckDate":
			return "check_date is required in YYYY-MM-DD format"
		}
	}
	return "invalid request"
}

func (s *Server) writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     "validation_error",
		Message:   message,
		Timestamp: clock.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
