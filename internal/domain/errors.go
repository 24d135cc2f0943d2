package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes weather fetch failures so the API layer can map them
// to HTTP statuses without string-sniffing messages.
type ErrorKind string

const (
	// ErrKindNotFound means the provider has no such location. Terminal:
	// retrying a geographic lookup will not change the answer.
	ErrKindNotFound ErrorKind = "not_found"

	// ErrKindTimeout means a single provider call exceeded its deadline.
	// Transient; the fetcher retries it.
	ErrKindTimeout ErrorKind = "timeout"

	// ErrKindProvider covers transport errors, non-404 HTTP statuses, and
	// malformed response bodies. Transient during the retry loop, terminal
	// once retries are exhausted.
	ErrKindProvider ErrorKind = "provider_error"

	// ErrKindUnknown is the defensive catch-all for failures the fetcher
	// did not classify. Never retried.
	ErrKindUnknown ErrorKind = "unknown"
)

// Retryable reports whether the fetcher should attempt the call again.
func (k ErrorKind) Retryable() bool {
	return k == ErrKindTimeout || k == ErrKindProvider
}

// HTTPStatus maps an ErrorKind to the status the API layer responds with.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrKindNotFound:
		return http.StatusNotFound
	case ErrKindTimeout, ErrKindProvider:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WeatherError is a classified weather fetch failure.
type WeatherError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WeatherError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *WeatherError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that the provider knows no such location.
func NewNotFoundError(location string) *WeatherError {
	return &WeatherError{
		Kind:    ErrKindNotFound,
		Message: fmt.Sprintf("location %q not found; check spelling or try coordinates (lat,lon)", location),
	}
}

// NewTimeoutError reports a timed-out provider call.
func NewTimeoutError(err error) *WeatherError {
	return &WeatherError{Kind: ErrKindTimeout, Message: "weather API request timed out", Err: err}
}

// NewProviderError reports a transport, HTTP, or parse failure.
func NewProviderError(message string, err error) *WeatherError {
	return &WeatherError{Kind: ErrKindProvider, Message: message, Err: err}
}

// AsWeatherError returns err's WeatherError, or wraps unclassified errors
// as ErrKindUnknown so callers always see a typed failure.
func AsWeatherError(err error) *WeatherError {
	var werr *WeatherError
	if errors.As(err, &werr) {
		return werr
	}
	return &WeatherError{
		Kind:    ErrKindUnknown,
		Message: "an unexpected error occurred while fetching weather",
		Err:     err,
	}
}
