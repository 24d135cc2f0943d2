package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrKindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, ErrKindTimeout.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, ErrKindProvider.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrKindUnknown.HTTPStatus())
}

func TestErrorKindRetryable(t *testing.T) {
	assert.False(t, ErrKindNotFound.Retryable())
	assert.True(t, ErrKindTimeout.Retryable())
	assert.True(t, ErrKindProvider.Retryable())
	assert.False(t, ErrKindUnknown.Retryable())
}

func TestWeatherErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderError("unable to connect to weather API", cause)

	assert.Contains(t, err.Error(), "unable to connect to weather API")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Atlantis")

	assert.Equal(t, ErrKindNotFound, err.Kind)
	assert.Contains(t, err.Message, "Atlantis")
	assert.Contains(t, err.Message, "not found")
}

func TestAsWeatherError(t *testing.T) {
	t.Run("passes through typed errors", func(t *testing.T) {
		orig := NewTimeoutError(nil)
		werr := AsWeatherError(fmt.Errorf("fetch: %w", orig))
		require.NotNil(t, werr)
		assert.Equal(t, ErrKindTimeout, werr.Kind)
	})

	t.Run("wraps unclassified errors as unknown", func(t *testing.T) {
		cause := errors.New("boom")
		werr := AsWeatherError(cause)
		assert.Equal(t, ErrKindUnknown, werr.Kind)
		assert.ErrorIs(t, werr, cause)
	})
}
