package domain

import "context"

// ObservationProvider fetches a current weather observation for a location.
// Implementations own their retry policy and return classified
// *WeatherError failures.
type ObservationProvider interface {
	// CurrentWeather resolves a raw location input (place name or "lat,lon")
	// to a single point-in-time observation.
	CurrentWeather(ctx context.Context, location string) (Observation, error)
}
