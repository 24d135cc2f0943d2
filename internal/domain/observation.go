package domain

import (
	"strconv"
	"strings"
)

// Observation is one point-in-time weather reading for a location.
// It is immutable once produced by a successful fetch.
type Observation struct {
	Temperature   float64 `json:"temperature"`          // °C
	FeelsLike     float64 `json:"feels_like"`           // °C
	Humidity      int     `json:"humidity"`             // 0-100 %
	WindSpeed     float64 `json:"wind_speed"`           // m/s
	WindDirection int     `json:"wind_direction"`       // 0-360 degrees, 0 when the provider omits it
	Condition     string  `json:"weather_condition"`
	CloudCoverage int     `json:"cloud_coverage"`       // 0-100 %
	Visibility    *int    `json:"visibility,omitempty"` // meters; nil when unreported
	Pressure      int     `json:"pressure"`             // hPa
}

// LocationQuery is a parsed location input: a coordinate pair when the raw
// string looked like "lat,lon", otherwise a free-text place name.
type LocationQuery struct {
	Name         string
	Lat          float64
	Lon          float64
	IsCoordinate bool
}

// ParseLocationQuery interprets a raw location string. A string containing a
// comma is attempted as comma-separated latitude/longitude; if the first two
// parts do not both parse as floats, the whole string falls back to a place
// name. The fallback is silent; bad coordinates degrade to a name lookup
// rather than failing fast.
func ParseLocationQuery(raw string) LocationQuery {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		if len(parts) >= 2 {
			lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLat == nil && errLon == nil {
				return LocationQuery{Lat: lat, Lon: lon, IsCoordinate: true}
			}
		}
	}
	return LocationQuery{Name: raw}
}
