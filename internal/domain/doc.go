// Package domain models fishing safety advisories derived from weather
// observations.
//
// # Data Source
//
// Observations come from the OpenWeatherMap current-weather endpoint
// (https://api.openweathermap.org/data/2.5/weather), queried with metric
// units. The provider adapter fetches one observation per safety check;
// this package never performs I/O.
//
// # Location Conventions
//
// A location input is either a free-text place name ("Chennai") or a
// coordinate pair ("13.08,80.27"). Any input containing a comma is first
// attempted as "lat,lon"; if either part fails to parse as a float the
// whole string silently degrades to a place-name lookup. A malformed
// "13.x,abc" therefore becomes a name query, never an error — the provider
// decides whether such a name exists.
//
// # Risk Classification
//
// Risk factors are detected independently, in a fixed evaluation order:
//
//	wind:       >10 m/s high_wind | >5 m/s moderate_wind (mutually exclusive)
//	visibility: present and <1000 m → poor_visibility (absent ≠ zero)
//	condition:  contains "rain", "storm", or "thunderstorm" → bad_weather
//	temp:       <15 °C cold_temperature | >38 °C extreme_heat (mutually exclusive)
//	humidity:   >85 % → high_humidity
//
// The overall tier follows from the factor set alone:
//
//	high:    any of high_wind, bad_weather, poor_visibility
//	medium:  two or more factors otherwise
//	low:     zero or one minor factor
//	unknown: no observation available (fetch failed)
//
// # Recommendations
//
// Each tier has a fixed base precaution list and optional fishing-hours
// window. Per-factor precautions are appended after the base list in factor
// evaluation order, without deduplication. Medium risk is treated as unsafe
// (safe_to_fish=false) even though its narrative only advises caution; the
// service errs on the side of keeping boats ashore.
package domain
