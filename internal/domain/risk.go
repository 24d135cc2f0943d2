package domain

import "strings"

// RiskTier is the aggregate severity classification of an observation.
type RiskTier string

const (
	TierLow     RiskTier = "low"
	TierMedium  RiskTier = "medium"
	TierHigh    RiskTier = "high"
	TierUnknown RiskTier = "unknown" // no observation available
)

// RiskFactor is a named hazardous condition detected from an observation.
type RiskFactor string

const (
	FactorHighWind        RiskFactor = "high_wind"
	FactorModerateWind    RiskFactor = "moderate_wind"
	FactorPoorVisibility  RiskFactor = "poor_visibility"
	FactorBadWeather      RiskFactor = "bad_weather"
	FactorColdTemperature RiskFactor = "cold_temperature"
	FactorExtremeHeat     RiskFactor = "extreme_heat"
	FactorHighHumidity    RiskFactor = "high_humidity"
)

// Detection thresholds. Wind is in m/s, visibility in meters, temperature
// in °C, humidity in percent.
const (
	highWindThreshold       = 10.0
	moderateWindThreshold   = 5.0
	poorVisibilityThreshold = 1000
	coldTemperatureLimit    = 15.0
	extremeHeatLimit        = 38.0
	highHumidityThreshold   = 85
)

// badWeatherTerms are matched case-insensitively inside the provider's
// free-text condition description.
var badWeatherTerms = []string{"rain", "storm", "thunderstorm"}

// RiskAssessment is the deterministic classification of one observation:
// the ordered set of detected factors (insertion order = evaluation order,
// no duplicates) and the derived tier.
type RiskAssessment struct {
	Factors []RiskFactor
	Tier    RiskTier
}

// AssessRisk classifies an observation into risk factors and an overall
// tier. It never fails: a nil observation yields TierUnknown with an empty
// factor set. All applicable factors are collected, not just the first
// match.
func AssessRisk(obs *Observation) RiskAssessment {
	if obs == nil {
		return RiskAssessment{Factors: []RiskFactor{}, Tier: TierUnknown}
	}

	factors := make([]RiskFactor, 0, 4)

	if obs.WindSpeed > highWindThreshold {
		factors = append(factors, FactorHighWind)
	} else if obs.WindSpeed > moderateWindThreshold {
		factors = append(factors, FactorModerateWind)
	}

	if obs.Visibility != nil && *obs.Visibility < poorVisibilityThreshold {
		factors = append(factors, FactorPoorVisibility)
	}

	condition := strings.ToLower(obs.Condition)
	for _, term := range badWeatherTerms {
		if strings.Contains(condition, term) {
			factors = append(factors, FactorBadWeather)
			break
		}
	}

	if obs.Temperature < coldTemperatureLimit {
		factors = append(factors, FactorColdTemperature)
	} else if obs.Temperature > extremeHeatLimit {
		factors = append(factors, FactorExtremeHeat)
	}

	if obs.Humidity > highHumidityThreshold {
		factors = append(factors, FactorHighHumidity)
	}

	return RiskAssessment{Factors: factors, Tier: deriveTier(factors)}
}

// deriveTier maps a factor set to a tier. First match wins: any major
// factor forces high; two or more factors of any kind are medium; a single
// minor factor or a clean observation is low.
func deriveTier(factors []RiskFactor) RiskTier {
	for _, f := range factors {
		switch f {
		case FactorHighWind, FactorBadWeather, FactorPoorVisibility:
			return TierHigh
		}
	}
	if len(factors) >= 2 {
		return TierMedium
	}
	return TierLow
}
