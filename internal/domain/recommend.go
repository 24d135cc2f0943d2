package domain

import "fmt"

// Recommendation is the actionable guidance derived from a risk assessment.
type Recommendation struct {
	SafeToFish       bool         `json:"safe_to_fish"`
	RiskLevel        RiskTier     `json:"risk_level"`
	Advice           string       `json:"recommendation"`
	RiskFactors      []RiskFactor `json:"risk_factors"`
	BestFishingHours string       `json:"best_fishing_hours,omitempty"`
	Precautions      []string     `json:"precautions"`
}

// Base precaution lists per tier, in fixed order.
var (
	highRiskPrecautions = []string{
		"Do NOT go fishing in these conditions",
		"Wait for weather to improve",
		"Check weather again in 6-12 hours",
		"Listen to local fisheries department advisories",
	}
	mediumRiskPrecautions = []string{
		"Only if you're experienced",
		"Ensure all safety equipment onboard",
		"Stay close to shore",
		"Monitor weather updates continuously",
		"Have communication equipment ready",
		"Inform family/authorities of your trip",
	}
	lowRiskPrecautions = []string{
		"Carry sufficient drinking water",
		"Apply sunscreen (SPF 30+)",
		"Wear life jackets",
		"Bring first aid kit",
		"Keep emergency contacts handy",
	}
)

// factorPrecautions maps each risk factor to its extra precaution, appended
// after the base list. FactorBadWeather has no mapping: the bad-weather
// hazard is already covered by the tier-level advice.
var factorPrecautions = map[RiskFactor]string{
	FactorHighWind:        "Strong winds - avoid deep sea fishing",
	FactorModerateWind:    "Moderate winds - stay alert",
	FactorPoorVisibility:  "Poor visibility - use fog horn and navigation lights",
	FactorColdTemperature: "Cold weather - wear warm clothing",
	FactorExtremeHeat:     "Extreme heat - take frequent breaks, stay hydrated",
	FactorHighHumidity:    "High humidity - ensure good ventilation on boat",
}

// Fishing-hour windows for the tiers that allow going out at all.
const (
	mediumFishingHours = "05:00–08:00"
	lowFishingHours    = "05:00–09:00 or 16:00–18:00"
)

// BuildRecommendation converts a risk assessment into guidance for the
// given location. It never fails. SafeToFish is true only for the low tier;
// unknown is always unsafe. Per-factor precautions are appended after the
// tier's base list in factor evaluation order, without deduplication. The
// observation may be nil and is only consulted for the low-tier narrative,
// which embeds the numeric temperature and wind speed when available.
func BuildRecommendation(location string, obs *Observation, assessment RiskAssessment) Recommendation {
	rec := Recommendation{
		RiskLevel:   assessment.Tier,
		RiskFactors: assessment.Factors,
	}

	switch assessment.Tier {
	case TierHigh:
		rec.SafeToFish = false
		rec.Advice = fmt.Sprintf(
			"NOT SAFE for fishing in %s. High risk conditions detected. Please postpone your trip.",
			location,
		)
		rec.Precautions = append([]string{}, highRiskPrecautions...)

	case TierMedium:
		// Conservative: medium is narrated as "caution" but still unsafe.
		rec.SafeToFish = false
		rec.Advice = fmt.Sprintf(
			"CAUTION advised for fishing in %s. Moderate risk conditions. Only experienced fishermen with proper safety equipment should proceed.",
			location,
		)
		rec.BestFishingHours = mediumFishingHours
		rec.Precautions = append([]string{}, mediumRiskPrecautions...)

	case TierLow:
		rec.SafeToFish = true
		if obs != nil {
			rec.Advice = fmt.Sprintf(
				"Good conditions for fishing in %s! Temperature: %.1f°C, Wind: %.1f m/s. Enjoy your fishing trip!",
				location, obs.Temperature, obs.WindSpeed,
			)
		} else {
			rec.Advice = fmt.Sprintf("Good conditions for fishing in %s! Enjoy your fishing trip!", location)
		}
		rec.BestFishingHours = lowFishingHours
		rec.Precautions = append([]string{}, lowRiskPrecautions...)

	default:
		// TierUnknown and any unrecognized tier: no observation to judge,
		// so never declare it safe.
		rec.SafeToFish = false
		rec.Advice = fmt.Sprintf(
			"Unable to determine fishing conditions for %s. Weather data is unavailable.",
			location,
		)
		rec.Precautions = []string{}
	}

	for _, factor := range assessment.Factors {
		if p, ok := factorPrecautions[factor]; ok {
			rec.Precautions = append(rec.Precautions, p)
		}
	}

	return rec
}

// BuildFailureRecommendation produces the terminal guidance for a failed
// fetch: unknown tier, unsafe, no hours, no precautions, and a narrative
// that surfaces the failure message.
func BuildFailureRecommendation(location, failure string) Recommendation {
	return Recommendation{
		SafeToFish:  false,
		RiskLevel:   TierUnknown,
		Advice:      fmt.Sprintf("Unable to provide fishing recommendation for %s due to error: %s", location, failure),
		RiskFactors: []RiskFactor{},
		Precautions: []string{},
	}
}
