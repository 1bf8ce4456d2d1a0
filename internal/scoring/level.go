// Package scoring derives rule-based environmental risk from pollutant,
// weather and industry inputs.
//
// Every function here is pure and total: absent readings count as zero,
// absent weather fields take neutral defaults, and no input makes them fail.
//
// Thresholds:
//
//	score <= 33  Low
//	score <= 66  Moderate
//	score >  66  High
//
// Every impact dimension, the overall composite and the forecast score share
// ClassifyLevel so the bands cannot drift apart.
package scoring

import (
	"math"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

const (
	lowCeiling      = 33
	moderateCeiling = 66
)

// ClassifyLevel maps a 0-100 score to its risk band.
func ClassifyLevel(score int) models.RiskLevel {
	switch {
	case score <= lowCeiling:
		return models.RiskLow
	case score <= moderateCeiling:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}

// clampScore rounds v and bounds it to [0,100]. NaN maps to 0.
func clampScore(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(math.Round(v))
}

// AQICategory returns the US EPA category label for an AQI value.
func AQICategory(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}
