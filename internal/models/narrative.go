package models

import "slices"

type StressWindow struct {
	Period string `json:"period"`
	Risk   string `json:"risk"`
	Reason string `json:"reason"`
}

type ExposureShare struct {
	Source     string  `json:"source"`
	Percentage float64 `json:"percentage"`
}

// ForecastNarrative is the structured AI interpretation of a ForecastAssessment.
type ForecastNarrative struct {
	StressWindows     []StressWindow  `json:"stressWindows"`
	ExposureBreakdown []ExposureShare `json:"exposureBreakdown"`
	BehaviorAnalysis  string          `json:"behaviorAnalysis"`
	EarlyWarnings     []string        `json:"earlyWarnings"`
}

func (n ForecastNarrative) Clone() ForecastNarrative {
	n.StressWindows = slices.Clone(n.StressWindows)
	n.ExposureBreakdown = slices.Clone(n.ExposureBreakdown)
	n.EarlyWarnings = slices.Clone(n.EarlyWarnings)
	return n
}

// AlertInput is the minimal context needed to explain a pollution alert.
type AlertInput struct {
	Industry    string  `json:"industry" binding:"required"`
	AQI         int     `json:"aqi" binding:"gte=0"`
	PM25        float64 `json:"pm25" binding:"gte=0"`
	WindSpeed   float64 `json:"windSpeed" binding:"gte=0"`
	Persistence string  `json:"persistence"`
}
