package models

import "time"

// EnvironmentReport is the current-conditions response for one city/industry pair.
type EnvironmentReport struct {
	City       string           `json:"city"`
	Industry   string           `json:"industry"`
	Pollutants PollutantReading `json:"pollutants"`
	Weather    WeatherSnapshot  `json:"weather"`
	Assessment RiskAssessment   `json:"assessment"`
	AIInsights string           `json:"aiInsights"`
	IsDemo     bool             `json:"isDemo"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Clone returns a deep copy, so callers may modify it without touching a
// cached report.
func (r EnvironmentReport) Clone() EnvironmentReport {
	r.Pollutants = r.Pollutants.Clone()
	r.Assessment = r.Assessment.Clone()
	return r
}

type ForecastReport struct {
	City       string             `json:"city"`
	Industry   string             `json:"industry"`
	Forecast   ForecastAssessment `json:"forecast"`
	AIForecast ForecastNarrative  `json:"aiForecast"`
	IsDemo     bool               `json:"isDemo"`
	Timestamp  time.Time          `json:"timestamp"`
}

func (r ForecastReport) Clone() ForecastReport {
	r.Forecast = r.Forecast.Clone()
	r.AIForecast = r.AIForecast.Clone()
	return r
}
