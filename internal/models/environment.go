package models

import (
	"maps"
	"math"
	"time"
)

// PollutantKey identifies a measured air pollutant in a PollutantReading.
type PollutantKey string

const (
	PM25 PollutantKey = "pm25"
	PM10 PollutantKey = "pm10"
	NO2  PollutantKey = "no2"
	O3   PollutantKey = "o3"
	SO2  PollutantKey = "so2"
	CO   PollutantKey = "co"
)

// PollutantKeys lists every key a data source may report, in display order.
func PollutantKeys() []PollutantKey {
	return []PollutantKey{PM25, PM10, NO2, O3, SO2, CO}
}

type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// PollutantReading is a normalized air-quality snapshot for one city.
// AQI is the externally supplied US EPA index; values <= 0 mean unknown.
type PollutantReading struct {
	Values     map[PollutantKey]Measurement `json:"values"`
	AQI        int                          `json:"aqi"`
	IsDemo     bool                         `json:"isDemo"`
	Source     string                       `json:"source"`
	ObservedAt time.Time                    `json:"observedAt"`
}

// Value returns the concentration for key, or zero when it was not reported.
func (r PollutantReading) Value(key PollutantKey) float64 {
	m, ok := r.Values[key]
	if !ok || math.IsNaN(m.Value) || m.Value < 0 {
		return 0
	}
	return m.Value
}

func (r PollutantReading) Clone() PollutantReading {
	r.Values = maps.Clone(r.Values)
	return r
}

func (r PollutantReading) HasAQI() bool {
	return r.AQI > 0
}

// Neutral weather values used when a provider omits a field.
const (
	DefaultTemperature = 20.0
	DefaultHumidity    = 50.0
	DefaultWindSpeed   = 10.0 // km/h
	DefaultVisibility  = 10.0 // km
	DefaultPressure    = 1013.0
)

type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	WindSpeed   float64 `json:"windSpeed"`   // km/h
	Visibility  float64 `json:"visibility"`  // km
	Pressure    float64 `json:"pressure"`    // hPa
	Description string  `json:"description"`
	IsDemo      bool    `json:"isDemo"`
	Source      string  `json:"source"`
}

// UnknownWeather returns a snapshot with every numeric field absent. Data
// sources start from it and fill in what the provider reported.
func UnknownWeather() WeatherSnapshot {
	nan := math.NaN()
	return WeatherSnapshot{Temperature: nan, Humidity: nan, WindSpeed: nan, Visibility: nan, Pressure: nan}
}

// WithDefaults replaces absent numeric fields with neutral values so that
// scoring formulas are not skewed toward zero. NaN is absent everywhere and
// negative values are absent for humidity, wind and visibility. Zero wind and
// zero visibility are real readings. Pressure must be positive.
func (w WeatherSnapshot) WithDefaults() WeatherSnapshot {
	if math.IsNaN(w.Temperature) {
		w.Temperature = DefaultTemperature
	}
	w.Humidity = presentOr(w.Humidity, DefaultHumidity)
	w.WindSpeed = presentOr(w.WindSpeed, DefaultWindSpeed)
	w.Visibility = presentOr(w.Visibility, DefaultVisibility)
	if math.IsNaN(w.Pressure) || w.Pressure <= 0 {
		w.Pressure = DefaultPressure
	}
	return w
}

func presentOr(v, fallback float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return fallback
	}
	return v
}

type WindTrend string

const (
	WindIncreasing WindTrend = "Increasing"
	WindStable     WindTrend = "Stable"
	WindDecreasing WindTrend = "Decreasing"
)

// WeatherTrend pairs current conditions with the provider's outlook.
type WeatherTrend struct {
	Current WeatherSnapshot `json:"current"`
	Outlook WeatherSnapshot `json:"outlook"`
	Wind    WindTrend       `json:"windTrend"`
}

// ClassifyWindTrend compares current and outlook wind speeds with a 15% dead band.
func ClassifyWindTrend(current, outlook float64) WindTrend {
	if current <= 0 {
		return WindStable
	}
	switch ratio := outlook / current; {
	case ratio < 0.85:
		return WindDecreasing
	case ratio > 1.15:
		return WindIncreasing
	default:
		return WindStable
	}
}
