package scoring

import (
	"fmt"
	"math"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

// Guideline concentrations (µg/m³) each ratio is taken against.
const (
	pm25Guideline = 15.0
	pm10Guideline = 45.0
	no2Guideline  = 25.0
	o3Guideline   = 100.0
	so2Guideline  = 40.0

	// PM2.5 above this hurts outdoor productivity and triggers a concern.
	pm25Critical = 100.0

	// VOC volatilization concern starts above this temperature (°C).
	volatilizationTemp = 30.0
)

// Overall composite weights.
const (
	healthWeight        = 0.35
	ecosystemWeight     = 0.20
	environmentWeight   = 0.25
	socioEconomicWeight = 0.20
)

type healthWeights struct {
	pm25, pm10, no2, o3 float64
}

// ScoreConditions computes the current-conditions risk assessment.
func ScoreConditions(pollutants models.PollutantReading, weather models.WeatherSnapshot, profile models.IndustryProfile) models.RiskAssessment {
	weather = weather.WithDefaults()

	health := healthImpact(pollutants, profile)
	ecosystem := ecosystemImpact(pollutants, weather)
	environment := environmentImpact(pollutants, weather)
	socio := socioEconomicImpact(pollutants, health)

	overall := clampScore(healthWeight*float64(health) +
		ecosystemWeight*float64(ecosystem) +
		environmentWeight*float64(environment) +
		socioEconomicWeight*float64(socio))

	aqi := pollutants.AQI
	if !pollutants.HasAQI() {
		aqi = int(math.Round(float64(overall) * 5))
	}

	return models.RiskAssessment{
		OverallRisk: models.OverallRisk{
			Score:    overall,
			Level:    ClassifyLevel(overall),
			AQI:      aqi,
			Category: AQICategory(aqi),
		},
		Impacts: models.Impacts{
			HumanHealth:   impact(health, healthDescriptions),
			Ecosystems:    impact(ecosystem, ecosystemDescriptions),
			Environment:   impact(environment, environmentDescriptions),
			SocioEconomic: impact(socio, socioEconomicDescriptions),
		},
		PrimaryConcerns: primaryConcerns(pollutants, weather, profile),
		IndustryContext: profile,
	}
}

// healthImpact weighs the four health-relevant pollutant ratios. Industries
// that emit PM2.5 or NOx shift weight toward those pollutants before the
// weights are renormalized to 100.
func healthImpact(p models.PollutantReading, profile models.IndustryProfile) int {
	w := healthWeights{pm25: 40, pm10: 25, no2: 20, o3: 15}
	if profile.HasPollutant(models.PollutantPM25) {
		w.pm25 += 10
	}
	if profile.HasPollutant(models.PollutantNOx) {
		w.no2 += 10
	}
	total := w.pm25 + w.pm10 + w.no2 + w.o3
	scale := 100 / total

	score := p.Value(models.PM25)/pm25Guideline*w.pm25*scale +
		p.Value(models.PM10)/pm10Guideline*w.pm10*scale +
		p.Value(models.NO2)/no2Guideline*w.no2*scale +
		p.Value(models.O3)/o3Guideline*w.o3*scale
	return clampScore(score)
}

func ecosystemImpact(p models.PollutantReading, weather models.WeatherSnapshot) int {
	score := p.Value(models.NO2)/no2Guideline*30 +
		p.Value(models.SO2)/so2Guideline*35 +
		p.Value(models.O3)/o3Guideline*25
	if weather.Humidity < 30 {
		score += 10
	}
	return clampScore(score)
}

func environmentImpact(p models.PollutantReading, weather models.WeatherSnapshot) int {
	dispersion := dispersionFactor(weather.WindSpeed)
	score := p.Value(models.PM25)/pm25Guideline*35*dispersion +
		p.Value(models.PM10)/pm10Guideline*30*dispersion
	score += (10 - math.Min(weather.Visibility, 10)) * 3.5
	return clampScore(score)
}

// dispersionFactor discounts particulate risk when wind disperses it.
func dispersionFactor(windSpeed float64) float64 {
	switch {
	case windSpeed > 15:
		return 0.7
	case windSpeed > 8:
		return 0.85
	default:
		return 1.0
	}
}

func socioEconomicImpact(p models.PollutantReading, health int) int {
	pm25 := p.Value(models.PM25)
	score := 0.5*float64(health) + pm25/pm25Guideline*25
	if pm25 > pm25Critical {
		score += 15
	}
	return clampScore(score)
}

func primaryConcerns(p models.PollutantReading, weather models.WeatherSnapshot, profile models.IndustryProfile) []string {
	var concerns []string

	if pm25 := p.Value(models.PM25); pm25 > pm25Critical {
		if profile.HasPollutant(models.PollutantPM25) {
			concerns = append(concerns, fmt.Sprintf(
				"PM2.5 at %.0f µg/m³ is consistent with %s particulate emissions and poses a serious respiratory risk", pm25, profile.Name))
		} else {
			concerns = append(concerns, fmt.Sprintf(
				"PM2.5 at %.0f µg/m³ exceeds safe limits and poses a serious respiratory risk", pm25))
		}
	}

	if profile.HasPollutant(models.PollutantVOCs) && weather.Temperature > volatilizationTemp {
		concerns = append(concerns, fmt.Sprintf(
			"High temperature (%.0f°C) increases VOC volatilization from %s operations", weather.Temperature, profile.Name))
	}

	if len(concerns) == 0 {
		concerns = append(concerns, "No critical thresholds exceeded; continue routine monitoring")
	}
	return concerns
}

type levelDescriptions map[models.RiskLevel]string

var healthDescriptions = levelDescriptions{
	models.RiskLow:      "Minimal health impact for the general population",
	models.RiskModerate: "Sensitive groups may experience respiratory irritation",
	models.RiskHigh:     "Significant respiratory and cardiovascular risk for all residents",
}

var ecosystemDescriptions = levelDescriptions{
	models.RiskLow:      "Vegetation and wildlife largely unaffected",
	models.RiskModerate: "Acid deposition and ozone stress on sensitive vegetation",
	models.RiskHigh:     "Severe acidification and ozone damage to ecosystems",
}

var environmentDescriptions = levelDescriptions{
	models.RiskLow:      "Good dispersion with little particulate build-up",
	models.RiskModerate: "Particulate accumulation with reduced visibility",
	models.RiskHigh:     "Stagnant air trapping heavy particulate loads",
}

var socioEconomicDescriptions = levelDescriptions{
	models.RiskLow:      "Negligible effect on productivity and healthcare costs",
	models.RiskModerate: "Rising healthcare demand and reduced outdoor productivity",
	models.RiskHigh:     "Major productivity losses and healthcare burden",
}

func impact(score int, descriptions levelDescriptions) models.ImpactScore {
	level := ClassifyLevel(score)
	return models.ImpactScore{
		Score:       score,
		Level:       level,
		Description: descriptions[level],
	}
}
