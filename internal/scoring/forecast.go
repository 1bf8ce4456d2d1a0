package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

const (
	defaultForecastScore = 50.0
	forecastHorizon      = "24-72 hours"
	maxPreventiveActions = 4

	// AQI thresholds for forecast warnings.
	aqiSevere   = 200
	aqiElevated = 150
)

// driverThresholds holds the concentration above which a measured primary
// pollutant becomes a High severity driver. Measured pollutants without an
// entry are Moderate.
var driverThresholds = map[models.PollutantKey]float64{
	models.PM25: 60,
	models.PM10: 100,
	models.NO2:  40,
	models.SO2:  40,
}

// DeriveForecast re-applies the scoring rules to a forecast snapshot. It does
// not predict concentrations; every level comes from provider data and the
// industry profile.
func DeriveForecast(pollutants models.PollutantReading, trend models.WeatherTrend, profile models.IndustryProfile) models.ForecastAssessment {
	raw := defaultForecastScore
	if pollutants.HasAQI() {
		raw = math.Min(100, float64(pollutants.AQI)/3)
	}
	multiplier := profile.Multiplier()
	adjusted := clampScore(math.Min(100, raw*multiplier))

	return models.ForecastAssessment{
		OverallRisk: models.ForecastRisk{
			Level:          ClassifyLevel(adjusted),
			Score:          adjusted,
			RawScore:       clampScore(raw),
			Multiplier:     multiplier,
			PrimaryConcern: primaryForecastConcern(profile),
			TimeHorizon:    forecastHorizon,
		},
		LongTerm:          longTermOutlook(pollutants.AQI, profile),
		RiskDrivers:       riskDrivers(pollutants, profile),
		EarlyWarnings:     earlyWarnings(pollutants.AQI, trend, profile),
		PreventiveActions: preventiveActions(profile),
	}
}

func primaryForecastConcern(profile models.IndustryProfile) string {
	if len(profile.PrimaryPollutants) == 0 {
		return "General industrial emissions"
	}
	return string(profile.PrimaryPollutants[0])
}

func longTermOutlook(aqi int, profile models.IndustryProfile) models.LongTermOutlook {
	return models.LongTermOutlook{
		ChemicalAccumulation: chemicalAccumulation(aqi, profile),
		GroundwaterRisk:      pathwayRisk(profile, models.PathwayWater),
		SoilContamination:    pathwayRisk(profile, models.PathwaySoil),
	}
}

func chemicalAccumulation(aqi int, profile models.IndustryProfile) models.LongTermRisk {
	switch p := profile.Persistence; {
	case p == models.PersistenceVeryLong:
		return models.LongTermRisk{
			Level:       models.RiskHigh,
			Description: fmt.Sprintf("%s pollutants persist for decades and accumulate in soil, water and living tissue", profile.Name),
		}
	case p == models.PersistenceLong, p == models.PersistenceMediumLong,
		p == models.PersistenceMedium && aqi > aqiSevere:
		return models.LongTermRisk{
			Level:       models.RiskModerate,
			Description: "Repeated exposure may lead to gradual build-up in the local environment",
		}
	default:
		return models.LongTermRisk{
			Level:       models.RiskLow,
			Description: "Pollutants disperse or degrade before significant accumulation",
		}
	}
}

var pathwayDescriptions = map[models.Pathway][2]string{
	models.PathwayWater: {
		"Discharge and runoff can reach aquifers; monitor nearby wells and surface water",
		"No significant water pathway for this industry",
	},
	models.PathwaySoil: {
		"Deposition can contaminate topsoil and enter the food chain",
		"No significant soil pathway for this industry",
	},
}

func pathwayRisk(profile models.IndustryProfile, pathway models.Pathway) models.LongTermRisk {
	desc := pathwayDescriptions[pathway]
	if profile.HasPathway(pathway) {
		return models.LongTermRisk{Level: models.RiskModerate, Description: desc[0]}
	}
	return models.LongTermRisk{Level: models.RiskLow, Description: desc[1]}
}

func riskDrivers(p models.PollutantReading, profile models.IndustryProfile) []models.RiskDriver {
	drivers := make([]models.RiskDriver, 0, len(profile.PrimaryPollutants)+1)
	for _, pollutant := range profile.PrimaryPollutants {
		key, measured := pollutant.MeasuredAs()
		if !measured {
			drivers = append(drivers, models.RiskDriver{
				Factor:      string(pollutant),
				Severity:    models.SeverityPotential,
				Description: fmt.Sprintf("%s is not measured by air-quality stations; treat as a potential release", pollutant),
				Persistence: profile.Persistence,
			})
			continue
		}

		value := p.Value(key)
		severity := models.SeverityModerate
		if limit, ok := driverThresholds[key]; ok && value > limit {
			severity = models.SeverityHigh
		}
		drivers = append(drivers, models.RiskDriver{
			Factor:      string(pollutant),
			Severity:    severity,
			Description: fmt.Sprintf("Measured %s level %.1f µg/m³", pollutant, value),
			Persistence: profile.Persistence,
		})
	}

	if profile.Persistence.IsLongLived() {
		drivers = append(drivers, models.RiskDriver{
			Factor:      "Chemical Persistence",
			Severity:    models.SeverityHigh,
			Description: "Emissions from this industry remain active in the environment long after release",
			Persistence: profile.Persistence,
		})
	}
	return drivers
}

func earlyWarnings(aqi int, trend models.WeatherTrend, profile models.IndustryProfile) []models.EarlyWarning {
	var warnings []models.EarlyWarning

	if aqi > aqiSevere {
		warnings = append(warnings, models.EarlyWarning{
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("Air quality forecast is very unhealthy (AQI %d); limit outdoor activity", aqi),
		})
	}
	if trend.Wind == models.WindDecreasing && profile.HasPollutant(models.PollutantPM25) {
		warnings = append(warnings, models.EarlyWarning{
			Severity: models.SeverityModerate,
			Message:  "Decreasing wind speeds will reduce dispersion; expect fine particulates to build up",
		})
	}
	switch {
	case profile.Persistence.IsLongLived():
		warnings = append(warnings, models.EarlyWarning{
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("%s pollutants are persistent; each exposure adds to long-term accumulation", profile.Name),
		})
	case aqi > aqiElevated:
		warnings = append(warnings, models.EarlyWarning{
			Severity: models.SeverityModerate,
			Message:  "Sustained unhealthy air quality may lead to local pollutant accumulation",
		})
	}

	if len(warnings) == 0 {
		warnings = append(warnings, models.EarlyWarning{
			Severity: models.SeverityInfo,
			Message:  "Conditions within manageable limits",
		})
	}
	return warnings
}

func preventiveActions(profile models.IndustryProfile) []models.PreventiveAction {
	actions := []models.PreventiveAction{{
		Priority:    1,
		Action:      "Enhanced monitoring",
		Description: "Increase air-quality sampling frequency around the site boundary",
		Timeframe:   "Immediate",
		Scalability: "High",
	}}

	if profile.PreventiveFocus != "" {
		actions = append(actions, models.PreventiveAction{
			Priority:    2,
			Action:      "Industry-specific control",
			Description: profile.PreventiveFocus,
			Timeframe:   "1-3 months",
			Scalability: "Medium",
		})
	}

	if profile.HasPathway(models.PathwayWater) {
		actions = append(actions, models.PreventiveAction{
			Priority:    3,
			Action:      "Protect water sources",
			Description: "Test nearby groundwater and surface water; contain effluent and runoff",
			Timeframe:   "1-4 weeks",
			Scalability: "Medium",
		})
	}

	if profile.Persistence == models.PersistenceVeryLong {
		actions = append(actions, models.PreventiveAction{
			Priority:    4,
			Action:      "Persistent waste handling",
			Description: "Segregate and safely store persistent chemical waste to prevent long-term release",
			Timeframe:   "Ongoing",
			Scalability: "Low",
		})
	} else {
		actions = append(actions, models.PreventiveAction{
			Priority:    4,
			Action:      "Community communication",
			Description: "Share risk updates with residents, schools and local health services",
			Timeframe:   "1-2 weeks",
			Scalability: "High",
		})
	}

	slices.SortStableFunc(actions, func(a, b models.PreventiveAction) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	if len(actions) > maxPreventiveActions {
		actions = actions[:maxPreventiveActions]
	}
	return actions
}
