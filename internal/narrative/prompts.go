package narrative

import (
	"fmt"
	"strings"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

func conditionsPrompt(a models.RiskAssessment, w models.WeatherSnapshot, industry string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an environmental health analyst. Explain current conditions near a %s in plain language for residents.\n", industry)
	fmt.Fprintf(&b, "Overall risk: %s (score %d/100), AQI %d (%s).\n", a.OverallRisk.Level, a.OverallRisk.Score, a.OverallRisk.AQI, a.OverallRisk.Category)
	fmt.Fprintf(&b, "Human health %d, ecosystems %d, environment %d, socio-economic %d.\n",
		a.Impacts.HumanHealth.Score, a.Impacts.Ecosystems.Score, a.Impacts.Environment.Score, a.Impacts.SocioEconomic.Score)
	fmt.Fprintf(&b, "Weather: %.1f°C, humidity %.0f%%, wind %.1f km/h, visibility %.1f km, %s.\n",
		w.Temperature, w.Humidity, w.WindSpeed, w.Visibility, w.Description)
	fmt.Fprintf(&b, "Primary concerns: %s.\n", strings.Join(a.PrimaryConcerns, "; "))
	fmt.Fprintf(&b, "Industry health focus: %s.\n", a.IndustryContext.HealthFocus)
	b.WriteString("Answer in at most 4 sentences. Do not invent measurements.")
	return b.String()
}

func forecastPrompt(f models.ForecastAssessment, city, industry string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an environmental risk analyst. Interpret this qualitative 24-72 hour outlook for a %s in %s.\n", industry, city)
	fmt.Fprintf(&b, "Forecast risk: %s (score %d), primary concern %s.\n", f.OverallRisk.Level, f.OverallRisk.Score, f.OverallRisk.PrimaryConcern)
	fmt.Fprintf(&b, "Chemical accumulation: %s. Groundwater: %s. Soil: %s.\n",
		f.LongTerm.ChemicalAccumulation.Level, f.LongTerm.GroundwaterRisk.Level, f.LongTerm.SoilContamination.Level)
	for _, d := range f.RiskDrivers {
		fmt.Fprintf(&b, "Driver %s: %s.\n", d.Factor, d.Severity)
	}
	for _, w := range f.EarlyWarnings {
		fmt.Fprintf(&b, "Warning (%s): %s\n", w.Severity, w.Message)
	}
	b.WriteString(`Respond with JSON only, no prose, in this shape:
{"stressWindows":[{"period":"","risk":"Low|Moderate|High","reason":""}],
 "exposureBreakdown":[{"source":"","percentage":0}],
 "behaviorAnalysis":"",
 "earlyWarnings":[""]}
Do not predict numeric pollutant concentrations.`)
	return b.String()
}

func alertPrompt(in models.AlertInput) string {
	return fmt.Sprintf("Explain in at most 3 short sentences why residents near a %s should take care. "+
		"AQI is %d, PM2.5 is %.1f µg/m³, wind speed is %.1f km/h, pollutant persistence is %s. "+
		"Give one practical protective action.",
		in.Industry, in.AQI, in.PM25, in.WindSpeed, persistenceOrUnknown(in.Persistence))
}

func persistenceOrUnknown(p string) string {
	if strings.TrimSpace(p) == "" {
		return "unknown"
	}
	return p
}
