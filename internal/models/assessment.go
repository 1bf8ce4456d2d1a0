package models

import "slices"

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

type ImpactScore struct {
	Score       int       `json:"score"`
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
}

type OverallRisk struct {
	Score    int       `json:"score"`
	Level    RiskLevel `json:"level"`
	AQI      int       `json:"aqi"`
	Category string    `json:"category"`
}

type Impacts struct {
	HumanHealth   ImpactScore `json:"humanHealth"`
	Ecosystems    ImpactScore `json:"ecosystems"`
	Environment   ImpactScore `json:"environment"`
	SocioEconomic ImpactScore `json:"socioEconomic"`
}

// RiskAssessment is the current-conditions result for one city/industry pair.
type RiskAssessment struct {
	OverallRisk     OverallRisk     `json:"overallRisk"`
	Impacts         Impacts         `json:"impacts"`
	PrimaryConcerns []string        `json:"primaryConcerns"`
	IndustryContext IndustryProfile `json:"industryContext"`
}

func (a RiskAssessment) Clone() RiskAssessment {
	a.PrimaryConcerns = slices.Clone(a.PrimaryConcerns)
	a.IndustryContext = a.IndustryContext.Clone()
	return a
}

type ForecastRisk struct {
	Level          RiskLevel `json:"level"`
	Score          int       `json:"score"`
	RawScore       int       `json:"rawScore"`
	Multiplier     float64   `json:"multiplier"`
	PrimaryConcern string    `json:"primaryConcern"`
	TimeHorizon    string    `json:"timeHorizon"`
}

type LongTermRisk struct {
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
}

type LongTermOutlook struct {
	ChemicalAccumulation LongTermRisk `json:"chemicalAccumulation"`
	GroundwaterRisk      LongTermRisk `json:"groundwaterRisk"`
	SoilContamination    LongTermRisk `json:"soilContamination"`
}

// Driver severities. SeverityPotential marks pollutants with no direct measurement.
const (
	SeverityHigh      = "High"
	SeverityModerate  = "Moderate"
	SeverityLow       = "Low"
	SeverityPotential = "Potential"
	SeverityInfo      = "Info"
)

type RiskDriver struct {
	Factor      string          `json:"factor"`
	Severity    string          `json:"severity"`
	Description string          `json:"description"`
	Persistence PersistenceType `json:"persistence"`
}

type EarlyWarning struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type PreventiveAction struct {
	Priority    int    `json:"priority"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
	Scalability string `json:"scalability"`
}

// ForecastAssessment re-applies the scoring rules to a forecast data snapshot.
// It carries qualitative levels only, never predicted concentrations.
type ForecastAssessment struct {
	OverallRisk       ForecastRisk       `json:"overallRisk"`
	LongTerm          LongTermOutlook    `json:"longTerm"`
	RiskDrivers       []RiskDriver       `json:"riskDrivers"`
	EarlyWarnings     []EarlyWarning     `json:"earlyWarnings"`
	PreventiveActions []PreventiveAction `json:"preventiveActions"`
}

func (f ForecastAssessment) Clone() ForecastAssessment {
	f.RiskDrivers = slices.Clone(f.RiskDrivers)
	f.EarlyWarnings = slices.Clone(f.EarlyWarnings)
	f.PreventiveActions = slices.Clone(f.PreventiveActions)
	return f
}
