package models

import "slices"

// Pollutant is a pollutant identifier as it appears in industry profiles.
// Some, like heavy metals or PFAS, have no direct air-quality measurement.
type Pollutant string

const (
	PollutantPM25        Pollutant = "PM2.5"
	PollutantPM10        Pollutant = "PM10"
	PollutantNOx         Pollutant = "NOx"
	PollutantSO2         Pollutant = "SO2"
	PollutantO3          Pollutant = "O3"
	PollutantCO          Pollutant = "CO"
	PollutantVOCs        Pollutant = "VOCs"
	PollutantHeavyMetals Pollutant = "Heavy Metals"
	PollutantPFAS        Pollutant = "PFAS"
	PollutantAmmonia     Pollutant = "Ammonia"
	PollutantDioxins     Pollutant = "Dioxins"
	PollutantPesticides  Pollutant = "Pesticides"
	PollutantMethane     Pollutant = "Methane"
	PollutantDyes        Pollutant = "Textile Dyes"
	PollutantRadioactive Pollutant = "Radionuclides"
)

// MeasuredAs maps a profile pollutant to the reading key it is measured by.
func (p Pollutant) MeasuredAs() (PollutantKey, bool) {
	switch p {
	case PollutantPM25:
		return PM25, true
	case PollutantPM10:
		return PM10, true
	case PollutantNOx:
		return NO2, true
	case PollutantSO2:
		return SO2, true
	case PollutantO3:
		return O3, true
	case PollutantCO:
		return CO, true
	default:
		return "", false
	}
}

type Pathway string

const (
	PathwayAir   Pathway = "Air"
	PathwayWater Pathway = "Water"
	PathwaySoil  Pathway = "Soil"
)

type PersistenceType string

const (
	PersistenceShort      PersistenceType = "Short"
	PersistenceMedium     PersistenceType = "Medium"
	PersistenceMediumLong PersistenceType = "Medium to Long"
	PersistenceLong       PersistenceType = "Long"
	PersistenceVeryLong   PersistenceType = "Very Long"
)

// IsLongLived reports whether pollutants of this class persist for years.
func (p PersistenceType) IsLongLived() bool {
	return p == PersistenceLong || p == PersistenceVeryLong
}

type IndustryProfile struct {
	Name                    string          `json:"name"`
	PrimaryPollutants       []Pollutant     `json:"primaryPollutants"`
	LongTermRisks           []string        `json:"longTermRisks"`
	Persistence             PersistenceType `json:"persistenceType"`
	Pathways                []Pathway       `json:"mainPathways"`
	HealthFocus             string          `json:"healthFocus"`
	PreventiveFocus         string          `json:"preventiveFocus"`
	VulnerabilityMultiplier float64         `json:"vulnerabilityMultiplier"`
}

func (p IndustryProfile) HasPollutant(pollutant Pollutant) bool {
	return slices.Contains(p.PrimaryPollutants, pollutant)
}

func (p IndustryProfile) HasPathway(pathway Pathway) bool {
	return slices.Contains(p.Pathways, pathway)
}

// Clone returns a copy that shares no slices with p.
func (p IndustryProfile) Clone() IndustryProfile {
	p.PrimaryPollutants = slices.Clone(p.PrimaryPollutants)
	p.LongTermRisks = slices.Clone(p.LongTermRisks)
	p.Pathways = slices.Clone(p.Pathways)
	return p
}

// Multiplier returns the vulnerability multiplier, treating unset as 1.0.
func (p IndustryProfile) Multiplier() float64 {
	if p.VulnerabilityMultiplier <= 0 {
		return 1.0
	}
	return p.VulnerabilityMultiplier
}
