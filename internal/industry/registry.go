// Package industry holds the hand-curated pollution characteristics of the
// industries the dashboard can assess.
//
// Lookup is an exact, case-sensitive match on the canonical name. Callers
// must pass names as returned by Names; anything else resolves to the
// Generic Industrial Zone profile rather than failing.
package industry

import (
	"slices"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

// GenericName is the profile every unknown industry resolves to.
const GenericName = "Generic Industrial Zone"

var profiles = map[string]models.IndustryProfile{
	"Thermal Power Plant": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM25, models.PollutantSO2, models.PollutantNOx, models.PollutantPM10, models.PollutantHeavyMetals},
		LongTermRisks:           []string{"Acid rain", "Mercury deposition in water bodies", "Fly ash contamination"},
		Persistence:             models.PersistenceMediumLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Respiratory and cardiovascular disease from fine particulates and sulfur oxides",
		PreventiveFocus:         "Install flue-gas desulfurization and electrostatic precipitators",
		VulnerabilityMultiplier: 1.3,
	},
	"Chemical / Petrochemical": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantVOCs, models.PollutantNOx, models.PollutantSO2, models.PollutantPFAS, models.PollutantHeavyMetals},
		LongTermRisks:           []string{"Persistent organic pollutant accumulation", "Groundwater contamination", "Carcinogen exposure"},
		Persistence:             models.PersistenceVeryLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Carcinogenic and endocrine-disrupting chemical exposure",
		PreventiveFocus:         "Leak detection and repair programme with closed-loop solvent recovery",
		VulnerabilityMultiplier: 1.5,
	},
	"Cement Manufacturing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM10, models.PollutantPM25, models.PollutantNOx, models.PollutantSO2},
		LongTermRisks:           []string{"Silicosis", "Dust deposition on crops", "Alkaline soil changes"},
		Persistence:             models.PersistenceMedium,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwaySoil},
		HealthFocus:             "Chronic lung disease from coarse and fine dust",
		PreventiveFocus:         "Enclose clinker handling and deploy baghouse filters",
		VulnerabilityMultiplier: 1.2,
	},
	"Steel & Metal Processing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM25, models.PollutantPM10, models.PollutantCO, models.PollutantHeavyMetals, models.PollutantSO2},
		LongTermRisks:           []string{"Heavy metal soil accumulation", "Slag leachate", "Neurological effects"},
		Persistence:             models.PersistenceLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Metal fume exposure and particulate inhalation",
		PreventiveFocus:         "Capture furnace fumes and stabilize slag before disposal",
		VulnerabilityMultiplier: 1.3,
	},
	"Textile & Dyeing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantDyes, models.PollutantVOCs, models.PollutantHeavyMetals},
		LongTermRisks:           []string{"River discoloration and eutrophication", "Azo dye toxicity", "Sludge contamination"},
		Persistence:             models.PersistenceLong,
		Pathways:                []models.Pathway{models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Skin and water-borne exposure to dye residues",
		PreventiveFocus:         "Zero-liquid-discharge effluent treatment",
		VulnerabilityMultiplier: 1.2,
	},
	"Pharmaceutical Manufacturing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantVOCs, models.PollutantPM25},
		LongTermRisks:           []string{"Antimicrobial resistance from API residues", "Solvent contamination"},
		Persistence:             models.PersistenceMediumLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater},
		HealthFocus:             "Active pharmaceutical ingredient residues in water",
		PreventiveFocus:         "Advanced oxidation treatment of process effluent",
		VulnerabilityMultiplier: 1.2,
	},
	"Mining & Quarrying": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM10, models.PollutantPM25, models.PollutantHeavyMetals},
		LongTermRisks:           []string{"Acid mine drainage", "Land degradation", "Tailings failure"},
		Persistence:             models.PersistenceLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Dust inhalation and metal exposure in nearby communities",
		PreventiveFocus:         "Dust suppression on haul roads and lined tailings storage",
		VulnerabilityMultiplier: 1.3,
	},
	"Oil Refinery": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantSO2, models.PollutantVOCs, models.PollutantNOx, models.PollutantPM25, models.PollutantCO},
		LongTermRisks:           []string{"Benzene exposure", "Hydrocarbon soil contamination", "Flaring emissions"},
		Persistence:             models.PersistenceLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Benzene and sulfur dioxide exposure",
		PreventiveFocus:         "Flare gas recovery and sulfur recovery unit upgrades",
		VulnerabilityMultiplier: 1.4,
	},
	"Fertilizer Plant": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantAmmonia, models.PollutantNOx, models.PollutantPM25},
		LongTermRisks:           []string{"Nitrate leaching into groundwater", "Eutrophication", "Soil acidification"},
		Persistence:             models.PersistenceMediumLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Ammonia irritation and nitrate-contaminated drinking water",
		PreventiveFocus:         "Ammonia scrubbers and controlled nutrient runoff",
		VulnerabilityMultiplier: 1.2,
	},
	"Paper & Pulp Mill": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantSO2, models.PollutantPM10, models.PollutantDioxins},
		LongTermRisks:           []string{"Organochlorine discharge", "Oxygen depletion in rivers"},
		Persistence:             models.PersistenceLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater},
		HealthFocus:             "Reduced sulfur compounds and dioxin exposure",
		PreventiveFocus:         "Elemental-chlorine-free bleaching and effluent treatment",
		VulnerabilityMultiplier: 1.1,
	},
	"Leather Tanning": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantHeavyMetals, models.PollutantVOCs},
		LongTermRisks:           []string{"Chromium contamination of groundwater", "Sludge accumulation"},
		Persistence:             models.PersistenceVeryLong,
		Pathways:                []models.Pathway{models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Hexavalent chromium exposure",
		PreventiveFocus:         "Chrome recovery and common effluent treatment",
		VulnerabilityMultiplier: 1.4,
	},
	"Automobile Manufacturing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantVOCs, models.PollutantPM25, models.PollutantNOx},
		LongTermRisks:           []string{"Paint shop solvent emissions", "Ground-level ozone formation"},
		Persistence:             models.PersistenceMedium,
		Pathways:                []models.Pathway{models.PathwayAir},
		HealthFocus:             "Solvent and ozone-precursor exposure",
		PreventiveFocus:         "Water-based paints and thermal oxidizers on paint lines",
		VulnerabilityMultiplier: 1.0,
	},
	"Electronics & Semiconductor": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPFAS, models.PollutantVOCs, models.PollutantHeavyMetals},
		LongTermRisks:           []string{"PFAS groundwater plumes", "E-waste heavy metal leaching"},
		Persistence:             models.PersistenceVeryLong,
		Pathways:                []models.Pathway{models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Forever-chemical and solvent exposure",
		PreventiveFocus:         "PFAS substitution and point-of-use abatement",
		VulnerabilityMultiplier: 1.3,
	},
	"Food Processing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantAmmonia, models.PollutantMethane},
		LongTermRisks:           []string{"Organic load in waterways", "Odour nuisance"},
		Persistence:             models.PersistenceShort,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater},
		HealthFocus:             "Odour and water-borne pathogen exposure",
		PreventiveFocus:         "Anaerobic digestion of organic waste",
		VulnerabilityMultiplier: 0.9,
	},
	"Waste Incineration": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantDioxins, models.PollutantPM25, models.PollutantHeavyMetals, models.PollutantNOx, models.PollutantCO},
		LongTermRisks:           []string{"Dioxin bioaccumulation in food chain", "Toxic fly ash"},
		Persistence:             models.PersistenceVeryLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwaySoil},
		HealthFocus:             "Dioxin and fine particulate exposure",
		PreventiveFocus:         "High-temperature combustion control and activated carbon injection",
		VulnerabilityMultiplier: 1.4,
	},
	"Construction & Infrastructure": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM10, models.PollutantPM25, models.PollutantNOx},
		LongTermRisks:           []string{"Dust-related respiratory illness", "Sediment runoff"},
		Persistence:             models.PersistenceShort,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwaySoil},
		HealthFocus:             "Construction dust and diesel exhaust",
		PreventiveFocus:         "Site wetting, wind barriers and low-emission machinery",
		VulnerabilityMultiplier: 1.1,
	},
	"Agriculture & Agro-Processing": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPesticides, models.PollutantAmmonia, models.PollutantPM10},
		LongTermRisks:           []string{"Pesticide residues in soil", "Nitrate runoff", "Stubble burning smoke"},
		Persistence:             models.PersistenceMediumLong,
		Pathways:                []models.Pathway{models.PathwayAir, models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Pesticide exposure and seasonal smoke",
		PreventiveFocus:         "Integrated pest management and residue mulching instead of burning",
		VulnerabilityMultiplier: 1.1,
	},
	"Nuclear Power Plant": {
		PrimaryPollutants:       []models.Pollutant{models.PollutantRadioactive},
		LongTermRisks:           []string{"Radioactive waste storage", "Thermal discharge to water bodies"},
		Persistence:             models.PersistenceVeryLong,
		Pathways:                []models.Pathway{models.PathwayWater, models.PathwaySoil},
		HealthFocus:             "Low-probability radiation exposure",
		PreventiveFocus:         "Continuous radiation monitoring at site boundary",
		VulnerabilityMultiplier: 1.2,
	},
	GenericName: {
		PrimaryPollutants:       []models.Pollutant{models.PollutantPM25, models.PollutantPM10, models.PollutantNOx},
		LongTermRisks:           []string{"Cumulative air quality degradation"},
		Persistence:             models.PersistenceMedium,
		Pathways:                []models.Pathway{models.PathwayAir},
		HealthFocus:             "General respiratory exposure",
		PreventiveFocus:         "Routine emission monitoring and dust control",
		VulnerabilityMultiplier: 1.0,
	},
}

// Lookup returns the profile registered under name, or the Generic Industrial
// Zone profile when name is unknown. The result is a copy and safe to modify.
func Lookup(name string) models.IndustryProfile {
	p, ok := profiles[name]
	if !ok {
		name = GenericName
		p = profiles[GenericName]
	}
	p.Name = name
	return p.Clone()
}

// Known reports whether name is a canonical industry name.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names returns every canonical industry name in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
