package source

import (
	"math"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

type breakpoint struct {
	cLo, cHi float64
	iLo, iHi int
}

// US EPA breakpoints. PM2.5 is truncated to 0.1 µg/m³ and PM10 to 1 µg/m³
// before lookup.
var (
	pm25Breakpoints = []breakpoint{
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	}
	pm10Breakpoints = []breakpoint{
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	}
)

const maxAQI = 500

// ComputeAQI returns the US EPA AQI for a reading as the larger of the PM2.5
// and PM10 sub-indices, or 0 when neither was reported.
func ComputeAQI(values map[models.PollutantKey]models.Measurement) int {
	aqi := 0
	if m, ok := values[models.PM25]; ok {
		aqi = max(aqi, subIndex(math.Floor(m.Value*10+1e-9)/10, pm25Breakpoints))
	}
	if m, ok := values[models.PM10]; ok {
		aqi = max(aqi, subIndex(math.Floor(m.Value+1e-9), pm10Breakpoints))
	}
	return aqi
}

func subIndex(c float64, table []breakpoint) int {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	for _, b := range table {
		if c <= b.cHi {
			c = max(c, b.cLo)
			v := float64(b.iHi-b.iLo)/(b.cHi-b.cLo)*(c-b.cLo) + float64(b.iLo)
			return int(math.Round(v))
		}
	}
	return maxAQI
}
