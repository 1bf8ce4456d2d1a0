package source

import (
	"testing"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/stretchr/testify/assert"
)

func values(pm25, pm10 float64) map[models.PollutantKey]models.Measurement {
	return map[models.PollutantKey]models.Measurement{
		models.PM25: {Value: pm25},
		models.PM10: {Value: pm10},
	}
}

func TestComputeAQI_PM25Bands(t *testing.T) {
	tests := []struct {
		pm25 float64
		want int
	}{
		{0, 0},
		{12.0, 50},
		{12.1, 51},
		{35.4, 100},
		{35.5, 101},
		{55.5, 151},
		{153, 203},
		{500.4, 500},
		{900, 500},
	}
	for _, tt := range tests {
		got := ComputeAQI(map[models.PollutantKey]models.Measurement{models.PM25: {Value: tt.pm25}})
		assert.Equal(t, tt.want, got, "pm25=%v", tt.pm25)
	}
}

func TestComputeAQI_PM10Bands(t *testing.T) {
	tests := []struct {
		pm10 float64
		want int
	}{
		{54, 50},
		{55, 51},
		{154, 100},
		{154.9, 100},
		{255, 151},
		{700, 500},
	}
	for _, tt := range tests {
		got := ComputeAQI(map[models.PollutantKey]models.Measurement{models.PM10: {Value: tt.pm10}})
		assert.Equal(t, tt.want, got, "pm10=%v", tt.pm10)
	}
}

func TestComputeAQI_TakesMaxSubIndex(t *testing.T) {
	assert.Equal(t, 100, ComputeAQI(values(10, 154)))
	assert.Equal(t, 101, ComputeAQI(values(35.5, 20)))
}

func TestComputeAQI_Unknown(t *testing.T) {
	assert.Equal(t, 0, ComputeAQI(nil))
	assert.Equal(t, 0, ComputeAQI(map[models.PollutantKey]models.Measurement{models.NO2: {Value: 300}}))
	assert.Equal(t, 0, ComputeAQI(values(-5, -1)))
}
