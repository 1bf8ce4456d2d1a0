package source

import (
	"testing"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDemoPollutants(t *testing.T) {
	for _, city := range []string{"Delhi", "Mumbai", "Beijing", "London", "New York", "Springfield", ""} {
		r := DemoPollutants(city)
		assert.True(t, r.IsDemo, city)
		assert.Equal(t, "demo", r.Source, city)
		assert.Positive(t, r.AQI, city)
		for _, key := range models.PollutantKeys() {
			assert.Contains(t, r.Values, key, city)
		}
	}
}

func TestDemo_CityMatchIgnoresCaseAndSpace(t *testing.T) {
	assert.Equal(t, DemoPollutants("Delhi"), DemoPollutants("  dElHi "))
	assert.Equal(t, DemoWeather("New York"), DemoWeather("new york"))
}

func TestDemo_UnknownCityUsesGeneric(t *testing.T) {
	assert.Equal(t, DemoPollutants("Springfield"), DemoPollutants("Gotham"))
	assert.NotEqual(t, DemoPollutants("Delhi").AQI, DemoPollutants("Gotham").AQI)
}

func TestDemoWeatherTrend(t *testing.T) {
	trend := DemoWeatherTrend("London")
	assert.Equal(t, models.WindStable, trend.Wind)
	assert.True(t, trend.Current.IsDemo)
	assert.Equal(t, trend.Current, trend.Outlook)
}

func TestDemoReadingsDoNotShareMaps(t *testing.T) {
	a := DemoPollutants("Delhi")
	a.Values[models.PM25] = models.Measurement{Value: -1}
	assert.Equal(t, 153.0, DemoPollutants("Delhi").Value(models.PM25))
}
