package source

import (
	"strings"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

const demoSource = "demo"

type demoCity struct {
	pm25, pm10, no2, o3, so2, co float64
	weather                      models.WeatherSnapshot
}

// Fixed readings served when no live or cached data is available. Keys are
// lower-cased city names.
var demoCities = map[string]demoCity{
	"delhi": {
		pm25: 153, pm10: 245, no2: 58, o3: 42, so2: 18, co: 1450,
		weather: models.WeatherSnapshot{Temperature: 31, Humidity: 38, WindSpeed: 6, Visibility: 3, Pressure: 1008, Description: "haze"},
	},
	"mumbai": {
		pm25: 68, pm10: 112, no2: 41, o3: 36, so2: 12, co: 890,
		weather: models.WeatherSnapshot{Temperature: 29, Humidity: 74, WindSpeed: 14, Visibility: 6, Pressure: 1010, Description: "smoke"},
	},
	"beijing": {
		pm25: 95, pm10: 140, no2: 52, o3: 60, so2: 22, co: 1200,
		weather: models.WeatherSnapshot{Temperature: 18, Humidity: 45, WindSpeed: 9, Visibility: 5, Pressure: 1015, Description: "mist"},
	},
	"london": {
		pm25: 11, pm10: 19, no2: 34, o3: 48, so2: 3, co: 310,
		weather: models.WeatherSnapshot{Temperature: 12, Humidity: 78, WindSpeed: 18, Visibility: 10, Pressure: 1016, Description: "overcast clouds"},
	},
	"new york": {
		pm25: 9, pm10: 21, no2: 28, o3: 55, so2: 4, co: 280,
		weather: models.WeatherSnapshot{Temperature: 16, Humidity: 60, WindSpeed: 16, Visibility: 10, Pressure: 1018, Description: "clear sky"},
	},
}

var genericDemo = demoCity{
	pm25: 35, pm10: 60, no2: 30, o3: 50, so2: 8, co: 500,
	weather: models.WeatherSnapshot{Temperature: 22, Humidity: 55, WindSpeed: 10, Visibility: 8, Pressure: 1013, Description: "scattered clouds"},
}

func lookupDemo(city string) demoCity {
	if d, ok := demoCities[strings.ToLower(strings.TrimSpace(city))]; ok {
		return d
	}
	return genericDemo
}

// DemoPollutants returns the fixed reading for city, tagged as demo data.
func DemoPollutants(city string) models.PollutantReading {
	d := lookupDemo(city)
	values := map[models.PollutantKey]models.Measurement{
		models.PM25: {Value: d.pm25, Unit: concentrationUnit},
		models.PM10: {Value: d.pm10, Unit: concentrationUnit},
		models.NO2:  {Value: d.no2, Unit: concentrationUnit},
		models.O3:   {Value: d.o3, Unit: concentrationUnit},
		models.SO2:  {Value: d.so2, Unit: concentrationUnit},
		models.CO:   {Value: d.co, Unit: concentrationUnit},
	}
	return models.PollutantReading{
		Values: values,
		AQI:    ComputeAQI(values),
		IsDemo: true,
		Source: demoSource,
	}
}

func DemoWeather(city string) models.WeatherSnapshot {
	w := lookupDemo(city).weather
	w.IsDemo = true
	w.Source = demoSource
	return w
}

// DemoWeatherTrend assumes persistence: the outlook equals current demo weather.
func DemoWeatherTrend(city string) models.WeatherTrend {
	w := DemoWeather(city)
	return models.WeatherTrend{Current: w, Outlook: w, Wind: models.WindStable}
}
