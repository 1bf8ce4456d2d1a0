package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/jonboulle/clockwork"
)

const (
	openWeatherSource = "openweather"
	concentrationUnit = "µg/m³"
	forecastHorizon   = 24 * time.Hour
)

var ErrCityNotFound = errors.New("city not found")

// OpenWeather fetches live observations and the provider's own short-range
// forecasts from the OpenWeather REST API.
type OpenWeather struct {
	http    *UpstreamClient
	baseURL string
	apiKey  string
	clock   clockwork.Clock

	mu     sync.RWMutex
	coords map[string]coordinates
}

type coordinates struct {
	Lat float64
	Lon float64
}

func NewOpenWeather(client *UpstreamClient, baseURL, apiKey string, clock clockwork.Clock) *OpenWeather {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OpenWeather{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		clock:   clock,
		coords:  make(map[string]coordinates),
	}
}

type owGeoResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type owAirResponse struct {
	List []owAirEntry `json:"list"`
}

type owAirEntry struct {
	Dt         int64              `json:"dt"` // unix
	Components map[string]float64 `json:"components"`
}

type owWeatherResponse struct {
	Dt      int64 `json:"dt"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"` // m/s
	} `json:"wind"`
	Visibility *float64 `json:"visibility"` // metres
}

type owForecastResponse struct {
	List []owWeatherResponse `json:"list"`
}

// OpenWeather component names for the pollutants the scorer understands.
var owComponents = map[string]models.PollutantKey{
	"pm2_5": models.PM25,
	"pm10":  models.PM10,
	"no2":   models.NO2,
	"o3":    models.O3,
	"so2":   models.SO2,
	"co":    models.CO,
}

func (o *OpenWeather) endpoint(path string, q url.Values) string {
	q.Set("appid", o.apiKey)
	return o.baseURL + path + "?" + q.Encode()
}

func (o *OpenWeather) locate(ctx context.Context, city string) (coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	o.mu.RLock()
	c, ok := o.coords[key]
	o.mu.RUnlock()
	if ok {
		return c, nil
	}

	var results []owGeoResult
	q := url.Values{"q": {city}, "limit": {"1"}}
	if err := o.http.GetJSON(ctx, o.endpoint("/geo/1.0/direct", q), &results); err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	if len(results) == 0 {
		return coordinates{}, fmt.Errorf("geocode %q: %w", city, ErrCityNotFound)
	}

	c = coordinates{Lat: results[0].Lat, Lon: results[0].Lon}
	o.mu.Lock()
	o.coords[key] = c
	o.mu.Unlock()
	return c, nil
}

func latLon(c coordinates) url.Values {
	return url.Values{
		"lat": {fmt.Sprintf("%.4f", c.Lat)},
		"lon": {fmt.Sprintf("%.4f", c.Lon)},
	}
}

func (o *OpenWeather) Pollutants(ctx context.Context, city string) (models.PollutantReading, error) {
	c, err := o.locate(ctx, city)
	if err != nil {
		return models.PollutantReading{}, err
	}

	var data owAirResponse
	if err := o.http.GetJSON(ctx, o.endpoint("/data/2.5/air_pollution", latLon(c)), &data); err != nil {
		return models.PollutantReading{}, fmt.Errorf("air pollution for %q: %w", city, err)
	}
	if len(data.List) == 0 {
		return models.PollutantReading{}, fmt.Errorf("air pollution for %q: empty response", city)
	}
	return toReading(data.List[0]), nil
}

// ForecastPollutants returns the provider's forecast entry closest to 24 hours ahead.
func (o *OpenWeather) ForecastPollutants(ctx context.Context, city string) (models.PollutantReading, error) {
	c, err := o.locate(ctx, city)
	if err != nil {
		return models.PollutantReading{}, err
	}

	var data owAirResponse
	if err := o.http.GetJSON(ctx, o.endpoint("/data/2.5/air_pollution/forecast", latLon(c)), &data); err != nil {
		return models.PollutantReading{}, fmt.Errorf("air pollution forecast for %q: %w", city, err)
	}
	if len(data.List) == 0 {
		return models.PollutantReading{}, fmt.Errorf("air pollution forecast for %q: empty response", city)
	}

	target := o.clock.Now().Add(forecastHorizon)
	best := closest(data.List, target, func(e owAirEntry) int64 { return e.Dt })
	return toReading(best), nil
}

func (o *OpenWeather) Weather(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	var data owWeatherResponse
	q := url.Values{"q": {city}, "units": {"metric"}}
	if err := o.http.GetJSON(ctx, o.endpoint("/data/2.5/weather", q), &data); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("weather for %q: %w", city, err)
	}
	return toSnapshot(data), nil
}

// WeatherTrend pairs current weather with the 3-hourly forecast slot closest
// to 24 hours ahead.
func (o *OpenWeather) WeatherTrend(ctx context.Context, city string) (models.WeatherTrend, error) {
	current, err := o.Weather(ctx, city)
	if err != nil {
		return models.WeatherTrend{}, err
	}

	var data owForecastResponse
	q := url.Values{"q": {city}, "units": {"metric"}}
	if err := o.http.GetJSON(ctx, o.endpoint("/data/2.5/forecast", q), &data); err != nil {
		return models.WeatherTrend{}, fmt.Errorf("weather forecast for %q: %w", city, err)
	}
	if len(data.List) == 0 {
		return models.WeatherTrend{}, fmt.Errorf("weather forecast for %q: empty response", city)
	}

	target := o.clock.Now().Add(forecastHorizon)
	outlook := toSnapshot(closest(data.List, target, func(e owWeatherResponse) int64 { return e.Dt }))
	return models.WeatherTrend{
		Current: current,
		Outlook: outlook,
		Wind:    models.ClassifyWindTrend(current.WindSpeed, outlook.WindSpeed),
	}, nil
}

func closest[T any](entries []T, target time.Time, unix func(T) int64) T {
	best := entries[0]
	bestDiff := absDuration(time.Unix(unix(best), 0).Sub(target))
	for _, e := range entries[1:] {
		if d := absDuration(time.Unix(unix(e), 0).Sub(target)); d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func toReading(e owAirEntry) models.PollutantReading {
	r := models.PollutantReading{
		Values:     make(map[models.PollutantKey]models.Measurement, len(owComponents)),
		Source:     openWeatherSource,
		ObservedAt: time.Unix(e.Dt, 0).UTC(),
	}
	for name, key := range owComponents {
		if v, ok := e.Components[name]; ok {
			r.Values[key] = models.Measurement{Value: v, Unit: concentrationUnit}
		}
	}
	r.AQI = ComputeAQI(r.Values)
	return r
}

// toSnapshot maps fields the provider omitted to NaN so WithDefaults can tell
// them apart from real zero readings.
func toSnapshot(w owWeatherResponse) models.WeatherSnapshot {
	s := models.WeatherSnapshot{
		Temperature: scaled(w.Main.Temp, 1),
		Humidity:    scaled(w.Main.Humidity, 1),
		WindSpeed:   scaled(w.Wind.Speed, 3.6),
		Visibility:  scaled(w.Visibility, 0.001),
		Pressure:    scaled(w.Main.Pressure, 1),
		Source:      openWeatherSource,
	}
	if len(w.Weather) > 0 {
		s.Description = w.Weather[0].Description
	}
	return s.WithDefaults()
}

func scaled(v *float64, factor float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v * factor
}
