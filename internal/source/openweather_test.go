package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type owFixture struct {
	server    *httptest.Server
	geoCalls    atomic.Int32
	failPaths   map[string]int
	weatherBody string
}

func newOWFixture(t *testing.T) *owFixture {
	t.Helper()
	f := &owFixture{failPaths: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		f.geoCalls.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		if r.URL.Query().Get("q") == "Atlantis" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"name":"Delhi","lat":28.6139,"lon":77.209}]`)
	})
	mux.HandleFunc("/data/2.5/air_pollution", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "28.6139", r.URL.Query().Get("lat"))
		fmt.Fprintf(w, `{"list":[{"dt":%d,"main":{"aqi":5},"components":{"co":1500.2,"no2":60.1,"o3":40,"so2":20,"pm2_5":153,"pm10":240,"nh3":12}}]}`, owNow.Unix())
	})
	mux.HandleFunc("/data/2.5/air_pollution/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"list":[
			{"dt":%d,"components":{"pm2_5":100}},
			{"dt":%d,"components":{"pm2_5":30}},
			{"dt":%d,"components":{"pm2_5":80}}
		]}`, owNow.Add(time.Hour).Unix(), owNow.Add(23*time.Hour).Unix(), owNow.Add(48*time.Hour).Unix())
	})
	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		if code := f.failPaths[r.URL.Path]; code != 0 {
			w.WriteHeader(code)
			return
		}
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		if f.weatherBody != "" {
			fmt.Fprint(w, f.weatherBody)
			return
		}
		fmt.Fprint(w, `{"weather":[{"description":"haze"}],"main":{"temp":31.5,"humidity":40,"pressure":1009},"wind":{"speed":5},"visibility":2500}`)
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"list":[
			{"dt":%d,"main":{"temp":30},"wind":{"speed":4.5}},
			{"dt":%d,"main":{"temp":28,"humidity":55,"pressure":1011},"wind":{"speed":2},"visibility":4000,"weather":[{"description":"mist"}]}
		]}`, owNow.Add(3*time.Hour).Unix(), owNow.Add(24*time.Hour).Unix())
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *owFixture) client() *OpenWeather {
	return NewOpenWeather(newTestUpstream(), f.server.URL+"/", "test-key", clockwork.NewFakeClockAt(owNow))
}

func TestOpenWeather_Pollutants(t *testing.T) {
	f := newOWFixture(t)
	ow := f.client()

	r, err := ow.Pollutants(context.Background(), "Delhi")
	require.NoError(t, err)

	assert.False(t, r.IsDemo)
	assert.Equal(t, "openweather", r.Source)
	assert.Equal(t, owNow, r.ObservedAt)
	assert.Len(t, r.Values, 6, "nh3 is not a scored pollutant")
	assert.Equal(t, 153.0, r.Value(models.PM25))
	assert.Equal(t, 1500.2, r.Value(models.CO))
	assert.Equal(t, "µg/m³", r.Values[models.NO2].Unit)
	assert.Equal(t, 203, r.AQI, "EPA AQI from PM2.5, not the provider's 1-5 index")
}

func TestOpenWeather_GeocodeCached(t *testing.T) {
	f := newOWFixture(t)
	ow := f.client()

	_, err := ow.Pollutants(context.Background(), "Delhi")
	require.NoError(t, err)
	_, err = ow.ForecastPollutants(context.Background(), " delhi ")
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.geoCalls.Load())
}

func TestOpenWeather_UnknownCity(t *testing.T) {
	f := newOWFixture(t)
	_, err := f.client().Pollutants(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestOpenWeather_ForecastPollutantsPicksClosestToHorizon(t *testing.T) {
	f := newOWFixture(t)

	r, err := f.client().ForecastPollutants(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.Value(models.PM25))
	assert.Equal(t, owNow.Add(23*time.Hour), r.ObservedAt)
}

func TestOpenWeather_Weather(t *testing.T) {
	f := newOWFixture(t)

	w, err := f.client().Weather(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, 31.5, w.Temperature)
	assert.Equal(t, 40.0, w.Humidity)
	assert.InDelta(t, 18.0, w.WindSpeed, 1e-9, "m/s converted to km/h")
	assert.Equal(t, 2.5, w.Visibility, "metres converted to km")
	assert.Equal(t, "haze", w.Description)
	assert.False(t, w.IsDemo)
}

func TestOpenWeather_WeatherOmittedFieldsGetDefaults(t *testing.T) {
	f := newOWFixture(t)
	f.weatherBody = `{"main":{"humidity":35},"wind":{}}`

	w, err := f.client().Weather(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTemperature, w.Temperature)
	assert.Equal(t, 35.0, w.Humidity)
	assert.Equal(t, models.DefaultWindSpeed, w.WindSpeed)
	assert.Equal(t, models.DefaultVisibility, w.Visibility)
	assert.Equal(t, models.DefaultPressure, w.Pressure)

	_, err = json.Marshal(w)
	assert.NoError(t, err, "no NaN may leave the data source")
}

func TestOpenWeather_WeatherZeroReadingsKept(t *testing.T) {
	f := newOWFixture(t)
	f.weatherBody = `{"main":{"temp":0,"humidity":0,"pressure":1020},"wind":{"speed":0},"visibility":0}`

	w, err := f.client().Weather(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Zero(t, w.Temperature)
	assert.Zero(t, w.Humidity)
	assert.Zero(t, w.WindSpeed, "calm air is a reading, not a missing field")
	assert.Zero(t, w.Visibility)
	assert.Equal(t, 1020.0, w.Pressure)
}

func TestOpenWeather_WeatherTrend(t *testing.T) {
	f := newOWFixture(t)

	trend, err := f.client().WeatherTrend(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, "haze", trend.Current.Description)
	assert.Equal(t, "mist", trend.Outlook.Description)
	assert.InDelta(t, 7.2, trend.Outlook.WindSpeed, 1e-9)
	assert.Equal(t, models.WindDecreasing, trend.Wind)
}

func TestOpenWeather_WeatherError(t *testing.T) {
	f := newOWFixture(t)
	f.failPaths["/data/2.5/weather"] = http.StatusUnauthorized

	_, err := f.client().Weather(context.Background(), "Delhi")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)

	_, err = f.client().WeatherTrend(context.Background(), "Delhi")
	assert.Error(t, err)
}
