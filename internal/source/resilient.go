// Package source resolves pollutant and weather data for a city. Callers
// always get a value: live provider data, the last good live value, or demo
// data, in that order.
package source

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/cache"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

const (
	StrategyLive          = "live"
	StrategyLastKnownGood = "last-known-good"
	StrategyDemo          = "demo"
)

var errNoLastKnownGood = errors.New("no last known good value")

// EnvironmentDataSource never fails: every method resolves to some reading.
type EnvironmentDataSource interface {
	GetPollutants(ctx context.Context, city string) models.PollutantReading
	GetWeather(ctx context.Context, city string) models.WeatherSnapshot
	GetForecastPollutants(ctx context.Context, city string) models.PollutantReading
	GetWeatherTrend(ctx context.Context, city string) models.WeatherTrend
}

// Provider is a live upstream that may fail.
type Provider interface {
	Pollutants(ctx context.Context, city string) (models.PollutantReading, error)
	Weather(ctx context.Context, city string) (models.WeatherSnapshot, error)
	ForecastPollutants(ctx context.Context, city string) (models.PollutantReading, error)
	WeatherTrend(ctx context.Context, city string) (models.WeatherTrend, error)
}

type ResilientConfig struct {
	LiveTimeout  time.Duration
	CacheTimeout time.Duration
	LastGoodTTL  time.Duration
}

type Resilient struct {
	live    Provider
	store   cache.Store
	cfg     ResilientConfig
	metrics *metrics.Metrics
}

// NewResilient composes the chain. live and store may be nil, in which case
// the corresponding strategies are skipped.
func NewResilient(live Provider, store cache.Store, cfg ResilientConfig, m *metrics.Metrics) *Resilient {
	if cfg.LastGoodTTL <= 0 {
		cfg.LastGoodTTL = 24 * time.Hour
	}
	return &Resilient{live: live, store: store, cfg: cfg, metrics: m}
}

func (r *Resilient) GetPollutants(ctx context.Context, city string) models.PollutantReading {
	return resolve(ctx, r, "pollutants", city, liveFn(r.live, Provider.Pollutants), DemoPollutants)
}

func (r *Resilient) GetWeather(ctx context.Context, city string) models.WeatherSnapshot {
	return resolve(ctx, r, "weather", city, liveFn(r.live, Provider.Weather), DemoWeather)
}

func (r *Resilient) GetForecastPollutants(ctx context.Context, city string) models.PollutantReading {
	return resolve(ctx, r, "forecast-pollutants", city, liveFn(r.live, Provider.ForecastPollutants), DemoPollutants)
}

func (r *Resilient) GetWeatherTrend(ctx context.Context, city string) models.WeatherTrend {
	return resolve(ctx, r, "weather-trend", city, liveFn(r.live, Provider.WeatherTrend), DemoWeatherTrend)
}

func liveFn[T any](p Provider, method func(Provider, context.Context, string) (T, error)) func(context.Context, string) (T, error) {
	if p == nil {
		return nil
	}
	return func(ctx context.Context, city string) (T, error) {
		return method(p, ctx, city)
	}
}

func resolve[T any](ctx context.Context, r *Resilient, kind, city string, live func(context.Context, string) (T, error), demo func(string) T) T {
	key := "lkg:" + kind + ":" + strings.ToLower(strings.TrimSpace(city))

	var strategies []Strategy[T]
	if live != nil {
		strategies = append(strategies, Strategy[T]{
			Name:    StrategyLive,
			Timeout: r.cfg.LiveTimeout,
			Fetch: func(ctx context.Context) (T, error) {
				v, err := live(ctx, city)
				if err != nil {
					return v, err
				}
				if r.store != nil {
					if err := r.store.Set(ctx, key, v, r.cfg.LastGoodTTL); err != nil {
						slog.Warn("store last known good failed", "source", kind, "city", city, "error", err)
					}
				}
				return v, nil
			},
		})
	}
	if live != nil && r.store != nil {
		strategies = append(strategies, Strategy[T]{
			Name:    StrategyLastKnownGood,
			Timeout: r.cfg.CacheTimeout,
			Fetch: func(ctx context.Context) (T, error) {
				var v T
				ok, err := r.store.Get(ctx, key, &v)
				if err != nil {
					return v, err
				}
				if !ok {
					return v, errNoLastKnownGood
				}
				return v, nil
			},
		})
	}
	strategies = append(strategies, Strategy[T]{
		Name:  StrategyDemo,
		Fetch: func(context.Context) (T, error) { return demo(city), nil },
	})

	for i := range strategies {
		s := strategies[i]
		strategies[i].Fetch = func(ctx context.Context) (T, error) {
			v, err := s.Fetch(ctx)
			if err != nil {
				r.metrics.UpstreamFetch(kind, s.Name, "error")
			}
			return v, err
		}
	}

	v, strategy, err := FirstSuccess(ctx, kind, strategies...)
	if err != nil {
		slog.Error("data source chain exhausted", "source", kind, "city", city, "error", err)
		return demo(city)
	}
	r.metrics.UpstreamFetch(kind, strategy, "success")
	return v
}
