// Package orchestrator composes data sources, scoring and narrative
// enrichment behind a shared cache.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/cache"
	"github.com/Tasneem-netcode/TechSprint-App/internal/industry"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/scoring"
	"github.com/Tasneem-netcode/TechSprint-App/internal/source"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultCity = "Delhi"

// Narrator is the enrichment surface the orchestrator needs.
type Narrator interface {
	// The Interpret calls report false when they fell back to template text.
	InterpretConditions(ctx context.Context, a models.RiskAssessment, w models.WeatherSnapshot, industry string) (string, bool)
	InterpretForecast(ctx context.Context, f models.ForecastAssessment, city, industry string) (models.ForecastNarrative, bool)
	ExplainAlert(ctx context.Context, in models.AlertInput) string
}

// Config holds cache lifetimes. FallbackNarrativeTTL applies to template
// narratives so the model is retried soon after it recovers. ComputeTimeout
// bounds one shared computation; zero means no bound.
type Config struct {
	PayloadTTL           time.Duration
	NarrativeTTL         time.Duration
	ForecastTTL          time.Duration
	ForecastNarrativeTTL time.Duration
	FallbackNarrativeTTL time.Duration
	ComputeTimeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		PayloadTTL:           3 * time.Minute,
		NarrativeTTL:         10 * time.Minute,
		ForecastTTL:          5 * time.Minute,
		ForecastNarrativeTTL: 20 * time.Minute,
		FallbackNarrativeTTL: time.Minute,
		ComputeTimeout:       30 * time.Second,
	}
}

type Orchestrator struct {
	source   source.EnvironmentDataSource
	narrator Narrator
	store    cache.Store
	cfg      Config
	metrics  *metrics.Metrics
	clock    clockwork.Clock
	flights  singleflight.Group
}

type Option func(*Orchestrator)

func WithClock(c clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func New(src source.EnvironmentDataSource, narrator Narrator, store cache.Store, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:   src,
		narrator: narrator,
		store:    store,
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Normalize applies the request defaults for missing city or industry.
func Normalize(city, industryName string) (string, string) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}
	industryName = strings.TrimSpace(industryName)
	if industryName == "" {
		industryName = industry.GenericName
	}
	return city, industryName
}

// Current returns the current-conditions report, served from cache when fresh.
// The returned report is a copy the caller owns.
func (o *Orchestrator) Current(ctx context.Context, city, industryName string) (models.EnvironmentReport, error) {
	city, industryName = Normalize(city, industryName)
	key := "env:" + city + ":" + industryName

	var report models.EnvironmentReport
	hit, err := o.lookup(ctx, "payload", key, &report)
	if err != nil {
		return models.EnvironmentReport{}, err
	}
	if hit {
		return report.Clone(), nil
	}

	v, err := o.share(ctx, key, func(fctx context.Context) (any, error) {
		return o.computeCurrent(fctx, city, industryName, key)
	})
	if err != nil {
		return models.EnvironmentReport{}, err
	}
	return v.(models.EnvironmentReport).Clone(), nil
}

// share runs compute once per key for all concurrent callers. The computation
// is detached from the caller's cancellation so that one abandoned request
// cannot degrade the result other callers get. A caller whose ctx ends first
// returns ctx.Err() while the computation carries on.
func (o *Orchestrator) share(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error) {
	ch := o.flights.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if o.cfg.ComputeTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, o.cfg.ComputeTimeout)
			defer cancel()
		}
		return compute(fctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (o *Orchestrator) computeCurrent(ctx context.Context, city, industryName, key string) (models.EnvironmentReport, error) {
	profile := industry.Lookup(industryName)

	var (
		pollutants models.PollutantReading
		weather    models.WeatherSnapshot
		g          errgroup.Group
	)
	g.Go(func() error {
		pollutants = o.source.GetPollutants(ctx, city)
		return nil
	})
	g.Go(func() error {
		weather = o.source.GetWeather(ctx, city)
		return nil
	})
	_ = g.Wait() // data source legs never fail

	assessment := scoring.ScoreConditions(pollutants, weather, profile)

	aiKey := fmt.Sprintf("ai:env:%s:%s:%d", city, industryName, assessment.OverallRisk.AQI)
	var insights string
	hit, err := o.lookup(ctx, "narrative", aiKey, &insights)
	if err != nil {
		return models.EnvironmentReport{}, err
	}
	if !hit {
		var fromAI bool
		insights, fromAI = o.narrator.InterpretConditions(ctx, assessment, weather, industryName)
		if err := o.save(ctx, aiKey, insights, o.narrativeTTL(fromAI, o.cfg.NarrativeTTL)); err != nil {
			return models.EnvironmentReport{}, fmt.Errorf("cache narrative: %w", err)
		}
	}

	report := models.EnvironmentReport{
		City:       city,
		Industry:   industryName,
		Pollutants: pollutants,
		Weather:    weather,
		Assessment: assessment,
		AIInsights: insights,
		IsDemo:     pollutants.IsDemo || weather.IsDemo,
		Timestamp:  o.clock.Now().UTC(),
	}
	if err := o.save(ctx, key, report, o.cfg.PayloadTTL); err != nil {
		return models.EnvironmentReport{}, fmt.Errorf("cache report: %w", err)
	}
	return report, nil
}

// Forecast returns the qualitative short-range outlook report. The returned
// report is a copy the caller owns.
func (o *Orchestrator) Forecast(ctx context.Context, city, industryName string) (models.ForecastReport, error) {
	city, industryName = Normalize(city, industryName)
	key := "forecast:" + city + ":" + industryName

	var report models.ForecastReport
	hit, err := o.lookup(ctx, "payload", key, &report)
	if err != nil {
		return models.ForecastReport{}, err
	}
	if hit {
		return report.Clone(), nil
	}

	v, err := o.share(ctx, key, func(fctx context.Context) (any, error) {
		return o.computeForecast(fctx, city, industryName, key)
	})
	if err != nil {
		return models.ForecastReport{}, err
	}
	return v.(models.ForecastReport).Clone(), nil
}

func (o *Orchestrator) computeForecast(ctx context.Context, city, industryName, key string) (models.ForecastReport, error) {
	profile := industry.Lookup(industryName)

	var (
		pollutants models.PollutantReading
		trend      models.WeatherTrend
		g          errgroup.Group
	)
	g.Go(func() error {
		pollutants = o.source.GetForecastPollutants(ctx, city)
		return nil
	})
	g.Go(func() error {
		trend = o.source.GetWeatherTrend(ctx, city)
		return nil
	})
	_ = g.Wait()

	forecast := scoring.DeriveForecast(pollutants, trend, profile)

	aiKey := fmt.Sprintf("ai:forecast:%s:%s:%d", city, industryName, pollutants.AQI)
	var narrative models.ForecastNarrative
	hit, err := o.lookup(ctx, "narrative", aiKey, &narrative)
	if err != nil {
		return models.ForecastReport{}, err
	}
	if !hit {
		var fromAI bool
		narrative, fromAI = o.narrator.InterpretForecast(ctx, forecast, city, industryName)
		if err := o.save(ctx, aiKey, narrative, o.narrativeTTL(fromAI, o.cfg.ForecastNarrativeTTL)); err != nil {
			return models.ForecastReport{}, fmt.Errorf("cache forecast narrative: %w", err)
		}
	}

	report := models.ForecastReport{
		City:       city,
		Industry:   industryName,
		Forecast:   forecast,
		AIForecast: narrative,
		IsDemo:     pollutants.IsDemo || trend.Current.IsDemo,
		Timestamp:  o.clock.Now().UTC(),
	}
	if err := o.save(ctx, key, report, o.cfg.ForecastTTL); err != nil {
		return models.ForecastReport{}, fmt.Errorf("cache forecast: %w", err)
	}
	return report, nil
}

// ExplainAlert explains an alert in at most three sentences. A missing
// persistence is taken from the industry profile.
func (o *Orchestrator) ExplainAlert(ctx context.Context, in models.AlertInput) string {
	if strings.TrimSpace(in.Persistence) == "" {
		in.Persistence = string(industry.Lookup(in.Industry).Persistence)
	}
	return o.narrator.ExplainAlert(ctx, in)
}

func (o *Orchestrator) narrativeTTL(fromAI bool, ttl time.Duration) time.Duration {
	if fromAI {
		return ttl
	}
	return min(ttl, o.cfg.FallbackNarrativeTTL)
}

// save skips caching once ctx has ended; anything computed after that may be
// fallback data.
func (o *Orchestrator) save(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ctx.Err() != nil {
		return nil
	}
	return o.store.Set(ctx, key, value, ttl)
}

func (o *Orchestrator) lookup(ctx context.Context, cacheName, key string, dest any) (bool, error) {
	hit, err := o.store.Get(ctx, key, dest)
	switch {
	case err != nil:
		o.metrics.CacheLookup(cacheName, "error")
		return false, fmt.Errorf("cache lookup %s: %w", key, err)
	case hit:
		o.metrics.CacheLookup(cacheName, "hit")
	default:
		o.metrics.CacheLookup(cacheName, "miss")
	}
	return hit, nil
}
