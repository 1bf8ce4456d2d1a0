// Package app assembles the risk pipeline from configuration so the server
// and the CLI build it the same way.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tasneem-netcode/TechSprint-App/internal/cache"
	"github.com/Tasneem-netcode/TechSprint-App/internal/config"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/narrative"
	"github.com/Tasneem-netcode/TechSprint-App/internal/orchestrator"
	"github.com/Tasneem-netcode/TechSprint-App/internal/source"
)

// NewStore returns the Redis store when a URL is configured, otherwise an
// in-memory cache swept in the background until ctx ends.
func NewStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, func() error, error) {
	if cfg.RedisURL != "" {
		r, err := cache.NewRedis(cfg.RedisURL, "enviro-risk:")
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		slog.Info("using redis cache")
		return r, r.Close, nil
	}

	mem := cache.NewMemory(cache.WithMaxEntries(cfg.MaxEntries))
	go mem.Run(ctx, cfg.SweepInterval)
	slog.Info("using in-memory cache", "max_entries", cfg.MaxEntries)
	return mem, func() error { return nil }, nil
}

// NewOrchestrator wires the resilient data source and narrative enricher.
// Without API keys the pipeline runs on demo data and fallback text.
func NewOrchestrator(cfg *config.Config, store cache.Store, m *metrics.Metrics) *orchestrator.Orchestrator {
	var live source.Provider
	if cfg.Upstream.OpenWeatherKey != "" {
		client := source.NewUpstreamClient("openweather", cfg.Upstream.Timeout, source.WithMetrics(m))
		live = source.NewOpenWeather(client, cfg.Upstream.OpenWeatherURL, cfg.Upstream.OpenWeatherKey, nil)
	} else {
		slog.Warn("OPENWEATHER_API_KEY not set, serving demo data")
	}

	data := source.NewResilient(live, store, source.ResilientConfig{
		LiveTimeout:  cfg.Upstream.Timeout,
		CacheTimeout: cfg.Upstream.Timeout / 4,
		LastGoodTTL:  cfg.Cache.LastGoodTTL,
	}, m)

	var gen narrative.Generator
	if cfg.AI.GeminiKey != "" {
		client := source.NewUpstreamClient("gemini", cfg.AI.Timeout, source.WithMetrics(m))
		gen = narrative.NewGemini(client, cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.GeminiKey)
	} else {
		slog.Warn("GEMINI_API_KEY not set, using fallback narratives")
	}
	enricher := narrative.NewEnricher(gen, cfg.AI.Timeout, m)

	return orchestrator.New(data, enricher, store, orchestrator.Config{
		PayloadTTL:           cfg.Cache.PayloadTTL,
		NarrativeTTL:         cfg.Cache.NarrativeTTL,
		ForecastTTL:          cfg.Cache.ForecastTTL,
		ForecastNarrativeTTL: cfg.Cache.ForecastNarrativeTTL,
		FallbackNarrativeTTL: cfg.Cache.FallbackNarrativeTTL,
		ComputeTimeout:       2*cfg.Upstream.Timeout + cfg.AI.Timeout,
	}, orchestrator.WithMetrics(m))
}
