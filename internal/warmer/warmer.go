// Package warmer keeps a watch list of city/industry pairs fresh in the cache
// and raises alerts when one of them turns high risk.
package warmer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/industry"
	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	"github.com/Tasneem-netcode/TechSprint-App/internal/worker"
	"github.com/jonboulle/clockwork"
)

type Target struct {
	City     string
	Industry string
}

func (t Target) key() string {
	return t.City + ":" + t.Industry
}

// ParseWatchlist reads "City|Industry,City|Industry". A missing industry
// means the generic profile; blank entries are skipped.
func ParseWatchlist(s string) ([]Target, error) {
	var targets []Target
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		city, ind, _ := strings.Cut(entry, "|")
		city, ind = strings.TrimSpace(city), strings.TrimSpace(ind)
		if city == "" {
			return nil, fmt.Errorf("watchlist entry %q has no city", entry)
		}
		if ind == "" {
			ind = industry.GenericName
		}
		targets = append(targets, Target{City: city, Industry: ind})
	}
	return targets, nil
}

// Refresher recomputes a report and explains alerts.
type Refresher interface {
	Current(ctx context.Context, city, industry string) (models.EnvironmentReport, error)
	ExplainAlert(ctx context.Context, in models.AlertInput) string
}

type Config struct {
	Interval   time.Duration
	Workers    int
	BufferSize int
}

type Warmer struct {
	cfg         Config
	targets     []Target
	refresher   Refresher
	broadcaster *stream.Broadcaster
	metrics     *metrics.Metrics
	clock       clockwork.Clock
	pool        *worker.Pool[Target]
	wg          sync.WaitGroup

	mu      sync.Mutex
	alerted map[string]int // key -> AQI of the last alert sent
}

type Option func(*Warmer)

func WithClock(c clockwork.Clock) Option {
	return func(w *Warmer) { w.clock = c }
}

func New(cfg Config, targets []Target, refresher Refresher, broadcaster *stream.Broadcaster, m *metrics.Metrics, opts ...Option) *Warmer {
	w := &Warmer{
		cfg:         cfg,
		targets:     targets,
		refresher:   refresher,
		broadcaster: broadcaster,
		metrics:     m,
		clock:       clockwork.NewRealClock(),
		alerted:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Warmer) Start(ctx context.Context) {
	w.pool = worker.NewPool[Target]("warmer", w.cfg.Workers, max(w.cfg.BufferSize, len(w.targets)), w.process)
	w.pool.Start(ctx)

	w.wg.Add(1)
	go w.run(ctx)
}

func (w *Warmer) run(ctx context.Context) {
	defer w.wg.Done()
	slog.Info("starting cache warmer", "targets", len(w.targets), "interval", w.cfg.Interval)

	ticker := w.clock.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cache warmer shutting down")
			return
		case <-ticker.Chan():
			w.refresh(ctx)
		}
	}
}

func (w *Warmer) refresh(ctx context.Context) {
	for _, t := range w.targets {
		if err := w.pool.Submit(ctx, t); err != nil {
			return
		}
	}
	slog.Debug("warmer round queued", "count", len(w.targets))
}

func (w *Warmer) process(ctx context.Context, t Target) error {
	report, err := w.refresher.Current(ctx, t.City, t.Industry)
	if err != nil {
		w.metrics.WarmerRefresh("error")
		return fmt.Errorf("refresh %s: %w", t.key(), err)
	}
	w.metrics.WarmerRefresh("success")

	if w.broadcaster == nil || !w.shouldBroadcast(t, report) {
		return nil
	}

	risk := report.Assessment.OverallRisk
	explanation := w.refresher.ExplainAlert(ctx, models.AlertInput{
		Industry:    t.Industry,
		AQI:         risk.AQI,
		PM25:        report.Pollutants.Value(models.PM25),
		WindSpeed:   report.Weather.WindSpeed,
		Persistence: string(report.Assessment.IndustryContext.Persistence),
	})
	event := &models.AlertEvent{
		City:        t.City,
		Industry:    t.Industry,
		Level:       risk.Level,
		Score:       risk.Score,
		AQI:         risk.AQI,
		Explanation: explanation,
		IssuedAt:    w.clock.Now().UTC(),
	}
	if len(report.Assessment.PrimaryConcerns) > 0 {
		event.PrimaryConcern = report.Assessment.PrimaryConcerns[0]
	}
	w.broadcaster.Broadcast(event)

	slog.Info("high risk alert", "city", t.City, "industry", t.Industry, "score", risk.Score, "aqi", risk.AQI)
	return nil
}

// shouldBroadcast is true for a High report whose AQI differs from the last
// alert sent for the same pair. Dropping below High re-arms the pair.
func (w *Warmer) shouldBroadcast(t Target, report models.EnvironmentReport) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	risk := report.Assessment.OverallRisk
	if risk.Level != models.RiskHigh {
		delete(w.alerted, t.key())
		return false
	}
	if last, ok := w.alerted[t.key()]; ok && last == risk.AQI {
		return false
	}
	w.alerted[t.key()] = risk.AQI
	return true
}

func (w *Warmer) Stop() {
	w.wg.Wait()
	if w.pool != nil {
		w.pool.Stop()
	}
	slog.Info("cache warmer stopped")
}
