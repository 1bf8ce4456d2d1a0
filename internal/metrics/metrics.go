package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "enviro_risk"

// Metrics holds the Prometheus collectors for the risk service. Helper
// methods are safe to call on a nil *Metrics.
type Metrics struct {
	CacheLookups *prometheus.CounterVec // labels: cache={payload,narrative,lkg}, result={hit,miss,error}

	// Upstream data source metrics.
	UpstreamFetches  *prometheus.CounterVec   // labels: source, strategy, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: source
	BreakerState     *prometheus.GaugeVec     // labels: name; 0 closed, 1 half-open, 2 open

	NarrativeCalls  *prometheus.CounterVec   // labels: kind={conditions,forecast,alert}, outcome={ai,fallback}
	RequestDuration *prometheus.HistogramVec // labels: route

	AlertsBroadcast   prometheus.Counter
	AlertsPublished   *prometheus.CounterVec // labels: outcome={success,error}
	StreamSubscribers prometheus.Gauge
	WarmerRefreshes   *prometheus.CounterVec // labels: outcome={success,error}
}

func build() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Environment data fetches by source, resolving strategy and outcome.",
		}, []string{"source", "strategy", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
		NarrativeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_calls_total",
			Help:      "Narrative enrichment calls by kind and whether the AI or fallback text was served.",
		}, []string{"kind", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		AlertsBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_broadcast_total",
			Help:      "High-risk alert events fanned out to subscribers.",
		}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Alert events written to Kafka by outcome.",
		}, []string{"outcome"}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Currently connected alert stream subscribers.",
		}),
		WarmerRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warmer_refreshes_total",
			Help:      "Watch list refreshes by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CacheLookups,
		m.UpstreamFetches,
		m.UpstreamDuration,
		m.BreakerState,
		m.NarrativeCalls,
		m.RequestDuration,
		m.AlertsBroadcast,
		m.AlertsPublished,
		m.StreamSubscribers,
		m.WarmerRefreshes,
	}
}

// New creates all collectors and registers them with the default registry.
func New() *Metrics {
	m := build()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewForTesting registers with a fresh registry so repeated calls across
// tests do not panic with "already registered".
func NewForTesting() *Metrics {
	m := build()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}

func (m *Metrics) CacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) UpstreamFetch(source, strategy, outcome string) {
	if m == nil {
		return
	}
	m.UpstreamFetches.WithLabelValues(source, strategy, outcome).Inc()
}

func (m *Metrics) ObserveUpstream(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) NarrativeCall(kind, outcome string) {
	if m == nil {
		return
	}
	m.NarrativeCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) AlertBroadcast() {
	if m == nil {
		return
	}
	m.AlertsBroadcast.Inc()
}

func (m *Metrics) AlertPublished(outcome string) {
	if m == nil {
		return
	}
	m.AlertsPublished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SubscriberDelta(delta float64) {
	if m == nil {
		return
	}
	m.StreamSubscribers.Add(delta)
}

func (m *Metrics) WarmerRefresh(outcome string) {
	if m == nil {
		return
	}
	m.WarmerRefreshes.WithLabelValues(outcome).Inc()
}
