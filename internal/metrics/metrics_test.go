package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewForTesting_Repeatable(t *testing.T) {
	assert.NotPanics(t, func() {
		NewForTesting()
		NewForTesting()
	})
}

func TestHelpers_Record(t *testing.T) {
	m := NewForTesting()

	m.CacheLookup("payload", "hit")
	m.CacheLookup("payload", "hit")
	m.CacheLookup("payload", "miss")
	m.UpstreamFetch("pollutants", "demo", "success")
	m.NarrativeCall("alert", "fallback")
	m.AlertBroadcast()
	m.AlertPublished("error")
	m.SubscriberDelta(1)
	m.SubscriberDelta(1)
	m.SubscriberDelta(-1)
	m.WarmerRefresh("success")
	m.SetBreakerState("openweather", 2)
	m.ObserveRequest("/forecast", 20*time.Millisecond)
	m.ObserveUpstream("openweather", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("payload", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("payload", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFetches.WithLabelValues("pollutants", "demo", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NarrativeCalls.WithLabelValues("alert", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsBroadcast))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsPublished.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StreamSubscribers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WarmerRefreshes.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("openweather")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestHelpers_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheLookup("payload", "hit")
		m.UpstreamFetch("weather", "live", "error")
		m.ObserveUpstream("openweather", time.Second)
		m.SetBreakerState("gemini", 0)
		m.NarrativeCall("forecast", "ai")
		m.ObserveRequest("/health", time.Millisecond)
		m.AlertBroadcast()
		m.AlertPublished("success")
		m.SubscriberDelta(1)
		m.WarmerRefresh("error")
	})
}
