// Package stream fans high-risk alert events out to live subscribers.
package stream

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
)

const subscriberBuffer = 100

type Broadcaster struct {
	subscribers map[uint64]chan *models.AlertEvent
	nextID      atomic.Uint64
	mu          sync.RWMutex
	metrics     *metrics.Metrics
}

func NewBroadcaster(m *metrics.Metrics) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan *models.AlertEvent),
		metrics:     m,
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan *models.AlertEvent) {
	id := b.nextID.Add(1)
	ch := make(chan *models.AlertEvent, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	b.metrics.SubscriberDelta(1)

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
	if ok {
		b.metrics.SubscriberDelta(-1)
	}
}

func (b *Broadcaster) Broadcast(e *models.AlertEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// Skip slow subscribers
		}
	}
	b.metrics.AlertBroadcast()
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
		b.metrics.SubscriberDelta(-1)
	}
}

// Filter selects events for one subscriber. Zero fields match everything.
type Filter struct {
	City     string
	Industry string
	MinScore int
}

func (f Filter) Match(e *models.AlertEvent) bool {
	if f.City != "" && !strings.EqualFold(f.City, e.City) {
		return false
	}
	if f.Industry != "" && f.Industry != e.Industry {
		return false
	}
	return e.Score >= f.MinScore
}
