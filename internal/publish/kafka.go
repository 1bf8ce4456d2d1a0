// Package publish forwards alert events to Kafka for downstream consumers.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/Tasneem-netcode/TechSprint-App/internal/models"
	"github.com/Tasneem-netcode/TechSprint-App/internal/stream"
	kafkago "github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

// MessageWriter is the subset of *kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  MessageWriter
	metrics *metrics.Metrics
}

// NewKafkaPublisher creates a producer for the alert topic.
func NewKafkaPublisher(brokers []string, topic string, m *metrics.Metrics) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newPublisher(w, m)
}

func newPublisher(w MessageWriter, m *metrics.Metrics) *KafkaPublisher {
	return &KafkaPublisher{writer: w, metrics: m}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e *models.AlertEvent) error {
	msg, err := serializeToMessage(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.AlertPublished("error")
		return fmt.Errorf("publish alert %s: %w", e.Key(), err)
	}
	p.metrics.AlertPublished("success")
	return nil
}

// Run subscribes to b and publishes every event until ctx is cancelled or
// the broadcaster is closed.
func (p *KafkaPublisher) Run(ctx context.Context, b *stream.Broadcaster) {
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			if err := p.Publish(wctx, e); err != nil {
				slog.Error("failed to publish alert", "city", e.City, "industry", e.Industry, "error", err)
			}
			cancel()
		}
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage keys by city/industry so one pair's alerts stay ordered
// on a single partition.
func serializeToMessage(e *models.AlertEvent) (kafkago.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(e.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(e.Level)},
			{Key: "issued_at", Value: []byte(e.IssuedAt.Format(time.RFC3339))},
		},
	}, nil
}
