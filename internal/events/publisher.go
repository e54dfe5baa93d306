// Package events publishes search activity to Kafka for downstream
// consumers. Publishing is optional and fire-and-forget: a nil Publisher is
// a no-op, and failures never affect the request that triggered them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// SearchEvent records one nearby-site search and its outcome.
type SearchEvent struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Radius    float64   `json:"radius"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher writes search events to a single topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a Publisher for the given broker and topic.
func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishSearch writes one event. Calling it on a nil Publisher is a no-op
// so callers need no enabled-check.
func (p *Publisher) PublishSearch(ctx context.Context, ev SearchEvent) error {
	if p == nil {
		return nil
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling search event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		return fmt.Errorf("publishing search event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
