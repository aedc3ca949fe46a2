package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// ActivityPublisher records domain mutations (registrations, posts, jobs,
// chat messages) to a Kafka topic for offline processing. It is not part of
// the live notification path and a nil publisher is a valid no-op.
type ActivityPublisher struct {
	writer *kafka.Writer
}

// ActivityEvent is the record value; Kind names the mutation.
type ActivityEvent struct {
	Kind      string    `json:"kind"`
	UserID    string    `json:"userID"`
	EntityID  string    `json:"entityID,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewActivityPublisher(brokers []string, topic string) *ActivityPublisher {
	return &ActivityPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

// Publish is best effort; a broker outage must never fail the HTTP request
// that triggered the event.
func (p *ActivityPublisher) Publish(ctx context.Context, kind, userID, entityID string) {
	if p == nil {
		return
	}

	event := ActivityEvent{
		Kind:      kind,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal activity event", "kind", kind, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: value,
	})
	if err != nil {
		slog.Error("Failed to publish activity event", "kind", kind, "error", err)
	}
}

func (p *ActivityPublisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
