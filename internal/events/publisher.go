package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

// Publisher emits activity events.
type Publisher interface {
	Publish(ctx context.Context, evt models.ActivityEvent) error
	Close() error
}

// New builds an event with a fresh id and timestamp.
func New(eventType string, userID int) models.ActivityEvent {
	return models.ActivityEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.ActivityEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a topic, keyed by user id so a
// user's events stay on one partition.
type KafkaPublisher struct {
	w   messageWriter
	log *slog.Logger
}

// NewKafkaPublisher creates an asynchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("publish events failed", slog.Int("count", len(msgs)), slog.Any("err", err))
			}
		},
	}
	return &KafkaPublisher{w: w, log: log}
}

// Publish encodes evt and hands it to the writer.
func (p *KafkaPublisher) Publish(ctx context.Context, evt models.ActivityEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(partitionKey(evt)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", evt.ID, err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func partitionKey(evt models.ActivityEvent) string {
	if evt.UserID > 0 {
		return strconv.Itoa(evt.UserID)
	}
	if evt.Email != "" {
		return evt.Email
	}
	return evt.ID
}
