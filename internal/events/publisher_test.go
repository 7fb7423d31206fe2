package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/logger"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func TestNewEvent(t *testing.T) {
	evt := New(models.EventHomeViewed, 3)
	_, err := uuid.Parse(evt.ID)
	require.NoError(t, err)
	require.Equal(t, models.EventHomeViewed, evt.Type)
	require.Equal(t, 3, evt.UserID)
	require.False(t, evt.Timestamp.IsZero())
}

func TestKafkaPublisherKeysByUser(t *testing.T) {
	w := &stubWriter{}
	p := &KafkaPublisher{w: w, log: logger.Discard()}

	evt := New(models.EventGRCViewed, 2)
	evt.Category = "risk"
	require.NoError(t, p.Publish(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	require.Equal(t, "2", string(w.msgs[0].Key))
	require.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
	require.Equal(t, models.EventGRCViewed, string(w.msgs[0].Headers[0].Value))

	var decoded models.ActivityEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	require.Equal(t, evt.ID, decoded.ID)
	require.Equal(t, "risk", decoded.Category)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPartitionKeyFallbacks(t *testing.T) {
	require.Equal(t, "a@example.com", partitionKey(models.ActivityEvent{ID: "x", Email: "a@example.com"}))
	require.Equal(t, "x", partitionKey(models.ActivityEvent{ID: "x"}))
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &stubWriter{err: boom}, log: logger.Discard()}
	err := p.Publish(context.Background(), New(models.EventLoginFailed, 0))
	require.ErrorIs(t, err, boom)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), New(models.EventHomeViewed, 1)))
	require.NoError(t, p.Close())
}
