package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/dedupe"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/logger"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/processing"
)

type stubIndexer struct {
	events []models.ActivityEvent
	err    error
}

func (s *stubIndexer) IndexEvent(_ context.Context, evt models.ActivityEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, evt)
	return nil
}

type stubWriter struct {
	failures int
	msgs     []kafka.Message
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func message(t *testing.T, raw processing.RawEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	return kafka.Message{Value: data, Partition: 1, Offset: 42}
}

func TestProcessMessageIndexesEventOnce(t *testing.T) {
	idx := &stubIndexer{}
	cache := dedupe.NewCache(100, time.Hour)
	msg := message(t, processing.RawEvent{
		ID:        "evt-1",
		Type:      "home_viewed",
		UserID:    2,
		Country:   "India",
		Timestamp: "2025-04-01T10:00:00Z",
	})

	require.NoError(t, processMessage(context.Background(), logger.Discard(), idx, cache, msg))
	require.Len(t, idx.events, 1)
	require.Equal(t, "india", idx.events[0].Country)
	require.Equal(t, 2, idx.events[0].UserID)

	require.NoError(t, processMessage(context.Background(), logger.Discard(), idx, cache, msg))
	require.Len(t, idx.events, 1)
}

func TestProcessMessageRejectsBadPayloads(t *testing.T) {
	idx := &stubIndexer{}
	cache := dedupe.NewCache(100, time.Hour)

	err := processMessage(context.Background(), logger.Discard(), idx, cache, kafka.Message{Value: []byte("{")})
	require.Error(t, err)

	err = processMessage(context.Background(), logger.Discard(), idx, cache, message(t, processing.RawEvent{Type: "bogus", UserID: 1}))
	require.ErrorIs(t, err, processing.ErrUnknownType)
	require.Empty(t, idx.events)
}

func TestProcessMessageDoesNotMarkOnIndexFailure(t *testing.T) {
	idx := &stubIndexer{err: errors.New("es down")}
	cache := dedupe.NewCache(100, time.Hour)
	msg := message(t, processing.RawEvent{ID: "evt-9", Type: "login_succeeded", UserID: 1})

	require.Error(t, processMessage(context.Background(), logger.Discard(), idx, cache, msg))
	require.False(t, cache.Seen("evt-9"))

	idx.err = nil
	require.NoError(t, processMessage(context.Background(), logger.Discard(), idx, cache, msg))
	require.True(t, cache.Seen("evt-9"))
}

func TestSendToDLQRetries(t *testing.T) {
	w := &stubWriter{failures: 2}
	msg := message(t, processing.RawEvent{Type: "bogus"})

	ok := sendToDLQ(context.Background(), logger.Discard(), w, msg, errors.New("unknown event type"), time.Millisecond)
	require.True(t, ok)
	require.Len(t, w.msgs, 1)

	headers := map[string]string{}
	for _, h := range w.msgs[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, "1", headers["original_partition"])
	require.Equal(t, "42", headers["original_offset"])
	require.Equal(t, "unknown event type", headers["error"])
}

func TestSendToDLQGivesUpOnCancel(t *testing.T) {
	w := &stubWriter{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := sendToDLQ(ctx, logger.Discard(), w, message(t, processing.RawEvent{}), errors.New("x"), time.Hour)
	require.False(t, ok)
	require.Empty(t, w.msgs)
}
