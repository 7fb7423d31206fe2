package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/config"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/dedupe"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/elasticsearch"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/logger"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/processing"
)

type eventIndexer interface {
	IndexEvent(ctx context.Context, evt models.ActivityEvent) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := esClient.EnsureIndex(indexCtx); err != nil {
		log.Warn("ensure activity index", slog.Any("err", err))
	}
	cancel()

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.EventsTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	defer reader.Close()

	dlqTopic := cfg.EventsTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  dlqTopic,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.EventsTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if !sendToDLQ(ctx, log, dlqWriter, msg, err, time.Second) {
				log.Error("DLQ write exhausted retries, leaving offset uncommitted",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// processMessage decodes, normalises and indexes one event. Ids already seen
// within the dedupe window are skipped.
func processMessage(ctx context.Context, log *slog.Logger, idx eventIndexer, cache *dedupe.Cache, msg kafka.Message) error {
	var raw processing.RawEvent
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	evt, err := processing.NormalizeEvent(raw, time.Now())
	if err != nil {
		return err
	}

	if cache.Seen(evt.ID) {
		log.Debug("duplicate event", slog.String("id", evt.ID))
		return nil
	}

	if err := idx.IndexEvent(ctx, evt); err != nil {
		return err
	}

	cache.Mark(evt.ID)
	log.Info("indexed event",
		slog.String("id", evt.ID),
		slog.String("type", evt.Type),
		slog.Int("user_id", evt.UserID),
	)
	return nil
}

// sendToDLQ writes msg with error context to the dead letter topic, retrying
// with exponential backoff starting at base. It reports whether the write succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error, base time.Duration) bool {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	)
	dlqMsg := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}

	for attempt := range 5 {
		err := w.WriteMessages(ctx, dlqMsg)
		if err == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := base << uint(attempt)
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false
		}
	}
	return false
}
