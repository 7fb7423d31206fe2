package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains the activity pipeline parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
	KafkaBrokers       []string
	EventsTopic        string
}

// ActivityEnabled reports whether an Elasticsearch activity index is configured.
func (c Common) ActivityEnabled() bool {
	return c.ElasticsearchAddr != ""
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c Common) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr        string
	ContentPath     string
	TokenSecret     string
	TokenTTL        time.Duration
	BcryptCost      int
	ActivityPage    int
	ActivityMaxPage int
}

// Worker holds configuration for the Kafka -> Elasticsearch activity worker.
type Worker struct {
	Common
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
	BatchSize      int
}

// Retention configures the activity cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadAPI builds an API config from environment variables. Kafka and
// Elasticsearch are optional for the API and disabled when unset.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", ""),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "boardkonnect-activity"),
			KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			EventsTopic:        getEnv("EVENTS_TOPIC", "boardkonnect_events"),
		},
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:3000"),
		ContentPath:     getEnv("CONTENT_CATALOG_PATH", ""),
		TokenSecret:     getEnv("AUTH_TOKEN_SECRET", ""),
		TokenTTL:        getDuration("AUTH_TOKEN_TTL", "24h"),
		BcryptCost:      getInt("BCRYPT_COST", 10),
		ActivityPage:    getInt("API_ACTIVITY_PAGE_SIZE", 20),
		ActivityMaxPage: getInt("API_ACTIVITY_MAX_PAGE_SIZE", 100),
	}

	if c.TokenTTL <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.ActivityPage <= 0 {
		return nil, fmt.Errorf("API_ACTIVITY_PAGE_SIZE must be positive")
	}
	if c.ActivityMaxPage <= 0 {
		return nil, fmt.Errorf("API_ACTIVITY_MAX_PAGE_SIZE must be positive")
	}
	if c.ActivityPage > c.ActivityMaxPage {
		return nil, fmt.Errorf("API_ACTIVITY_PAGE_SIZE cannot exceed API_ACTIVITY_MAX_PAGE_SIZE")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common:         pipeline(),
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "activity-worker"),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:      getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    pipeline(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "720h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

// pipeline returns the Common block for the background services, which
// always talk to Kafka and Elasticsearch.
func pipeline() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "boardkonnect-activity"),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		EventsTopic:        getEnv("EVENTS_TOPIC", "boardkonnect_events"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err == nil {
		return d
	}
	fd, ferr := time.ParseDuration(fallback)
	if ferr != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
	}
	return fd
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
