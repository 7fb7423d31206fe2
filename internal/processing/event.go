package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

// RawEvent is an activity event as it arrives on the wire.
type RawEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	UserID    int    `json:"userId"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
}

var (
	ErrEmptyEvent   = errors.New("empty event")
	ErrUnknownType  = errors.New("unknown event type")
	ErrMissingActor = errors.New("event has neither user id nor email")
)

var knownTypes = map[string]struct{}{
	models.EventLoginSucceeded: {},
	models.EventLoginFailed:    {},
	models.EventProfileViewed:  {},
	models.EventHomeViewed:     {},
	models.EventGRCViewed:      {},
	models.EventSettingsViewed: {},
}

// NormalizeEvent validates a raw event and returns its canonical form.
// A missing or unparsable timestamp is replaced with now.
func NormalizeEvent(raw RawEvent, now time.Time) (models.ActivityEvent, error) {
	eventType := strings.ToLower(strings.TrimSpace(raw.Type))
	if eventType == "" && raw.UserID == 0 && strings.TrimSpace(raw.Email) == "" {
		return models.ActivityEvent{}, ErrEmptyEvent
	}
	if _, ok := knownTypes[eventType]; !ok {
		return models.ActivityEvent{}, fmt.Errorf("%w %q", ErrUnknownType, raw.Type)
	}

	evt := models.ActivityEvent{
		ID:       strings.TrimSpace(raw.ID),
		Type:     eventType,
		UserID:   raw.UserID,
		Email:    strings.ToLower(strings.TrimSpace(raw.Email)),
		Country:  strings.ToLower(strings.TrimSpace(raw.Country)),
		Category: strings.ToLower(strings.TrimSpace(raw.Category)),
	}
	if evt.UserID <= 0 && evt.Email == "" && eventType != models.EventSettingsViewed {
		return models.ActivityEvent{}, ErrMissingActor
	}
	if evt.UserID < 0 {
		evt.UserID = 0
	}

	evt.Timestamp = ParseTimestamp(raw.Timestamp)
	if evt.Timestamp.IsZero() {
		evt.Timestamp = now.UTC()
	}

	if evt.ID == "" {
		evt.ID = BuildEventID(evt)
	}
	return evt, nil
}

// ParseTimestamp accepts RFC3339 (with or without nanoseconds) and the legacy
// "2006-01-02 15:04:05" layout. It returns the zero time on failure.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// BuildEventID hashes the identifying fields to form a deterministic id.
func BuildEventID(evt models.ActivityEvent) string {
	parts := []string{
		evt.Type,
		strconv.Itoa(evt.UserID),
		evt.Email,
		evt.Country,
		evt.Category,
		evt.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	s := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(s[:])
}
