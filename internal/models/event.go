package models

import "time"

// Activity event types emitted by the API.
const (
	EventLoginSucceeded = "login_succeeded"
	EventLoginFailed    = "login_failed"
	EventProfileViewed  = "profile_viewed"
	EventHomeViewed     = "home_viewed"
	EventGRCViewed      = "grc_viewed"
	EventSettingsViewed = "settings_viewed"
)

// ActivityEvent is the canonical structure published to Kafka and stored in Elasticsearch.
type ActivityEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    int       `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	Country   string    `json:"country,omitempty"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
