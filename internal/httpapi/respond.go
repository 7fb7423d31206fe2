package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const (
	msgInternal          = "Internal Server Error"
	msgBadBody           = "Invalid request body"
	msgMissingCreds      = "Email and password are required"
	msgInvalidCreds      = "Invalid email or password"
	msgUserNotFound      = "User not found"
	msgUserIDRequired    = "userId is required"
	msgInvalidCategory   = "Invalid category"
	msgInvalidCountry    = "Invalid country"
	msgNoContent         = "No content available for this country"
	msgActivityDisabled  = "Activity log is not enabled"
	msgActivityUnhealthy = "Activity store unavailable"
	msgInvalidSince      = "since must be an RFC3339 timestamp"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseID parses a positive user id. Anything else is reported as not found,
// since no user can have it.
func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

// parseTypes splits a comma separated event type filter, normalised the way
// events are stored.
func parseTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.ToLower(strings.TrimSpace(part)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
