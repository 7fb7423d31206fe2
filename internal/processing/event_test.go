package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/processing"
)

var now = time.Date(2025, 4, 10, 8, 30, 0, 0, time.UTC)

func TestNormalizeEvent(t *testing.T) {
	evt, err := processing.NormalizeEvent(processing.RawEvent{
		ID:        "abc",
		Type:      " Home_Viewed ",
		UserID:    2,
		Email:     "Priya.Sharma@Example.com",
		Country:   "IN",
		Timestamp: "2025-04-09T10:00:00Z",
	}, now)
	require.NoError(t, err)

	require.Equal(t, "abc", evt.ID)
	require.Equal(t, models.EventHomeViewed, evt.Type)
	require.Equal(t, 2, evt.UserID)
	require.Equal(t, "priya.sharma@example.com", evt.Email)
	require.Equal(t, "in", evt.Country)
	require.Equal(t, time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC), evt.Timestamp)
}

func TestNormalizeEventDefaults(t *testing.T) {
	evt, err := processing.NormalizeEvent(processing.RawEvent{
		Type:      models.EventLoginFailed,
		Email:     "nobody@example.com",
		Timestamp: "not a time",
	}, now)
	require.NoError(t, err)
	require.Equal(t, now, evt.Timestamp)
	require.Len(t, evt.ID, 40)

	again, err := processing.NormalizeEvent(processing.RawEvent{
		Type:  models.EventLoginFailed,
		Email: "NOBODY@example.com",
	}, now)
	require.NoError(t, err)
	require.Equal(t, evt.ID, again.ID)
}

func TestNormalizeEventErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  processing.RawEvent
		want error
	}{
		{name: "empty", raw: processing.RawEvent{}, want: processing.ErrEmptyEvent},
		{name: "unknown type", raw: processing.RawEvent{Type: "deleted", UserID: 1}, want: processing.ErrUnknownType},
		{name: "no actor", raw: processing.RawEvent{Type: models.EventHomeViewed}, want: processing.ErrMissingActor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processing.NormalizeEvent(tt.raw, now)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeSettingsEventWithoutActor(t *testing.T) {
	evt, err := processing.NormalizeEvent(processing.RawEvent{
		Type:    models.EventSettingsViewed,
		Country: "Singapore",
	}, now)
	require.NoError(t, err)
	require.Equal(t, "singapore", evt.Country)
	require.Zero(t, evt.UserID)
}

func TestParseTimestamp(t *testing.T) {
	ts := processing.ParseTimestamp("2024-02-03T04:05:06Z")
	require.Equal(t, time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), ts)

	nano := processing.ParseTimestamp("2024-02-03T04:05:06.123456789+02:00")
	require.Equal(t, time.Date(2024, 2, 3, 2, 5, 6, 123456789, time.UTC), nano)

	legacy := processing.ParseTimestamp("2024-02-03 04:05:06")
	require.Equal(t, time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), legacy)

	require.True(t, processing.ParseTimestamp("invalid").IsZero())
	require.True(t, processing.ParseTimestamp("").IsZero())
}

func TestBuildEventIDIsDeterministic(t *testing.T) {
	evt := models.ActivityEvent{Type: models.EventGRCViewed, UserID: 3, Category: "risk", Timestamp: now}
	require.Equal(t, processing.BuildEventID(evt), processing.BuildEventID(evt))

	other := evt
	other.Category = "compliance"
	require.NotEqual(t, processing.BuildEventID(evt), processing.BuildEventID(other))
}
