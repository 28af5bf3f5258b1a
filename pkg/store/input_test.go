package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhen(t *testing.T) {
	now := baseTime
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"07:30", time.Date(2026, 2, 8, 7, 30, 0, 0, time.UTC)},
		{"23:05", time.Date(2026, 2, 8, 23, 5, 0, 0, time.UTC)},
		{"2026-02-09 06:00", time.Date(2026, 2, 9, 6, 0, 0, 0, time.UTC)},
		{"2026-02-09T06:15", time.Date(2026, 2, 9, 6, 15, 0, 0, time.UTC)},
		{"2026-02-09T06:15:00Z", time.Date(2026, 2, 9, 6, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWhen(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseWhen("tomorrowish", now)
	assert.Error(t, err)
}

func TestParseMinutes(t *testing.T) {
	n, err := ParseMinutes("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDurationMinutes, n)

	n, err = ParseMinutes(" 45 ")
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	n, err = ParseMinutes("480")
	require.NoError(t, err)
	assert.Equal(t, MaxDurationMinutes, n)

	for _, bad := range []string{"0", "-5", "481", "half an hour"} {
		_, err := ParseMinutes(bad)
		assert.ErrorIs(t, err, ErrInvalidDuration, bad)
	}
}

func TestAddInput(t *testing.T) {
	sink := newRecordingSink()
	s := NewActivityStore(newFakeClock(), sink)

	a, err := s.AddInput(ActivityInput{Category: "Cardio", Name: "  Run ", When: "10:10", Description: " easy "})
	require.NoError(t, err)
	assert.Equal(t, CategoryCardio, a.Category)
	assert.Equal(t, "Run", a.Name)
	assert.Equal(t, "easy", a.Description)
	assert.Equal(t, DefaultDurationMinutes, a.DurationMinutes)
	assert.Equal(t, baseTime.Add(10*time.Minute), a.ScheduledTime)
	assert.Equal(t, 1, sink.writes)

	tests := []struct {
		name string
		in   ActivityInput
		err  error
	}{
		{"unknown category", ActivityInput{Category: "yoga", Name: "x"}, ErrUnknownCategory},
		{"empty name", ActivityInput{Category: "cardio", Name: "  "}, ErrEmptyName},
		{"bad duration", ActivityInput{Category: "cardio", Name: "x", Duration: "0"}, ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddInput(tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, sink.writes)
}
