package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidDuration = errors.New("duration must be between 1 and 480 minutes")
)

// DefaultDurationMinutes is used when no duration is given.
const DefaultDurationMinutes = 30

// MaxDurationMinutes caps a single session at eight hours.
const MaxDurationMinutes = 480

// ParseWhen parses a user-entered start time relative to now. "HH:MM" means
// today in now's location; empty means now. Full date-times go through
// ParseInstant.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	return ParseInstant(s, now.Location())
}

// ParseMinutes parses a duration in whole minutes. Empty gives
// DefaultDurationMinutes.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDurationMinutes, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > MaxDurationMinutes {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return n, nil
}

// ActivityInput is an unvalidated add-activity request from a host.
type ActivityInput struct {
	Category    string
	Name        string
	Description string
	When        string
	Duration    string
}

// AddInput validates in against the store's clock and adds the activity.
func (s *ActivityStore) AddInput(in ActivityInput) (Activity, error) {
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return Activity{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Activity{}, ErrEmptyName
	}
	at, err := ParseWhen(in.When, s.clock.Now())
	if err != nil {
		return Activity{}, err
	}
	minutes, err := ParseMinutes(in.Duration)
	if err != nil {
		return Activity{}, err
	}
	return s.Add(cat, name, strings.TrimSpace(in.Description), at, minutes), nil
}
