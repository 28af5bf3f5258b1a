package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownCategory is returned for category names outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownColor is returned for colors outside the palette.
	ErrUnknownColor = errors.New("unknown color")
)

// Category is one of the six fixed activity types.
type Category string

const (
	CategoryCardio      Category = "cardio"
	CategoryStrength    Category = "strength"
	CategoryFlexibility Category = "flexibility"
	CategoryNutrition   Category = "nutrition"
	CategoryRecovery    Category = "recovery"
	CategoryEndurance   Category = "endurance"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCardio,
	CategoryStrength,
	CategoryFlexibility,
	CategoryNutrition,
	CategoryRecovery,
	CategoryEndurance,
}

// ParseCategory resolves a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "strength training" {
		return CategoryStrength, nil
	}
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Title returns the capitalized category name.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Status is the lifecycle state of an activity.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Activity is a scheduled fitness session.
type Activity struct {
	ID              string    `json:"id"`
	Category        Category  `json:"category"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// End returns the exclusive end of the activity window.
func (a Activity) End() time.Time {
	return a.ScheduledTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// InWindow reports whether now falls inside [ScheduledTime, End).
func (a Activity) InWindow(now time.Time) bool {
	return !now.Before(a.ScheduledTime) && now.Before(a.End())
}

// IsComplete returns true if the activity is marked completed.
func (a Activity) IsComplete() bool {
	return a.Status == StatusCompleted
}

// Milestone is one stop on the progress journey.
type Milestone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}
