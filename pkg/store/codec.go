package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Persistence keys, one per top-level collection.
const (
	KeyActivities = "fitness-activities"
	KeyMilestones = "fitness-milestones"
	KeyColors     = "fitness-colors"
)

// Keys lists every persistence key.
var Keys = []string{KeyActivities, KeyMilestones, KeyColors}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseInstant parses an RFC 3339 instant, or a zone-less local date-time
// interpreted in loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// UnmarshalJSON accepts both RFC 3339 and zone-less local instants.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type alias Activity
	var raw struct {
		alias
		ScheduledTime string `json:"scheduledTime"`
		CreatedAt     string `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Activity(raw.alias)

	var err error
	if a.ScheduledTime, err = ParseInstant(raw.ScheduledTime, time.Local); err != nil {
		return fmt.Errorf("activity %s: scheduledTime: %w", a.ID, err)
	}
	if raw.CreatedAt != "" {
		if a.CreatedAt, err = ParseInstant(raw.CreatedAt, time.Local); err != nil {
			return fmt.Errorf("activity %s: createdAt: %w", a.ID, err)
		}
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

func EncodeActivities(activities []Activity) (string, error) {
	data, err := json.Marshal(activities)
	if err != nil {
		return "", fmt.Errorf("encoding activities: %w", err)
	}
	return string(data), nil
}

func DecodeActivities(s string) ([]Activity, error) {
	var out []Activity
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	return out, nil
}

func EncodeMilestones(milestones []Milestone) (string, error) {
	data, err := json.Marshal(milestones)
	if err != nil {
		return "", fmt.Errorf("encoding milestones: %w", err)
	}
	return string(data), nil
}

func DecodeMilestones(s string) ([]Milestone, error) {
	var out []Milestone
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding milestones: %w", err)
	}
	return out, nil
}

func EncodeColors(colors ColorMap) (string, error) {
	data, err := json.Marshal(colors)
	if err != nil {
		return "", fmt.Errorf("encoding colors: %w", err)
	}
	return string(data), nil
}

// DecodeColors overlays a stored color map onto the defaults. Unknown
// categories and colors outside the palette are ignored.
func DecodeColors(s string) (ColorMap, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decoding colors: %w", err)
	}
	out := DefaultColors()
	for k, v := range raw {
		c, err := ParseCategory(k)
		if err != nil {
			continue
		}
		hex, err := ResolveColor(v)
		if err != nil {
			continue
		}
		out[c] = hex
	}
	return out, nil
}
