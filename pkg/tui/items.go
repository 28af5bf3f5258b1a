package tui

import (
	"sort"
	"time"

	"github.com/stefanpenner/trackline/pkg/engine"
	"github.com/stefanpenner/trackline/pkg/store"
)

// ActivityItem is one row of the today pane.
type ActivityItem struct {
	Activity store.Activity
	Display  engine.Display
	Color    string
}

// BuildActivityItems returns today's activities ordered by start time, each
// with its countdown label at now.
func BuildActivityItems(activities []store.Activity, colors store.ColorMap, now time.Time) []ActivityItem {
	today := engine.TodayActivities(activities, now)
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].ScheduledTime.Before(today[j].ScheduledTime)
	})

	items := make([]ActivityItem, len(today))
	for i, a := range today {
		items[i] = ActivityItem{
			Activity: a,
			Display:  engine.DisplayStatus(a, now),
			Color:    colors[a.Category],
		}
	}
	return items
}

// statusIcon picks the leading glyph for a row.
func statusIcon(a store.Activity) string {
	switch a.Status {
	case store.StatusCompleted:
		return IconComplete
	case store.StatusActive:
		return IconActive
	default:
		return IconScheduled
	}
}
