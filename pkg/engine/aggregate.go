package engine

import (
	"math"
	"time"

	"github.com/stefanpenner/trackline/pkg/store"
)

// DailyCounts tallies today's activities by status.
type DailyCounts struct {
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Scheduled int `json:"scheduled"`
}

// CategoryProgress is one row of the weekly goals.
type CategoryProgress struct {
	Category   store.Category `json:"category"`
	Completed  int            `json:"completed"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// WeekWindow returns [start, end) where start is the most recent Sunday at
// midnight in now's location.
func WeekWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	offset := int(now.Weekday())
	start = time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
	end = time.Date(y, m, d-offset+7, 0, 0, 0, 0, now.Location())
	return start, end
}

// TodayActivities returns the activities scheduled on now's calendar date,
// in their stored order.
func TodayActivities(activities []store.Activity, now time.Time) []store.Activity {
	var out []store.Activity
	for _, a := range activities {
		if SameDay(a.ScheduledTime, now, now.Location()) {
			out = append(out, a)
		}
	}
	return out
}

// DailyStats counts today's activities by stored status.
func DailyStats(activities []store.Activity, now time.Time) DailyCounts {
	var c DailyCounts
	for _, a := range TodayActivities(activities, now) {
		switch a.Status {
		case store.StatusCompleted:
			c.Completed++
		case store.StatusActive:
			c.Active++
		case store.StatusScheduled:
			c.Scheduled++
		}
	}
	return c
}

// WeeklyGoals computes per-category completion for the current week.
// Categories without activities this week are omitted.
func WeeklyGoals(activities []store.Activity, now time.Time) []CategoryProgress {
	start, end := WeekWindow(now)

	totals := make(map[store.Category]*CategoryProgress)
	for _, a := range activities {
		if a.ScheduledTime.Before(start) || !a.ScheduledTime.Before(end) {
			continue
		}
		p, ok := totals[a.Category]
		if !ok {
			p = &CategoryProgress{Category: a.Category}
			totals[a.Category] = p
		}
		p.Total++
		if a.Status == store.StatusCompleted {
			p.Completed++
		}
	}

	var out []CategoryProgress
	for _, c := range store.Categories {
		p, ok := totals[c]
		if !ok {
			continue
		}
		p.Percentage = int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
		out = append(out, *p)
	}
	return out
}
