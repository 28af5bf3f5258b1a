// Package engine holds the pure functions that turn stored activities and
// milestones into what a host displays. Nothing here mutates its inputs or
// caches results.
package engine

import (
	"fmt"
	"time"

	"github.com/stefanpenner/trackline/pkg/store"
)

const (
	// DoneLabel marks a completed activity.
	DoneLabel = "✓"
	// DueLabel marks an activity whose start time has passed.
	DueLabel = "Due"
)

// Display is the derived status of an activity at an instant.
type Display struct {
	Label string
	IsDue bool
	Done  bool
}

// DisplayStatus computes the countdown label for a. Stored status is only
// consulted for completion; an active activity whose window has closed
// shows "Due".
func DisplayStatus(a store.Activity, now time.Time) Display {
	if a.Status == store.StatusCompleted {
		return Display{Label: DoneLabel, Done: true}
	}

	d := a.ScheduledTime.Sub(now)
	if d < 0 {
		return Display{Label: DueLabel, IsDue: true}
	}
	return Display{Label: FormatRemaining(d.Milliseconds())}
}

// FormatRemaining renders a non-negative millisecond count as
// "{h} hr {m} min" or "{m} min".
func FormatRemaining(ms int64) string {
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	if hours > 0 {
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}
