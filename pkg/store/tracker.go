package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stefanpenner/trackline/pkg/clock"
	"github.com/stefanpenner/trackline/pkg/kv"
)

// Confirmation prompts for destructive actions.
const (
	PromptDeleteActivity  = "Delete this activity?"
	PromptDeleteMilestone = "Delete this milestone?"
	PromptClearAll        = "Delete ALL data? This cannot be undone."
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed approves every prompt. Hosts use it once the user has already
// answered their own confirmation dialog.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// Tracker owns the three stores and their persistence for the lifetime of
// a process.
type Tracker struct {
	Activities *ActivityStore
	Milestones *MilestoneStore
	Colors     *ColorStore

	clock     clock.Clock
	gateway   kv.Gateway
	persister *Persister
	log       *logrus.Entry
}

// Options tunes a Tracker.
type Options struct {
	WriteTimeout time.Duration
}

// Open builds a Tracker and loads any persisted state. Missing or corrupt
// values fall back to empty collections and default colors.
func Open(ctx context.Context, gw kv.Gateway, clk clock.Clock, opts Options) *Tracker {
	p := NewPersister(gw, opts.WriteTimeout)
	t := &Tracker{
		Activities: NewActivityStore(clk, p),
		Milestones: NewMilestoneStore(p),
		Colors:     NewColorStore(p),
		clock:      clk,
		gateway:    gw,
		persister:  p,
		log:        logrus.WithField("component", "tracker"),
	}
	t.load(ctx, true)
	return t
}

// Clock returns the tracker's time source.
func (t *Tracker) Clock() clock.Clock {
	return t.clock
}

// Reclassify promotes activities whose window contains the current instant.
func (t *Tracker) Reclassify() int {
	return t.Activities.Reclassify(t.clock.Now())
}

// Reload re-reads persisted values changed by another process. Values this
// tracker loaded or wrote itself are skipped. While writes are still pending
// nothing is read and deferred is true; the caller retries once they drain.
func (t *Tracker) Reload(ctx context.Context) (changed, deferred bool) {
	if t.persister.Pending() > 0 {
		t.log.Debug("writes pending, deferring reload")
		return false, true
	}
	return t.load(ctx, false), false
}

// DeleteActivity removes an activity after confirmation.
func (t *Tracker) DeleteActivity(id string, c Confirmer) bool {
	if _, ok := t.Activities.Get(id); !ok {
		return false
	}
	if !c.Confirm(PromptDeleteActivity) {
		return false
	}
	return t.Activities.Delete(id)
}

// DeleteMilestone removes a milestone after confirmation.
func (t *Tracker) DeleteMilestone(id string, c Confirmer) bool {
	if _, ok := t.Milestones.Get(id); !ok {
		return false
	}
	if !c.Confirm(PromptDeleteMilestone) {
		return false
	}
	return t.Milestones.Delete(id)
}

// ClearAll deletes every persisted key and resets in-memory state after
// confirmation. Key deletions are fire-and-forget; state is reset even if
// they fail.
func (t *Tracker) ClearAll(c Confirmer) bool {
	if !c.Confirm(PromptClearAll) {
		return false
	}
	for _, key := range Keys {
		t.persister.Delete(key)
	}
	t.Activities.replace(nil)
	t.Milestones.replace(nil)
	t.Colors.Reset()
	t.log.Info("all data cleared")
	return true
}

// Close flushes pending writes.
func (t *Tracker) Close() {
	t.persister.Close()
}

func (t *Tracker) load(ctx context.Context, initial bool) bool {
	changed := false
	for _, key := range Keys {
		value, ok, err := t.gateway.Get(ctx, key)
		if err != nil {
			t.log.WithError(err).WithField("key", key).Debug("reading persisted value")
			if !initial {
				continue
			}
			ok = false
		}
		if !initial && t.persister.unchanged(key, value, ok) {
			continue
		}
		t.apply(key, value, ok)
		if err == nil {
			t.persister.observe(key, value, ok)
		}
		changed = true
	}
	if changed && !initial {
		t.log.Info("reloaded external changes")
	}
	return changed
}

func (t *Tracker) apply(key, value string, ok bool) {
	log := t.log.WithField("key", key)
	switch key {
	case KeyActivities:
		var items []Activity
		if ok {
			decoded, err := DecodeActivities(value)
			if err != nil {
				log.WithError(err).Debug("starting with no activities")
			} else {
				items = decoded
			}
		}
		t.Activities.replace(items)
	case KeyMilestones:
		var items []Milestone
		if ok {
			decoded, err := DecodeMilestones(value)
			if err != nil {
				log.WithError(err).Debug("starting with no milestones")
			} else {
				items = decoded
			}
		}
		t.Milestones.replace(items)
	case KeyColors:
		colors := DefaultColors()
		if ok {
			decoded, err := DecodeColors(value)
			if err != nil {
				log.WithError(err).Debug("starting with default colors")
			} else {
				colors = decoded
			}
		}
		t.Colors.replace(colors)
	}
}
