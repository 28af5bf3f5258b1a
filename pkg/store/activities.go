package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stefanpenner/trackline/pkg/clock"
)

// ActivityStore owns the in-memory activity collection. It is not safe for
// concurrent use; hosts call it from a single goroutine.
type ActivityStore struct {
	clock clock.Clock
	sink  Sink
	log   *logrus.Entry
	items []Activity
}

// NewActivityStore creates an empty store that reports mutations to sink.
func NewActivityStore(clk clock.Clock, sink Sink) *ActivityStore {
	return &ActivityStore{
		clock: clk,
		sink:  sinkOrDiscard(sink),
		log:   logrus.WithField("component", "activities"),
	}
}

// Add creates a scheduled activity. Field contents are not validated here.
func (s *ActivityStore) Add(category Category, name, description string, scheduledTime time.Time, durationMinutes int) Activity {
	a := Activity{
		ID:              uuid.NewString(),
		Category:        category,
		Name:            name,
		Description:     description,
		ScheduledTime:   scheduledTime,
		DurationMinutes: durationMinutes,
		Status:          StatusScheduled,
		CreatedAt:       s.clock.Now(),
	}
	s.items = append(s.items, a)
	s.log.WithField("id", a.ID).Debug("activity added")
	s.persist()
	return a
}

// MarkComplete marks the activity completed. It reports whether anything
// changed: absent ids and already-completed activities are no-ops.
func (s *ActivityStore) MarkComplete(id string) bool {
	i := s.index(id)
	if i < 0 || s.items[i].Status == StatusCompleted {
		return false
	}
	s.items[i].Status = StatusCompleted
	s.persist()
	return true
}

// Delete removes the activity regardless of status.
func (s *ActivityStore) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist()
	return true
}

// Reclassify promotes scheduled activities whose window contains now to
// active and returns how many changed. Activities whose window has passed
// stay scheduled.
func (s *ActivityStore) Reclassify(now time.Time) int {
	changed := 0
	for i := range s.items {
		a := &s.items[i]
		if a.Status == StatusScheduled && a.InWindow(now) {
			a.Status = StatusActive
			changed++
		}
	}
	if changed > 0 {
		s.log.WithField("count", changed).Debug("activities became active")
		s.persist()
	}
	return changed
}

// Get returns the activity with the given id.
func (s *ActivityStore) Get(id string) (Activity, bool) {
	i := s.index(id)
	if i < 0 {
		return Activity{}, false
	}
	return s.items[i], true
}

// List returns a copy of all activities in insertion order.
func (s *ActivityStore) List() []Activity {
	out := make([]Activity, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of activities.
func (s *ActivityStore) Len() int {
	return len(s.items)
}

// replace swaps the collection without persisting; used by the load path.
func (s *ActivityStore) replace(items []Activity) {
	s.items = append([]Activity(nil), items...)
}

func (s *ActivityStore) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the collection. An empty collection is never written, so
// the previous snapshot stays in storage.
func (s *ActivityStore) persist() {
	if len(s.items) == 0 {
		s.log.Debug("activity collection empty, skipping write")
		return
	}
	value, err := EncodeActivities(s.items)
	if err != nil {
		s.log.WithError(err).Warn("encoding activities")
		return
	}
	s.sink.Save(KeyActivities, value)
}
