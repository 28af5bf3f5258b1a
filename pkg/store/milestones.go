package store

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MilestoneStore owns the ordered milestone collection.
type MilestoneStore struct {
	sink  Sink
	log   *logrus.Entry
	items []Milestone
}

// NewMilestoneStore creates an empty store that reports mutations to sink.
func NewMilestoneStore(sink Sink) *MilestoneStore {
	return &MilestoneStore{
		sink: sinkOrDiscard(sink),
		log:  logrus.WithField("component", "milestones"),
	}
}

// Add appends a milestone. Order is the current count and is never
// renumbered, so deletions leave gaps.
func (s *MilestoneStore) Add(name, value string) Milestone {
	m := Milestone{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
		Order: len(s.items),
	}
	s.items = append(s.items, m)
	s.persist()
	return m
}

// Toggle flips the completed flag.
func (s *MilestoneStore) Toggle(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i].Completed = !s.items[i].Completed
	s.persist()
	return true
}

// Delete removes the milestone.
func (s *MilestoneStore) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist()
	return true
}

func (s *MilestoneStore) Get(id string) (Milestone, bool) {
	i := s.index(id)
	if i < 0 {
		return Milestone{}, false
	}
	return s.items[i], true
}

// List returns a copy of all milestones in insertion order.
func (s *MilestoneStore) List() []Milestone {
	out := make([]Milestone, len(s.items))
	copy(out, s.items)
	return out
}

func (s *MilestoneStore) Len() int {
	return len(s.items)
}

func (s *MilestoneStore) replace(items []Milestone) {
	s.items = append([]Milestone(nil), items...)
}

func (s *MilestoneStore) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MilestoneStore) persist() {
	if len(s.items) == 0 {
		s.log.Debug("milestone collection empty, skipping write")
		return
	}
	value, err := EncodeMilestones(s.items)
	if err != nil {
		s.log.WithError(err).Warn("encoding milestones")
		return
	}
	s.sink.Save(KeyMilestones, value)
}
