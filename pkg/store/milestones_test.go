package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMilestone(t *testing.T) {
	sink := newRecordingSink()
	s := NewMilestoneStore(sink)

	a := s.Add("  First 5K ", " sub 30 ")
	assert.Equal(t, "First 5K", a.Name)
	assert.Equal(t, "sub 30", a.Value)
	assert.Equal(t, 0, a.Order)
	assert.False(t, a.Completed)

	b := s.Add("Half marathon", "")
	assert.Equal(t, 1, b.Order)
	assert.Contains(t, sink.saves[KeyMilestones], "Half marathon")
}

func TestMilestoneOrderKeepsGaps(t *testing.T) {
	s := NewMilestoneStore(nil)
	a := s.Add("a", "")
	s.Add("b", "")
	require.True(t, s.Delete(a.ID))

	c := s.Add("c", "")
	// order is the count at creation time, so it collides with b
	assert.Equal(t, 1, c.Order)

	orders := []int{}
	for _, m := range s.List() {
		orders = append(orders, m.Order)
	}
	assert.Equal(t, []int{1, 1}, orders)
}

func TestToggleMilestone(t *testing.T) {
	sink := newRecordingSink()
	s := NewMilestoneStore(sink)
	m := s.Add("5K", "")

	assert.True(t, s.Toggle(m.ID))
	got, _ := s.Get(m.ID)
	assert.True(t, got.Completed)

	assert.True(t, s.Toggle(m.ID))
	got, _ = s.Get(m.ID)
	assert.False(t, got.Completed)

	assert.False(t, s.Toggle("missing"))
	assert.Equal(t, 3, sink.writes)
}

func TestDeleteLastMilestoneSkipsWrite(t *testing.T) {
	sink := newRecordingSink()
	s := NewMilestoneStore(sink)
	m := s.Add("5K", "")

	assert.True(t, s.Delete(m.ID))
	assert.Equal(t, 1, sink.writes)
	assert.Contains(t, sink.saves[KeyMilestones], "5K")
}
