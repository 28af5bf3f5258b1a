package engine

import (
	"math"
	"sort"

	"github.com/stefanpenner/trackline/pkg/store"
)

// Node is one milestone on the journey line.
type Node struct {
	Milestone store.Milestone
	Completed bool
	// Current marks the node at position CompletedCount.
	Current bool
	// SegmentFilled describes the segment to the next node; always false on
	// the last node.
	SegmentFilled bool
}

// Journey is the positional progress model over the milestone sequence.
type Journey struct {
	Nodes          []Node
	CompletedCount int
	// CurrentIndex is CompletedCount, or -1 when every position is passed.
	CurrentIndex int
	Percentage   int
	LineColor    string
}

// BuildJourney orders milestones by their creation order (stable, so equal
// orders keep list order) and lays them out positionally. The current
// marker and the filled segments are driven by the completed count alone,
// not by which milestones are completed: with [A done, B, C done] the
// current node is C.
func BuildJourney(milestones []store.Milestone, lineColor string) Journey {
	ordered := make([]store.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	j := Journey{CurrentIndex: -1, LineColor: lineColor}
	for _, m := range ordered {
		if m.Completed {
			j.CompletedCount++
		}
	}
	if j.CompletedCount < len(ordered) {
		j.CurrentIndex = j.CompletedCount
	}
	if len(ordered) > 0 {
		j.Percentage = int(math.Round(100 * float64(j.CompletedCount) / float64(len(ordered))))
	}

	j.Nodes = make([]Node, len(ordered))
	for i, m := range ordered {
		j.Nodes[i] = Node{
			Milestone:     m,
			Completed:     m.Completed,
			Current:       i == j.CurrentIndex,
			SegmentFilled: i < len(ordered)-1 && i < j.CompletedCount,
		}
	}
	return j
}
