package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stefanpenner/trackline/pkg/engine"
	"github.com/stefanpenner/trackline/pkg/store"
)

const usage = "Usage: trackline [--dir DIR] [--json] [--verbose] [add|today|complete|delete|stats|week|milestone|journey|colors|clear|config init]"

var (
	errNotFound  = errors.New("no match")
	errAmbiguous = errors.New("ambiguous id prefix")
)

// app runs one CLI command against an open tracker.
type app struct {
	t       *store.Tracker
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	jsonOut bool
	yes     bool
}

func newApp(t *store.Tracker, in io.Reader, out, errOut io.Writer) *app {
	return &app{t: t, in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (a *app) dispatch(args []string) error {
	a.jsonOut = hasFlag(args, "--json")
	args = removeFlag(args, "--json")
	a.yes = hasFlag(args, "--yes")
	args = removeFlag(args, "--yes")

	if len(args) == 0 {
		return fmt.Errorf("%s", usage)
	}

	switch args[0] {
	case "add":
		desc, rest := takeValue(args[1:], "--desc")
		at, rest := takeValue(rest, "--at")
		duration, rest := takeValue(rest, "--duration")
		if len(rest) < 2 {
			return fmt.Errorf("usage: trackline add <category> <name> [--desc D] [--at TIME] [--duration MIN]")
		}
		return a.cmdAdd(store.ActivityInput{
			Category:    rest[0],
			Name:        strings.Join(rest[1:], " "),
			Description: desc,
			When:        at,
			Duration:    duration,
		})
	case "today":
		return a.cmdToday()
	case "complete":
		if len(args) < 2 {
			return fmt.Errorf("usage: trackline complete <id>")
		}
		return a.cmdComplete(args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: trackline delete <id> [--yes]")
		}
		return a.cmdDelete(args[1])
	case "stats":
		return a.cmdStats()
	case "week":
		return a.cmdWeek()
	case "milestone":
		return a.cmdMilestone(args[1:])
	case "journey":
		return a.cmdJourney()
	case "colors":
		if len(args) >= 4 && args[1] == "set" {
			return a.cmdSetColor(args[2], strings.Join(args[3:], " "))
		}
		if len(args) > 1 {
			return fmt.Errorf("usage: trackline colors [set <category> <color>]")
		}
		return a.cmdColors()
	case "clear":
		return a.cmdClear()
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

// CLI Commands

func (a *app) cmdAdd(in store.ActivityInput) error {
	act, err := a.t.Activities.AddInput(in)
	if err != nil {
		return err
	}
	// a start time already inside its window is active right away
	a.t.Reclassify()
	act, _ = a.t.Activities.Get(act.ID)

	if a.jsonOut {
		return a.outputJSON(act)
	}
	fmt.Fprintf(a.out, "Added: %s %s at %s (%d min) [%s]\n",
		act.Category.Title(), act.Name, act.ScheduledTime.Format("Mon Jan 2 15:04"), act.DurationMinutes, shortID(act.ID))
	return nil
}

func (a *app) cmdToday() error {
	now := a.t.Clock().Now()
	today := engine.TodayActivities(a.t.Activities.List(), now)

	if a.jsonOut {
		rows := make([]map[string]interface{}, 0, len(today))
		for _, act := range today {
			d := engine.DisplayStatus(act, now)
			rows = append(rows, map[string]interface{}{
				"activity": act,
				"label":    d.Label,
				"due":      d.IsDue,
			})
		}
		return a.outputJSON(rows)
	}

	if len(today) == 0 {
		fmt.Fprintln(a.out, "Nothing scheduled today.")
		return nil
	}
	for _, act := range today {
		d := engine.DisplayStatus(act, now)
		fmt.Fprintf(a.out, "%s  %s  %-12s %-24s %s\n",
			shortID(act.ID), act.ScheduledTime.Format("15:04"), act.Category.Title(), act.Name, d.Label)
	}
	return nil
}

func (a *app) cmdComplete(prefix string) error {
	act, err := a.findActivity(prefix)
	if err != nil {
		return err
	}
	changed := a.t.Activities.MarkComplete(act.ID)
	act, _ = a.t.Activities.Get(act.ID)

	if a.jsonOut {
		return a.outputJSON(act)
	}
	if !changed {
		fmt.Fprintf(a.out, "%s was already completed\n", act.Name)
		return nil
	}
	fmt.Fprintf(a.out, "%s → completed\n", act.Name)
	return nil
}

func (a *app) cmdDelete(prefix string) error {
	act, err := a.findActivity(prefix)
	if err != nil {
		return err
	}
	deleted := a.t.DeleteActivity(act.ID, a.confirmer())

	if a.jsonOut {
		return a.outputJSON(map[string]interface{}{"id": act.ID, "deleted": deleted})
	}
	if deleted {
		fmt.Fprintf(a.out, "Deleted: %s\n", act.Name)
	} else {
		fmt.Fprintln(a.out, "Cancelled")
	}
	return nil
}

func (a *app) cmdStats() error {
	c := engine.DailyStats(a.t.Activities.List(), a.t.Clock().Now())
	if a.jsonOut {
		return a.outputJSON(c)
	}
	fmt.Fprintf(a.out, "✓ %d completed  ● %d active  ○ %d scheduled\n", c.Completed, c.Active, c.Scheduled)
	return nil
}

func (a *app) cmdWeek() error {
	goals := engine.WeeklyGoals(a.t.Activities.List(), a.t.Clock().Now())
	if a.jsonOut {
		if goals == nil {
			goals = []engine.CategoryProgress{}
		}
		return a.outputJSON(goals)
	}

	if len(goals) == 0 {
		fmt.Fprintln(a.out, "No activities this week.")
		return nil
	}
	for _, g := range goals {
		filled := g.Percentage / 10
		bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
		fmt.Fprintf(a.out, "%-12s %s %d/%d %3d%%\n", g.Category.Title(), bar, g.Completed, g.Total, g.Percentage)
	}
	return nil
}

func (a *app) cmdMilestone(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: trackline milestone [add <name> [value]|toggle <id>|delete <id>]")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: trackline milestone add <name> [value]")
		}
		value := ""
		if len(args) >= 3 {
			value = strings.Join(args[2:], " ")
		}
		if strings.TrimSpace(args[1]) == "" {
			return store.ErrEmptyName
		}
		ms := a.t.Milestones.Add(args[1], value)
		if a.jsonOut {
			return a.outputJSON(ms)
		}
		fmt.Fprintf(a.out, "Added milestone: %s [%s]\n", ms.Name, shortID(ms.ID))
		return nil

	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("usage: trackline milestone toggle <id>")
		}
		ms, err := a.findMilestone(args[1])
		if err != nil {
			return err
		}
		a.t.Milestones.Toggle(ms.ID)
		ms, _ = a.t.Milestones.Get(ms.ID)
		if a.jsonOut {
			return a.outputJSON(ms)
		}
		state := "not completed"
		if ms.Completed {
			state = "completed"
		}
		fmt.Fprintf(a.out, "%s → %s\n", ms.Name, state)
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: trackline milestone delete <id> [--yes]")
		}
		ms, err := a.findMilestone(args[1])
		if err != nil {
			return err
		}
		deleted := a.t.DeleteMilestone(ms.ID, a.confirmer())
		if a.jsonOut {
			return a.outputJSON(map[string]interface{}{"id": ms.ID, "deleted": deleted})
		}
		if deleted {
			fmt.Fprintf(a.out, "Deleted: %s\n", ms.Name)
		} else {
			fmt.Fprintln(a.out, "Cancelled")
		}
		return nil

	default:
		return fmt.Errorf("unknown milestone command: %s", args[0])
	}
}

func (a *app) cmdJourney() error {
	j := engine.BuildJourney(a.t.Milestones.List(), a.t.Colors.Color(store.CategoryCardio))
	if a.jsonOut {
		return a.outputJSON(journeyToMap(j))
	}

	if len(j.Nodes) == 0 {
		fmt.Fprintln(a.out, "No milestones yet.")
		return nil
	}
	var line strings.Builder
	for i, n := range j.Nodes {
		switch {
		case n.Current:
			line.WriteString("◉")
		case n.Completed:
			line.WriteString("✓")
		default:
			line.WriteString("○")
		}
		if i < len(j.Nodes)-1 {
			if n.SegmentFilled {
				line.WriteString("━━━")
			} else {
				line.WriteString("───")
			}
		}
	}
	fmt.Fprintf(a.out, "%s  %d/%d (%d%%)\n", line.String(), j.CompletedCount, len(j.Nodes), j.Percentage)
	for _, n := range j.Nodes {
		mark := "○"
		if n.Completed {
			mark = "✓"
		}
		row := fmt.Sprintf("  %s %s  %s", mark, shortID(n.Milestone.ID), n.Milestone.Name)
		if n.Milestone.Value != "" {
			row += " (" + n.Milestone.Value + ")"
		}
		if n.Current {
			row += "  ← current"
		}
		fmt.Fprintln(a.out, row)
	}
	return nil
}

func (a *app) cmdColors() error {
	colors := a.t.Colors.Get()
	if a.jsonOut {
		return a.outputJSON(colors)
	}
	for _, c := range store.Categories {
		fmt.Fprintf(a.out, "%-12s %s %s\n", c.Title(), colors[c], store.ColorName(colors[c]))
	}
	return nil
}

func (a *app) cmdSetColor(category, color string) error {
	if err := a.t.Colors.Set(store.Category(category), color); err != nil {
		return err
	}
	if a.jsonOut {
		return a.outputJSON(a.t.Colors.Get())
	}
	c, _ := store.ParseCategory(category)
	hex := a.t.Colors.Color(c)
	fmt.Fprintf(a.out, "%s → %s (%s)\n", c.Title(), store.ColorName(hex), hex)
	return nil
}

func (a *app) cmdClear() error {
	cleared := a.t.ClearAll(a.confirmer())
	if a.jsonOut {
		return a.outputJSON(map[string]bool{"cleared": cleared})
	}
	if cleared {
		fmt.Fprintln(a.out, "All data cleared.")
	} else {
		fmt.Fprintln(a.out, "Cancelled")
	}
	return nil
}

// Lookup helpers

func (a *app) findActivity(prefix string) (store.Activity, error) {
	var matches []store.Activity
	for _, act := range a.t.Activities.List() {
		if act.ID == prefix {
			return act, nil
		}
		if strings.HasPrefix(act.ID, prefix) {
			matches = append(matches, act)
		}
	}
	switch len(matches) {
	case 0:
		return store.Activity{}, fmt.Errorf("activity %q: %w", prefix, errNotFound)
	case 1:
		return matches[0], nil
	default:
		return store.Activity{}, fmt.Errorf("activity %q: %w (%d matches)", prefix, errAmbiguous, len(matches))
	}
}

func (a *app) findMilestone(prefix string) (store.Milestone, error) {
	var matches []store.Milestone
	for _, ms := range a.t.Milestones.List() {
		if ms.ID == prefix {
			return ms, nil
		}
		if strings.HasPrefix(ms.ID, prefix) {
			matches = append(matches, ms)
		}
	}
	switch len(matches) {
	case 0:
		return store.Milestone{}, fmt.Errorf("milestone %q: %w", prefix, errNotFound)
	case 1:
		return matches[0], nil
	default:
		return store.Milestone{}, fmt.Errorf("milestone %q: %w (%d matches)", prefix, errAmbiguous, len(matches))
	}
}

// confirmer asks on the terminal unless --yes was given.
func (a *app) confirmer() store.Confirmer {
	if a.yes {
		return store.Confirmed
	}
	return store.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(a.errOut, "%s [y/N] ", prompt)
		line, _ := a.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// JSON helpers

func (a *app) outputJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func journeyToMap(j engine.Journey) map[string]interface{} {
	nodes := make([]map[string]interface{}, 0, len(j.Nodes))
	for _, n := range j.Nodes {
		nodes = append(nodes, map[string]interface{}{
			"milestone":     n.Milestone,
			"completed":     n.Completed,
			"current":       n.Current,
			"segmentFilled": n.SegmentFilled,
		})
	}
	return map[string]interface{}{
		"nodes":          nodes,
		"completedCount": j.CompletedCount,
		"currentIndex":   j.CurrentIndex,
		"percentage":     j.Percentage,
		"lineColor":      j.LineColor,
	}
}
