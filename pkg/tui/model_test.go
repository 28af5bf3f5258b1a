package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/trackline/pkg/clock"
	"github.com/stefanpenner/trackline/pkg/kv"
	"github.com/stefanpenner/trackline/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)

func setupTestModel(t *testing.T) (Model, *store.Tracker, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(start)
	tr := store.Open(context.Background(), kv.NewMemory(), clk, store.Options{})
	t.Cleanup(tr.Close)
	m := NewModel(tr)
	m.width, m.height = 100, 30
	return m, tr, clk
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCountdownFollowsClockTicks(t *testing.T) {
	m, tr, clk := setupTestModel(t)
	tr.Activities.Add(store.CategoryCardio, "Run", "", start.Add(70*time.Minute), 30)

	m = update(t, m, ClockTickMsg{Now: clk.Now()})
	assert.Contains(t, m.View(), "1 hr 10 min")

	m = update(t, m, ClockTickMsg{Now: clk.Advance(60 * time.Minute)})
	assert.Contains(t, m.View(), "10 min")

	m = update(t, m, ClockTickMsg{Now: clk.Advance(11 * time.Minute)})
	assert.Contains(t, m.View(), "Due")
}

func TestReclassifyMsgPromotes(t *testing.T) {
	m, tr, _ := setupTestModel(t)
	a := tr.Activities.Add(store.CategoryStrength, "Lift", "", start.Add(5*time.Minute), 30)

	m = update(t, m, ReclassifyMsg{Now: start})
	got, _ := tr.Activities.Get(a.ID)
	assert.Equal(t, store.StatusScheduled, got.Status)

	m = update(t, m, ReclassifyMsg{Now: start.Add(6 * time.Minute)})
	got, _ = tr.Activities.Get(a.ID)
	assert.Equal(t, store.StatusActive, got.Status)
	assert.Equal(t, "1 activity now active", m.statusMsg)
}

func TestCompleteSelected(t *testing.T) {
	m, tr, _ := setupTestModel(t)
	a := tr.Activities.Add(store.CategoryCardio, "Run", "", start.Add(time.Hour), 30)

	m = update(t, m, keyMsg(" "))
	got, _ := tr.Activities.Get(a.ID)
	assert.Equal(t, store.StatusCompleted, got.Status)
	assert.Contains(t, m.View(), IconComplete)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, tr, _ := setupTestModel(t)
	tr.Activities.Add(store.CategoryCardio, "Run", "", start.Add(time.Hour), 30)

	m = update(t, m, keyMsg("d"))
	require.NotNil(t, m.confirm)
	assert.Contains(t, m.View(), store.PromptDeleteActivity)

	m = update(t, m, keyMsg("n"))
	assert.Nil(t, m.confirm)
	assert.Equal(t, 1, tr.Activities.Len())

	m = update(t, m, keyMsg("d"))
	m = update(t, m, keyMsg("y"))
	assert.Nil(t, m.confirm)
	assert.Equal(t, 0, tr.Activities.Len())
	assert.Equal(t, 0, m.cursor[paneToday])
}

func TestAddActivityForm(t *testing.T) {
	m, tr, _ := setupTestModel(t)

	m = update(t, m, keyMsg("a"))
	require.True(t, m.isAddMode)

	m.form[fieldCategory].SetValue("yoga")
	m.form[fieldName].SetValue("Stretch")
	m = update(t, m, keyMsg("enter"))
	assert.True(t, m.isAddMode)
	assert.Contains(t, m.formErr, "unknown category")
	assert.Equal(t, 0, tr.Activities.Len())

	m.form[fieldCategory].SetValue("flexibility")
	m.form[fieldWhen].SetValue("18:30")
	m.form[fieldDuration].SetValue("20")
	m = update(t, m, keyMsg("enter"))
	assert.False(t, m.isAddMode)

	list := tr.Activities.List()
	require.Len(t, list, 1)
	assert.Equal(t, store.CategoryFlexibility, list[0].Category)
	assert.Equal(t, 20, list[0].DurationMinutes)
	assert.Equal(t, time.Date(2026, 2, 11, 18, 30, 0, 0, time.UTC), list[0].ScheduledTime)
}

func TestAddFormTabCyclesFields(t *testing.T) {
	m, _, _ := setupTestModel(t)
	m = update(t, m, keyMsg("a"))
	for i := 1; i <= fieldCount; i++ {
		m = update(t, m, keyMsg("tab"))
		assert.Equal(t, i%fieldCount, m.formFocus)
	}
	m = update(t, m, keyMsg("esc"))
	assert.False(t, m.isAddMode)
}

func TestMilestoneJourney(t *testing.T) {
	m, tr, _ := setupTestModel(t)

	for _, v := range []string{"5K: 25 min", "10K", "Half marathon"} {
		m = update(t, m, keyMsg("m"))
		m.milestoneInput.SetValue(v)
		m = update(t, m, keyMsg("enter"))
	}
	list := tr.Milestones.List()
	require.Len(t, list, 3)
	assert.Equal(t, "5K", list[0].Name)
	assert.Equal(t, "25 min", list[0].Value)

	m = update(t, m, keyMsg("tab"))
	m = update(t, m, keyMsg(" "))
	assert.Contains(t, m.View(), "JOURNEY  1/3")

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("d"))
	require.NotNil(t, m.confirm)
	assert.Equal(t, store.PromptDeleteMilestone, m.confirm.prompt)
	m = update(t, m, keyMsg("Y"))
	assert.Equal(t, 2, tr.Milestones.Len())
	assert.Equal(t, 1, m.cursor[paneJourney])
}

func TestColorEditorCycles(t *testing.T) {
	m, tr, _ := setupTestModel(t)

	m = update(t, m, keyMsg("c"))
	require.True(t, m.isColorMode)
	m = update(t, m, keyMsg("l"))
	assert.Equal(t, store.Palette[1].Hex, tr.Colors.Color(store.CategoryCardio))

	m = update(t, m, keyMsg("h"))
	m = update(t, m, keyMsg("h"))
	assert.Equal(t, store.Palette[len(store.Palette)-1].Hex, tr.Colors.Color(store.CategoryCardio))

	m = update(t, m, keyMsg("esc"))
	assert.False(t, m.isColorMode)
}

func TestClearAll(t *testing.T) {
	m, tr, _ := setupTestModel(t)
	tr.Activities.Add(store.CategoryCardio, "Run", "", start, 30)
	tr.Milestones.Add("5K", "")
	require.NoError(t, tr.Colors.Set(store.CategoryCardio, "pink"))

	m = update(t, m, keyMsg("X"))
	require.NotNil(t, m.confirm)
	assert.Equal(t, store.PromptClearAll, m.confirm.prompt)
	m = update(t, m, keyMsg("y"))

	assert.Zero(t, tr.Activities.Len())
	assert.Zero(t, tr.Milestones.Len())
	assert.Equal(t, store.DefaultColors(), tr.Colors.Get())
	assert.Equal(t, "All data cleared", m.statusMsg)
}

func TestHelpModal(t *testing.T) {
	m, _, _ := setupTestModel(t)
	m = update(t, m, keyMsg("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = update(t, m, keyMsg("esc"))
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestQuit(t *testing.T) {
	m, _, _ := setupTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// slowGateway holds milestone writes until release is called.
type slowGateway struct {
	*kv.Memory
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (g *slowGateway) Set(ctx context.Context, key, value string) error {
	if key == store.KeyMilestones {
		select {
		case g.entered <- struct{}{}:
		default:
		}
		<-g.gate
	}
	return g.Memory.Set(ctx, key, value)
}

func (g *slowGateway) release() { g.once.Do(func() { close(g.gate) }) }

func TestReloadRetriesWhileWritesPending(t *testing.T) {
	ctx := context.Background()
	gw := &slowGateway{Memory: kv.NewMemory(), gate: make(chan struct{}), entered: make(chan struct{}, 1)}

	tr := store.Open(ctx, gw, clock.NewFake(start), store.Options{})
	defer tr.Close()
	defer gw.release()
	m := NewModel(tr)

	tr.Milestones.Add("5K", "")
	<-gw.entered

	external, err := store.EncodeActivities([]store.Activity{{
		ID: "ext", Category: store.CategoryCardio, Name: "Run",
		ScheduledTime: start, DurationMinutes: 30, Status: store.StatusScheduled,
	}})
	require.NoError(t, err)
	require.NoError(t, gw.Memory.Set(ctx, store.KeyActivities, external))

	next, cmd := m.Update(ReloadMsg{})
	m = next.(Model)
	require.NotNil(t, cmd, "a deferred reload schedules a retry")
	assert.Equal(t, 0, tr.Activities.Len())
	assert.Equal(t, ReloadMsg{}, cmd())

	gw.release()
	require.Eventually(t, func() bool {
		next, cmd = m.Update(ReloadMsg{})
		m = next.(Model)
		return cmd == nil
	}, time.Second, time.Millisecond)

	assert.Equal(t, "Reloaded", m.statusMsg)
	require.Equal(t, 1, tr.Activities.Len())
	assert.Equal(t, "Run", tr.Activities.List()[0].Name)
}

func TestEmptyMilestoneNameReportsError(t *testing.T) {
	m, tr, _ := setupTestModel(t)

	m = update(t, m, keyMsg("m"))
	m.milestoneInput.SetValue("  : 25 min")
	m = update(t, m, keyMsg("enter"))

	assert.False(t, m.isMilestoneMode)
	assert.Zero(t, tr.Milestones.Len())
	assert.Equal(t, "Error: "+store.ErrEmptyName.Error(), m.statusMsg)
}
