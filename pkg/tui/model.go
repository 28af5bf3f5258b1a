package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/trackline/pkg/engine"
	"github.com/stefanpenner/trackline/pkg/store"
)

// ClockTickMsg advances the displayed time.
type ClockTickMsg struct {
	Now time.Time
}

// ReclassifyMsg asks the model to promote due activities.
type ReclassifyMsg struct {
	Now time.Time
}

// ReloadMsg is sent when the file watcher detects changes.
type ReloadMsg struct{}

const (
	paneToday = iota
	paneJourney
)

// Add form fields, in tab order.
const (
	fieldCategory = iota
	fieldName
	fieldWhen
	fieldDuration
	fieldDescription
	fieldCount
)

// confirmState is a pending destructive action awaiting y/n.
type confirmState struct {
	title  string
	prompt string
	run    func(store.Confirmer) bool
	done   string
}

// Model is the Bubble Tea model for the tracker.
type Model struct {
	tracker     *store.Tracker
	keys        KeyMap
	width       int
	height      int
	now         time.Time
	focusedPane int
	cursor      [2]int

	// Modal state
	showHelpModal bool
	confirm       *confirmState

	// Add activity form
	isAddMode bool
	form      []textinput.Model
	formFocus int
	formErr   string

	// Add milestone input
	isMilestoneMode bool
	milestoneInput  textinput.Model

	// Color editor
	isColorMode bool
	colorCursor int

	// Status message
	statusMsg     string
	statusTimeout time.Time
}

// NewModel creates a new TUI model over an open tracker.
func NewModel(t *store.Tracker) Model {
	mi := textinput.New()
	mi.Placeholder = "name [: value]"
	mi.CharLimit = 80

	return Model{
		tracker:        t,
		keys:           DefaultKeyMap(),
		now:            t.Clock().Now(),
		form:           newForm(),
		milestoneInput: mi,
	}
}

func newForm() []textinput.Model {
	form := make([]textinput.Model, fieldCount)
	for i := range form {
		ti := textinput.New()
		ti.CharLimit = 64
		form[i] = ti
	}
	form[fieldCategory].Placeholder = "cardio"
	form[fieldName].Placeholder = "Morning run"
	form[fieldWhen].Placeholder = "HH:MM (blank = now)"
	form[fieldDuration].Placeholder = "30"
	form[fieldDescription].Placeholder = "optional"
	form[fieldDuration].CharLimit = 4
	return form
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, tea.ClearScreen

	case ClockTickMsg:
		m.now = msg.Now
		return m, nil

	case ReclassifyMsg:
		m.now = msg.Now
		if n := m.tracker.Activities.Reclassify(msg.Now); n > 0 {
			m.setStatus(plural(n, "activity", "activities") + " now active")
		}
		return m, nil

	case ReloadMsg:
		cmd := m.reload(false)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.isAddMode {
		var cmd tea.Cmd
		m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
		return m, cmd
	}
	if m.isMilestoneMode {
		var cmd tea.Cmd
		m.milestoneInput, cmd = m.milestoneInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isAddMode {
		return m.handleAddMode(msg)
	}

	if m.isMilestoneMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.isMilestoneMode = false
			return m, nil
		case tea.KeyEnter:
			name, value, _ := strings.Cut(m.milestoneInput.Value(), ":")
			if strings.TrimSpace(name) == "" {
				m.setStatus("Error: " + store.ErrEmptyName.Error())
			} else {
				ms := m.tracker.Milestones.Add(name, value)
				m.setStatus("Added milestone: " + ms.Name)
			}
			m.isMilestoneMode = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.milestoneInput, cmd = m.milestoneInput.Update(msg)
			return m, cmd
		}
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Delete / clear confirmation
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			if m.confirm.run(store.Confirmed) {
				m.setStatus(m.confirm.done)
				m.clampCursors()
			}
			m.confirm = nil
		case "n", "N", "esc":
			m.confirm = nil
		}
		return m, nil
	}

	if m.isColorMode {
		return m.handleColorMode(msg)
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.focusedPane] > 0 {
			m.cursor[m.focusedPane]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.focusedPane] < m.paneLen(m.focusedPane)-1 {
			m.cursor[m.focusedPane]++
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Space):
		m.toggleSelected()

	case key.Matches(msg, m.keys.Add):
		m.form = newForm()
		m.formFocus = fieldCategory
		m.formErr = ""
		m.form[fieldCategory].Focus()
		m.isAddMode = true
		return m, textinput.Blink

	case key.Matches(msg, m.keys.AddMilestone):
		m.milestoneInput.SetValue("")
		m.milestoneInput.Focus()
		m.isMilestoneMode = true
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		m.confirmDeleteSelected()

	case key.Matches(msg, m.keys.Colors):
		m.isColorMode = true
		m.colorCursor = 0

	case key.Matches(msg, m.keys.ClearAll):
		m.confirm = &confirmState{
			title:  "Clear All",
			prompt: store.PromptClearAll,
			run:    m.tracker.ClearAll,
			done:   "All data cleared",
		}

	case key.Matches(msg, m.keys.Reload):
		cmd := m.reload(true)
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

func (m Model) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isAddMode = false
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusField((m.formFocus + 1) % fieldCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusField((m.formFocus + fieldCount - 1) % fieldCount)
		return m, nil
	case tea.KeyEnter:
		a, err := m.tracker.Activities.AddInput(store.ActivityInput{
			Category:    m.form[fieldCategory].Value(),
			Name:        m.form[fieldName].Value(),
			When:        m.form[fieldWhen].Value(),
			Duration:    m.form[fieldDuration].Value(),
			Description: m.form[fieldDescription].Value(),
		})
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.isAddMode = false
		m.setStatus("Added: " + a.Name)
		return m, nil
	default:
		var cmd tea.Cmd
		m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
		return m, cmd
	}
}

func (m *Model) focusField(i int) {
	m.form[m.formFocus].Blur()
	m.formFocus = i
	m.form[i].Focus()
}

func (m Model) handleColorMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Colors):
		m.isColorMode = false
	case key.Matches(msg, m.keys.Up):
		if m.colorCursor > 0 {
			m.colorCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.colorCursor < len(store.Categories)-1 {
			m.colorCursor++
		}
	case key.Matches(msg, m.keys.Right):
		m.cycleColor(1)
	case key.Matches(msg, m.keys.Left):
		m.cycleColor(-1)
	}
	return m, nil
}

// cycleColor moves the selected category to the next palette entry.
func (m *Model) cycleColor(delta int) {
	c := store.Categories[m.colorCursor]
	current := m.tracker.Colors.Color(c)
	idx := 0
	for i, p := range store.Palette {
		if strings.EqualFold(p.Hex, current) {
			idx = i
			break
		}
	}
	n := len(store.Palette)
	next := store.Palette[((idx+delta)%n+n)%n]
	if err := m.tracker.Colors.Set(c, next.Hex); err != nil {
		m.setStatus("Error: " + err.Error())
	}
}

func (m *Model) toggleSelected() {
	switch m.focusedPane {
	case paneToday:
		items := m.activityItems()
		if m.cursor[paneToday] >= len(items) {
			return
		}
		a := items[m.cursor[paneToday]].Activity
		if m.tracker.Activities.MarkComplete(a.ID) {
			m.setStatus("Completed: " + a.Name)
		}
	case paneJourney:
		nodes := m.journey().Nodes
		if m.cursor[paneJourney] >= len(nodes) {
			return
		}
		m.tracker.Milestones.Toggle(nodes[m.cursor[paneJourney]].Milestone.ID)
	}
}

func (m *Model) confirmDeleteSelected() {
	switch m.focusedPane {
	case paneToday:
		items := m.activityItems()
		if m.cursor[paneToday] >= len(items) {
			return
		}
		a := items[m.cursor[paneToday]].Activity
		t := m.tracker
		m.confirm = &confirmState{
			title:  "Delete Activity",
			prompt: store.PromptDeleteActivity,
			run: func(c store.Confirmer) bool {
				return t.DeleteActivity(a.ID, c)
			},
			done: "Deleted: " + a.Name,
		}
	case paneJourney:
		nodes := m.journey().Nodes
		if m.cursor[paneJourney] >= len(nodes) {
			return
		}
		ms := nodes[m.cursor[paneJourney]].Milestone
		t := m.tracker
		m.confirm = &confirmState{
			title:  "Delete Milestone",
			prompt: store.PromptDeleteMilestone,
			run: func(c store.Confirmer) bool {
				return t.DeleteMilestone(ms.ID, c)
			},
			done: "Deleted: " + ms.Name,
		}
	}
}

func (m Model) activityItems() []ActivityItem {
	return BuildActivityItems(m.tracker.Activities.List(), m.tracker.Colors.Get(), m.now)
}

func (m Model) journey() engine.Journey {
	return engine.BuildJourney(m.tracker.Milestones.List(), m.tracker.Colors.Color(store.CategoryCardio))
}

func (m Model) paneLen(pane int) int {
	if pane == paneToday {
		return len(m.activityItems())
	}
	return m.tracker.Milestones.Len()
}

func (m *Model) clampCursors() {
	for pane := range m.cursor {
		n := m.paneLen(pane)
		if m.cursor[pane] >= n {
			m.cursor[pane] = n - 1
		}
		if m.cursor[pane] < 0 {
			m.cursor[pane] = 0
		}
	}
}

// reload applies external changes. While local writes are in flight it
// schedules another ReloadMsg after the watcher debounce.
func (m *Model) reload(manual bool) tea.Cmd {
	changed, deferred := m.tracker.Reload(context.Background())
	if deferred {
		return tea.Tick(watchDebounce, func(time.Time) tea.Msg { return ReloadMsg{} })
	}
	if changed || manual {
		m.clampCursors()
		m.setStatus("Reloaded")
	}
	return nil
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
