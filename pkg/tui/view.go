package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/trackline/pkg/engine"
	"github.com/stefanpenner/trackline/pkg/store"
)

const minWidth = 50
const minHeight = 12

const barWidth = 16

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	switch {
	case m.showHelpModal:
		return placeOverlay(m.renderHelpModal(), w, h)
	case m.confirm != nil:
		return placeOverlay(m.renderConfirmModal(), w, h)
	case m.isAddMode:
		return placeOverlay(m.renderAddModal(), w, h)
	case m.isMilestoneMode:
		return placeOverlay(m.renderMilestoneModal(), w, h)
	case m.isColorMode:
		return placeOverlay(m.renderColorModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2
	contentHeight := h - headerLines - footerLines

	leftWidth := w / 2
	rightWidth := w - leftWidth - 1

	leftPanel := m.renderTodayPanel(leftWidth, contentHeight)
	rightPanel := m.renderProgressPanel(rightWidth, contentHeight)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Trackline")
	clock := ClockStyle.Render(m.now.Format("Mon Jan 2  15:04"))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(clock) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status + clock
}

func (m Model) renderStats() string {
	c := engine.DailyStats(m.tracker.Activities.List(), m.now)
	return CompleteStyle.Render(fmt.Sprintf("%s %d done", IconComplete, c.Completed)) + "  " +
		ActiveStyle.Render(fmt.Sprintf("%s %d active", IconActive, c.Active)) + "  " +
		ScheduledStyle.Render(fmt.Sprintf("%s %d scheduled", IconScheduled, c.Scheduled))
}

func (m Model) renderTodayPanel(width, height int) string {
	var lines []string
	lines = append(lines, m.sectionTitle("TODAY", paneToday))

	items := m.activityItems()
	if len(items) == 0 {
		lines = append(lines, FooterStyle.Render(" Nothing scheduled. Press 'a' to add an activity."))
	}

	start := scrollStart(m.cursor[paneToday], len(items), height-1)
	for i := start; i < len(items) && len(lines) < height; i++ {
		lines = append(lines, m.renderActivityRow(items[i], width, m.focusedPane == paneToday && i == m.cursor[paneToday]))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderActivityRow(item ActivityItem, width int, selected bool) string {
	a := item.Activity
	cursor := " "
	if selected {
		cursor = IconCursor
	}

	var labelStyle lipgloss.Style
	switch {
	case item.Display.Done:
		labelStyle = CompleteStyle
	case item.Display.IsDue:
		labelStyle = DueStyle
	default:
		labelStyle = CountdownStyle
	}
	label := labelStyle.Render(item.Display.Label)

	icon := categoryStyle(item.Color).Render(statusIcon(a))
	left := fmt.Sprintf("%s %s %s %s", cursor, icon, a.ScheduledTime.Format("15:04"), a.Name)
	if selected {
		left = SelectedStyle.Render(left)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(label) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + label
}

func (m Model) renderProgressPanel(width, height int) string {
	var lines []string

	lines = append(lines, SectionStyle.Render(" THIS WEEK"))
	goals := engine.WeeklyGoals(m.tracker.Activities.List(), m.now)
	if len(goals) == 0 {
		lines = append(lines, FooterStyle.Render(" No activities this week."))
	}
	colors := m.tracker.Colors.Get()
	for _, g := range goals {
		name := fmt.Sprintf(" %-12s", g.Category.Title())
		bar := progressBar(g.Percentage, barWidth, colors[g.Category])
		lines = append(lines, fmt.Sprintf("%s%s %d/%d %3d%%", name, bar, g.Completed, g.Total, g.Percentage))
	}

	lines = append(lines, "")
	j := m.journey()
	lines = append(lines, m.sectionTitle(fmt.Sprintf("JOURNEY  %d/%d", j.CompletedCount, len(j.Nodes)), paneJourney))
	if len(j.Nodes) == 0 {
		lines = append(lines, FooterStyle.Render(" No milestones. Press 'm' to add one."))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, " "+renderTrack(j, width-2))

	start := scrollStart(m.cursor[paneJourney], len(j.Nodes), height-len(lines))
	for i := start; i < len(j.Nodes) && len(lines) < height; i++ {
		lines = append(lines, m.renderMilestoneRow(j, i))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMilestoneRow(j engine.Journey, i int) string {
	n := j.Nodes[i]
	selected := m.focusedPane == paneJourney && i == m.cursor[paneJourney]

	cursor := " "
	if selected {
		cursor = IconCursor
	}
	icon := nodeIcon(n)
	style := ScheduledStyle
	if n.Completed {
		style = CompleteStyle
	}

	row := fmt.Sprintf("%s %s %s", cursor, style.Render(icon), n.Milestone.Name)
	if n.Milestone.Value != "" {
		row += " " + MilestoneValueStyle.Render(n.Milestone.Value)
	}
	if selected {
		row = SelectedStyle.Render(row)
	}
	return row
}

// renderTrack draws the journey as a line of stations joined by segments
// that fill up to the completed count.
func renderTrack(j engine.Journey, width int) string {
	if len(j.Nodes) == 0 {
		return ""
	}
	seg := 3
	if len(j.Nodes) > 1 {
		seg = (width - len(j.Nodes)) / (len(j.Nodes) - 1)
	}
	if seg < 1 {
		seg = 1
	}
	if seg > 6 {
		seg = 6
	}

	line := categoryStyle(j.LineColor)
	var b strings.Builder
	for i, n := range j.Nodes {
		icon := nodeIcon(n)
		if n.Completed || n.Current {
			b.WriteString(line.Render(icon))
		} else {
			b.WriteString(TrackEmptyStyle.Render(icon))
		}
		if i == len(j.Nodes)-1 {
			break
		}
		if n.SegmentFilled {
			b.WriteString(line.Render(strings.Repeat("━", seg)))
		} else {
			b.WriteString(TrackEmptyStyle.Render(strings.Repeat("─", seg)))
		}
	}
	return b.String()
}

func nodeIcon(n engine.Node) string {
	switch {
	case n.Current:
		return IconCurrent
	case n.Completed:
		return IconComplete
	default:
		return IconScheduled
	}
}

func progressBar(pct, width int, hex string) string {
	filled := pct * width / 100
	return categoryStyle(hex).Render(strings.Repeat("█", filled)) +
		TrackEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) sectionTitle(title string, pane int) string {
	if m.focusedPane == pane {
		return HeaderStyle.Render(" " + title)
	}
	return SectionStyle.Render(" " + title)
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	if m.focusedPane == paneJourney {
		help = "↑↓ nav  tab today  space toggle  m add  d delete  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorAccent).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render(m.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(m.confirm.prompt + "\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

func (m Model) renderAddModal() string {
	labels := [fieldCount]string{"Category", "Name", "Start", "Minutes", "Notes"}

	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render("Add Activity"))
	b.WriteString("\n\n")
	for i, in := range m.form {
		label := ModalLabelStyle.Render(labels[i])
		if i == m.formFocus {
			label = InputPromptStyle.Width(12).Render(labels[i])
		}
		b.WriteString(label + in.View() + "\n")
	}

	var names []string
	for _, c := range store.Categories {
		names = append(names, string(c))
	}
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(strings.Join(names, " · ")))
	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.formErr))
	}
	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render("tab next field  enter save  esc cancel"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderMilestoneModal() string {
	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render("Add Milestone"))
	b.WriteString("\n\n")
	b.WriteString(m.milestoneInput.View())
	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render("enter confirm  esc cancel"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderColorModal() string {
	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render("Category Colors"))
	b.WriteString("\n\n")

	colors := m.tracker.Colors.Get()
	for i, c := range store.Categories {
		cursor := " "
		if i == m.colorCursor {
			cursor = IconCursor
		}
		hex := colors[c]
		swatch := categoryStyle(hex).Render("━━━━")
		row := fmt.Sprintf("%s %-12s %s %s", cursor, c.Title(), swatch, store.ColorName(hex))
		if i == m.colorCursor {
			row = SelectedStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑↓ category  ←→ color  esc done"))
	return ModalStyle.Render(b.String())
}

// scrollStart keeps the cursor in view when n rows exceed height.
func scrollStart(cursor, n, height int) int {
	if height < 1 || n <= height {
		return 0
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start > n-height {
		start = n - height
	}
	return start
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
