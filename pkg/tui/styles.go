package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent      = lipgloss.Color("#00A1DE")
	ColorGreen       = lipgloss.Color("#009B3A")
	ColorRed         = lipgloss.Color("#C60C30")
	ColorYellow      = lipgloss.Color("#F9E300")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	ClockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOffWhite)
)

// Row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ScheduledStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	DueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	CountdownStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// Journey styles
var (
	TrackEmptyStyle = lipgloss.NewStyle().
			Foreground(ColorGrayDim)

	MilestoneValueStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(12)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// Status icons
const (
	IconComplete  = "✓"
	IconActive    = "●"
	IconScheduled = "○"
	IconCurrent   = "◉"
	IconCursor    = "▶"
)

// categoryStyle renders text in a category's line color.
func categoryStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
