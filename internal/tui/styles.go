package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette. Sources keep a stable accent color by configured position.
var (
	ColorNavy   = lipgloss.Color("#1a1b4b")
	ColorWhite  = lipgloss.Color("#ffffff")
	ColorGray   = lipgloss.Color("245")
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("42")
	ColorYellow = lipgloss.Color("220")
	ColorRed    = lipgloss.Color("196")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorNavy).
			Padding(0, 1)

	activeSectionStyle = sectionStyle.
				BorderForeground(ColorBlue)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	blockedStyle = lipgloss.NewStyle().Foreground(ColorRed)
	allowedStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Bold(true)
)

var sourceAccents = []lipgloss.Color{
	lipgloss.Color("39"),
	lipgloss.Color("213"),
	lipgloss.Color("208"),
	lipgloss.Color("84"),
	lipgloss.Color("141"),
	lipgloss.Color("220"),
}

func sourceAccent(idx int) lipgloss.Color {
	if idx < 0 {
		idx = 0
	}
	return sourceAccents[idx%len(sourceAccents)]
}
