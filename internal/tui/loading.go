package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// renderLoadingPlaceholder renders an animated indicator for the first poll.
// The frame is selected based on the current time so it animates on re-render.
func renderLoadingPlaceholder(width, height int) string {
	frame := spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]

	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := loadingStyle.Render(frame + " Contacting sources...")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render while the first poll is outstanding.
type SpinnerTickMsg struct{}

// handleSpinnerTick re-schedules spinner ticks until data arrives.
func (m *DashboardModel) handleSpinnerTick() (tea.Model, tea.Cmd) {
	if !m.haveData {
		return m, tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
			return SpinnerTickMsg{}
		})
	}
	return m, nil
}
