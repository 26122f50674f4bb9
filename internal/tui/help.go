package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleHelpKeys routes keys while the help overlay is open.
func (m *DashboardModel) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.helpViewport.ScrollUp(1)
		return m, nil
	case "down", "j":
		m.helpViewport.ScrollDown(1)
		return m, nil
	case "pgup":
		m.helpViewport.HalfPageUp()
		return m, nil
	case "pgdown", "pagedown":
		m.helpViewport.HalfPageDown()
		return m, nil
	case "?", "h", "escape", "esc", "q":
		m.helpVisible = false
		return m, nil
	}
	var cmd tea.Cmd
	m.helpViewport, cmd = m.helpViewport.Update(msg)
	return m, cmd
}

// renderHelpOverlay renders the help screen inside a scrollable viewport.
func (m *DashboardModel) renderHelpOverlay(width, height int) string {
	modalWidth := width - 8
	modalHeight := height - 4

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	m.helpViewport.Width = contentWidth
	m.helpViewport.Height = contentHeight
	m.helpViewport.SetContent(helpContent())

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(m.helpViewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render("up/down/Wheel: Scroll | PgUp/PgDn: Page | ?/h/ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

func helpContent() string {
	content := `Pi-hole Dashboard Help

NAVIGATION:
  Tab/Shift+Tab  - Switch between stats and log sections
  Mouse Click    - Click a section to focus it
  up/down or k/j - Move the log selection
  Mouse Wheel    - Scroll the log selection
  Escape         - Clear filter / leave log focus

LIVE LOG:
  Home           - Jump to the oldest entry (stops auto-scroll)
  End            - Jump to the latest entry (resumes auto-scroll)
  PgUp/PgDn      - Move by pages (10 rows)
  Focusing the log pauses refreshes so rows hold still while
  you read; unfocus to resume. Skipped events return with the
  next poll.

ACTIONS:
  /              - Filter log rows (regex supported)
  p or Space     - Pause/resume polling (manual)
  r              - Poll all sources now
  c              - Toggle the blocked-queries chart
  u/U            - Cycle refresh interval (faster/slower)
  ? or h         - Toggle this help
  q/Ctrl+C       - Quit

PANELS:
  Stat cards     - One card per Pi-hole: totals, blocked share,
                   query rate, cache/forward split, clients, and
                   blocklist size
  Blocked chart  - Blocked vs allowed per source
  Live Queries   - Merged query log across all sources; repeats
                   collapse into one row with a ×N counter,
                   blocked rows render red, allowed green

STATUS LINE:
  ● green        - Last poll fresh and every source healthy
  ● amber        - Data stale or some sources failing
  ● red          - Last poll failed for every source
`

	return lipgloss.NewStyle().
		Width(65).
		Render(content)
}
