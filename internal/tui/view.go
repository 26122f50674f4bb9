package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// layoutHeights computes the vertical layout so rendering and mouse routing
// share a single source of truth.
func (m *DashboardModel) layoutHeights() (cardsHeight, chartHeight, filterHeight, logHeight int) {
	statusLineHeight := 1
	usable := m.height - statusLineHeight

	cardsHeight = statCardHeight
	if usable < cardsHeight+6 {
		cardsHeight = 0 // too small for cards, give everything to the log
	}

	if m.showChart && usable-cardsHeight >= blockedChartHeight+6 {
		chartHeight = blockedChartHeight
	}

	if m.hasFilter() {
		filterHeight = 1
	}

	logHeight = usable - cardsHeight - chartHeight - filterHeight
	if logHeight < 3 {
		logHeight = 3
	}
	return cardsHeight, chartHeight, filterHeight, logHeight
}

// hasFilter returns true if the filter is being edited or applied.
func (m *DashboardModel) hasFilter() bool {
	return m.filterActive || m.filterRegex != nil || m.filterInput.Value() != ""
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	if m.helpVisible {
		return m.renderHelpOverlay(m.width, m.height)
	}

	if !m.haveData {
		return lipgloss.JoinVertical(lipgloss.Left,
			renderLoadingPlaceholder(m.width, m.height-1),
			m.renderStatusLine(),
		)
	}

	return m.renderDashboard()
}

// renderDashboard renders the main dashboard layout
func (m *DashboardModel) renderDashboard() string {
	if m.height < 12 || m.width < 60 {
		return "Terminal too small. Resize to at least 60x12."
	}

	cardsHeight, chartHeight, filterHeight, logHeight := m.layoutHeights()

	var sections []string

	if cardsHeight > 0 {
		sections = append(sections, m.renderStatCards(m.width, cardsHeight))
	}

	if chartHeight > 0 {
		sections = append(sections, m.renderBlockedChart(m.width, chartHeight))
	}

	if filterHeight > 0 {
		sections = append(sections, m.renderFilter())
	}

	sections = append(sections, m.renderLogPanel(m.width, logHeight))

	mainContent := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainContent,
		m.renderStatusLine(),
	)
}
