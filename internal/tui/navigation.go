package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes key input: help overlay first, then the inline
// filter handler, then global bindings.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpVisible {
		return m.handleHelpKeys(msg)
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleKey(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		return m.handleEscape()

	case key.Matches(msg, m.keys.Filter):
		m.filterActive = true
		m.filterInput.Focus()
		m.activeSection = SectionFilter
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Pause):
		m.viewPaused = !m.viewPaused
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.forcePollCmd()

	case key.Matches(msg, m.keys.ToggleChart):
		m.showChart = !m.showChart
		return m, nil

	case key.Matches(msg, m.keys.IntervalUp):
		m.cycleInterval(-1)
		return m, nil

	case key.Matches(msg, m.keys.IntervalDown):
		m.cycleInterval(1)
		return m, nil

	case key.Matches(msg, m.keys.NextSection):
		m.nextSection()
		return m, nil

	case key.Matches(msg, m.keys.PrevSection):
		m.prevSection()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Home):
		if m.activeSection == SectionLog {
			m.logAutoScroll = false
			m.selectedLogIndex = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.End):
		if m.activeSection == SectionLog {
			m.logAutoScroll = true
			m.clampLogSelection()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-logPageSize)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(logPageSize)
		return m, nil
	}

	return m, nil
}

const logPageSize = 10

func (m *DashboardModel) handleEscape() (tea.Model, tea.Cmd) {
	switch {
	case m.filterRegex != nil || m.filterInput.Value() != "":
		m.filterInput.SetValue("")
		m.filterRegex = nil
		m.clampLogSelection()
	case m.activeSection == SectionLog:
		m.activeSection = SectionStats
	}
	return m, nil
}

func (m *DashboardModel) nextSection() {
	switch m.activeSection {
	case SectionStats:
		m.activeSection = SectionLog
	default:
		m.activeSection = SectionStats
	}
}

func (m *DashboardModel) prevSection() {
	m.nextSection()
}

// moveSelection moves the log selection; any manual move leaves auto-scroll
// until End re-enables it.
func (m *DashboardModel) moveSelection(delta int) {
	if m.activeSection != SectionLog {
		if delta != 0 {
			m.activeSection = SectionLog
		} else {
			return
		}
	}

	n := len(m.filteredEntries())
	if n == 0 {
		return
	}

	m.logAutoScroll = false
	m.selectedLogIndex += delta
	if m.selectedLogIndex < 0 {
		m.selectedLogIndex = 0
	}
	if m.selectedLogIndex >= n {
		m.selectedLogIndex = n - 1
		m.logAutoScroll = true
	}
}

// handleMouseEvent processes mouse interactions
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.helpVisible {
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return m, cmd
	}

	for _, entry := range m.inlineHandlers {
		if entry.isActive(m) {
			handled, cmd := entry.handler.HandleMouse(m, msg)
			if handled {
				return m, cmd
			}
			break
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.handleMouseClick(msg.Y)
		case tea.MouseButtonWheelUp:
			m.moveSelection(-1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.moveSelection(1)
			return m, nil
		}
	}

	return m, nil
}

// handleMouseClick switches sections by vertical position.
func (m *DashboardModel) handleMouseClick(y int) (tea.Model, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}

	cardsHeight, chartHeight, filterHeight, _ := m.layoutHeights()

	if y < cardsHeight+chartHeight {
		m.activeSection = SectionStats
		return m, nil
	}
	if filterHeight > 0 && y < cardsHeight+chartHeight+filterHeight {
		m.activeSection = SectionFilter
		return m, nil
	}
	m.activeSection = SectionLog
	return m, nil
}
