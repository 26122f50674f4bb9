package tui

import (
	"regexp"

	tea "github.com/charmbracelet/bubbletea"
)

// inputHandler handles key and mouse events for an inline input mode that is
// part of the dashboard layout (not an overlay).
type inputHandler interface {
	// HandleKey processes a key press. Return handled=true if consumed.
	HandleKey(m *DashboardModel, msg tea.KeyMsg) (handled bool, cmd tea.Cmd)
	// HandleMouse processes mouse events. Return handled=true if consumed.
	HandleMouse(m *DashboardModel, msg tea.MouseMsg) (handled bool, cmd tea.Cmd)
}

// inlineHandlerEntry pairs an activation predicate with an inline handler.
type inlineHandlerEntry struct {
	isActive func(m *DashboardModel) bool
	handler  inputHandler
}

type filterInputHandler struct{}

func (h filterInputHandler) HandleKey(m *DashboardModel, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "escape", "esc":
		m.filterActive = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.filterRegex = nil
		m.activeSection = SectionStats
		m.clampLogSelection()
		return true, nil
	case "enter":
		m.filterActive = false
		m.filterInput.Blur()
		m.activeSection = SectionStats
		m.clampLogSelection()
		return true, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		if m.filterInput.Value() != "" {
			if regex, err := regexp.Compile(m.filterInput.Value()); err == nil {
				m.filterRegex = regex
			}
		} else {
			m.filterRegex = nil
		}
		m.clampLogSelection()
		return true, cmd
	}
}

func (h filterInputHandler) HandleMouse(_ *DashboardModel, _ tea.MouseMsg) (bool, tea.Cmd) {
	return true, nil // swallow mouse events during filter input
}
