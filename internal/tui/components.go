package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderBranding renders "pi-dash" with a red to blue gradient.
func (m *DashboardModel) renderBranding() string {
	colors := []string{
		"#E20909", // p
		"#D92135", // i
		"#C93961", // -
		"#AE518D", // d
		"#8D69B9", // a
		"#6381E5", // s
		"#3999FF", // h
	}

	chars := []string{"p", "i", "-", "d", "a", "s", "h"}

	var result string
	for i, char := range chars {
		style := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i])).Bold(true)
		result += style.Render(char)
	}

	return result
}

// renderStatusLine renders the status/help line at the bottom of the screen
func (m *DashboardModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := m.width
	veryNarrow := w < 60
	narrow := w < 80
	medium := w < 120

	// Left section: active section indicator.
	var leftText string
	if !m.filterActive {
		var sectionName string
		switch m.activeSection {
		case SectionStats:
			sectionName = "Stats"
		case SectionLog:
			sectionName = "Log"
		case SectionFilter:
			sectionName = "Filter"
		}
		if veryNarrow {
			leftText = sectionName[:min(5, len(sectionName))]
		} else {
			leftText = fmt.Sprintf("[%s]", sectionName)
		}
	}

	// Center section: context help.
	var statusText string
	if m.filterActive {
		if narrow {
			statusText = "Enter: Apply • ESC: Cancel"
		} else {
			statusText = "Type regex pattern • Enter: Apply • ESC: Cancel"
		}
	} else if m.activeSection == SectionLog {
		if veryNarrow {
			statusText = "?: Help • ↑↓ • End"
		} else if narrow {
			statusText = "?: Help • ↑↓: Navigate • End: Latest"
		} else if medium {
			statusText = "?: Help • ↑↓: Navigate • Home/End • PgUp/Dn • ESC: Back"
		} else {
			statusText = "?: Help • Wheel: scroll • ↑↓: Navigate • Home: Oldest • End: Latest + auto-scroll • PgUp/PgDn: Page • ESC: Back"
		}
	} else {
		if veryNarrow {
			statusText = "Tab • p • / • ? • q"
		} else if narrow {
			statusText = "?: Help • Tab: Nav • p: Pause • q: Quit"
		} else if medium {
			statusText = "?: Help • Tab: Navigate • /: Filter • p: Pause • r: Poll now • q: Quit"
		} else {
			statusText = "?: Help • Tab: Navigate • /: Filter log • p: Pause • r: Poll now • c: Chart • u/U: Refresh rate • q: Quit"
		}
	}

	// Right section: pause state, connectivity, source health, branding.
	var statusInfo string
	if !m.filterActive {
		if m.liveUpdatesPaused() {
			if m.viewPaused {
				statusInfo = "⏸ Manual"
			} else {
				statusInfo = "⏸ Focus Lock"
			}
		} else if !veryNarrow {
			intervalStr := m.formatDuration(m.updateInterval)
			if narrow {
				statusInfo = intervalStr
			} else {
				statusInfo = fmt.Sprintf("Update: %s", intervalStr)
			}
		}
	}

	var dataSourceInfo string
	if m.dataSource != "" && !veryNarrow {
		dataSourceInfo = m.connectivityDot() + " " + m.dataSource
	}

	var sourceHealth string
	if m.haveData && !narrow {
		healthy := m.healthySources()
		total := m.sourceCount()
		if healthy == total {
			sourceHealth = fmt.Sprintf("%d/%d ok", healthy, total)
		} else {
			sourceHealth = lipgloss.NewStyle().
				Background(ColorNavy).
				Foreground(lipgloss.Color("#FF6666")).
				Render(fmt.Sprintf("%d/%d ok", healthy, total))
		}
	}

	var errorInfo string
	if m.lastError != "" && time.Since(m.lastErrorAt) < 30*time.Second {
		errorStyle := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color("#FF6666")).
			Faint(true)
		errorInfo = errorStyle.Render("poll error")
	}

	var rightParts []string
	if errorInfo != "" {
		rightParts = append(rightParts, errorInfo)
	}
	if sourceHealth != "" {
		rightParts = append(rightParts, sourceHealth)
	}
	if dataSourceInfo != "" {
		rightParts = append(rightParts, dataSourceInfo)
	}
	if statusInfo != "" {
		rightParts = append(rightParts, statusInfo)
	}
	if w >= 30 {
		rightParts = append(rightParts, m.renderBranding())
	}

	var rightText string
	if len(rightParts) > 0 {
		rightText = strings.Join(rightParts, "  ")
	}

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2

	if leftWidth+rightWidth >= w {
		if w < 20 {
			return baseStyle.Width(w).Render(leftText)
		}
		leftWidth = min(10, w/3)
		rightWidth = min(15, w/3)
	}

	centerWidth := w - leftWidth - rightWidth
	if centerWidth < 0 {
		centerWidth = 0
	}

	leftStyle := baseStyle.Align(lipgloss.Left).Width(leftWidth)
	centerStyle := baseStyle.Align(lipgloss.Center).Width(centerWidth)
	rightStyle := baseStyle.Align(lipgloss.Right).Width(rightWidth)

	if lipgloss.Width(leftText) > leftWidth {
		leftText = leftText[:max(0, leftWidth-1)]
	}
	if lipgloss.Width(statusText) > centerWidth {
		statusText = statusText[:max(0, centerWidth-1)]
	}
	if lipgloss.Width(rightText) > rightWidth {
		// Don't truncate styled text as it would break ANSI codes.
		if statusInfo != "" && w < 50 {
			rightText = statusInfo
		} else if w < 40 {
			rightText = ""
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(leftText),
		centerStyle.Render(statusText),
		rightStyle.Render(rightText),
	)
}

// connectivityDot colors the status dot: red when the last poll failed for
// every source, amber when data is stale, green otherwise.
func (m *DashboardModel) connectivityDot() string {
	stale := time.Since(m.lastTickAt) > 3*m.updateInterval && !m.liveUpdatesPaused()
	var color string
	switch {
	case !m.lastTickOK:
		color = "#FF4444"
	case stale || m.degraded:
		color = "#FFAA00"
	default:
		color = "#44FF44"
	}
	return lipgloss.NewStyle().Background(ColorNavy).Foreground(lipgloss.Color(color)).Render("●")
}

// renderFilter renders the filter input section
func (m *DashboardModel) renderFilter() string {
	var title, content string

	entries := len(m.filteredEntries())
	total := m.pipeline.Len()

	if m.filterActive {
		title = "🔍 Filter (editing)"
		content = m.filterInput.View()
		if m.filterRegex != nil {
			content += fmt.Sprintf(" | Showing: %d/%d rows", entries, total)
		}
	} else if m.filterRegex != nil || m.filterInput.Value() != "" {
		title = "🔍 Filter"
		content = fmt.Sprintf("[%s]", m.filterInput.Value())
		content += fmt.Sprintf(" | Showing: %d/%d rows", entries, total)
		content += " | Press '/' to edit"
	} else {
		return ""
	}

	filterStyle := lipgloss.NewStyle().
		Foreground(ColorGreen).
		Padding(0, 1)

	return filterStyle.Render(title + " " + content)
}
