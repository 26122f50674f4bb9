package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/surajverma/pi-dash/internal/model"
)

// filteredEntries returns the log rows matching the active filter, oldest
// first. Without a filter it is the full bounded log.
func (m *DashboardModel) filteredEntries() []model.LogEntry {
	entries := m.pipeline.Entries()
	if m.filterRegex == nil {
		return entries
	}
	filtered := make([]model.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if m.filterRegex.MatchString(entry.Label) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// renderLogPanel renders the scrolling live-query section.
func (m *DashboardModel) renderLogPanel(width, height int) string {
	logWidth := width - 4 // borders and padding
	if logWidth < 40 {
		logWidth = 40
	}

	borderColor := ColorNavy
	if m.activeSection == SectionLog {
		borderColor = ColorBlue
	}

	style := sectionStyle.
		Width(width - 2).
		Height(height - 2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor)

	lines := m.renderLogPanelContent(height-2, logWidth)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *DashboardModel) renderLogPanelContent(height, logWidth int) []string {
	var lines []string

	entries := m.filteredEntries()
	title := chartTitleStyle.Render(fmt.Sprintf("Live Queries (%d/%d)", len(entries), m.pipeline.Capacity()))
	lines = append(lines, title)
	height--

	if m.activeSection == SectionLog {
		pausedStyle := lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)
		lines = append(lines, pausedStyle.Render("Focus lock on: updates paused while reading • Tab/ESC to resume"))
		height--
	}

	if !m.showQueries {
		lines = append(lines, helpStyle.Render("Query log disabled (show_queries: false)"))
		return lines
	}

	if len(entries) == 0 {
		if m.filterRegex != nil {
			lines = append(lines, helpStyle.Render("No rows match the filter. ESC clears it."))
		} else {
			lines = append(lines, helpStyle.Render("Waiting for queries..."))
		}
		return lines
	}

	maxLines := height
	if maxLines < 1 {
		maxLines = 1
	}

	// Pin to the tail unless the user is reading; then keep the
	// selection centered.
	startIdx := 0
	if m.activeSection != SectionLog {
		if len(entries) > maxLines {
			startIdx = len(entries) - maxLines
		}
	} else if m.selectedLogIndex >= 0 && m.selectedLogIndex < len(entries) {
		startIdx = m.selectedLogIndex - maxLines/2
		if startIdx < 0 {
			startIdx = 0
		}
		if startIdx+maxLines > len(entries) {
			startIdx = max(0, len(entries)-maxLines)
		}
	}

	for i := startIdx; i < len(entries) && i < startIdx+maxLines; i++ {
		selected := m.activeSection == SectionLog && i == m.selectedLogIndex
		lines = append(lines, m.formatLogRow(entries[i], logWidth, selected))
	}

	return lines
}

// formatLogRow renders one bounded-log row: marker, label, repeat count.
func (m *DashboardModel) formatLogRow(entry model.LogEntry, width int, selected bool) string {
	marker := allowedStyle.Render("✓")
	if entry.Blocked {
		marker = blockedStyle.Render("✗")
	}

	var count string
	if entry.Count > 1 {
		count = fmt.Sprintf(" ×%d", entry.Count)
	}

	label := entry.Label
	maxLabel := width - lipgloss.Width(count) - 2
	if maxLabel > 0 && len(label) > maxLabel {
		label = truncate(label, maxLabel)
	}

	if entry.Blocked {
		label = blockedStyle.Render(label)
	}

	row := marker + " " + label + helpStyle.Render(count)
	if selected {
		pad := width - lipgloss.Width(row)
		if pad > 0 {
			row += strings.Repeat(" ", pad)
		}
		return selectedRowStyle.Render(row)
	}
	return row
}
