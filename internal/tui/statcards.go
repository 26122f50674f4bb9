package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/surajverma/pi-dash/internal/stats"
)

// statCardHeight is the rendered height of one stat card including borders.
const statCardHeight = 11

// renderStatCards renders one card per source, side by side.
func (m *DashboardModel) renderStatCards(width, height int) string {
	if len(m.order) == 0 {
		return helpStyle.Render("No sources configured")
	}

	// Border adds 2 columns per card.
	cardWidth := width/len(m.order) - 2
	if cardWidth < 24 {
		cardWidth = 24
	}

	cards := make([]string, 0, len(m.order))
	for i, name := range m.order {
		cards = append(cards, m.renderStatCard(i, name, cardWidth, height-2))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return lipgloss.NewStyle().MaxHeight(height).MaxWidth(width).Render(row)
}

func (m *DashboardModel) renderStatCard(idx int, name string, width, height int) string {
	style := sectionStyle.Width(width).Height(height)
	if m.activeSection == SectionStats {
		style = activeSectionStyle.Width(width).Height(height)
	}

	dot := lipgloss.NewStyle().Foreground(sourceAccent(idx)).Render("●")
	title := dot + " " + cardTitleStyle.Render(name)

	if msg, failed := m.errs[name]; failed {
		body := blockedStyle.Render("unreachable")
		detail := helpStyle.Render(truncate(msg, width-2))
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, detail))
	}

	st, ok := m.stats[name]
	if !ok {
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", helpStyle.Render("waiting for data...")))
	}

	blockedLine := fmt.Sprintf("%s (%.1f%%)", formatCount(st.BlockedQueries), st.PercentBlocked)

	rows := []struct {
		label string
		value string
	}{
		{"Total", formatCount(st.TotalQueries)},
		{"Blocked", blockedLine},
		{"Rate", stats.FormatRate(st.QueryRate)},
		{"Cached", formatCount(st.CachedQueries)},
		{"Forwarded", formatCount(st.ForwardedQueries)},
		{"Unique", formatCount(st.UniqueDomains)},
		{"Clients", formatCount(st.ActiveClients)},
		{"Blocklist", formatCount(st.BlocklistDomains)},
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, title)
	for _, row := range rows {
		label := helpStyle.Render(fmt.Sprintf("%-10s", row.label))
		lines = append(lines, label+row.value)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// formatCount renders a metric with thousands separators. Values arrive as
// float64 from the tolerant normalizer but are counts in practice.
func formatCount(v float64) string {
	if v < 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)

	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
