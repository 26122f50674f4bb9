package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// blockedChartHeight is the rendered height of the chart row incl. borders.
const blockedChartHeight = 8

// renderBlockedChart renders one stacked bar per source: blocked over
// allowed, with a per-source legend on the right.
func (m *DashboardModel) renderBlockedChart(width, height int) string {
	style := sectionStyle.Width(width - 2).Height(height - 2)
	if m.activeSection == SectionStats {
		style = activeSectionStyle.Width(width - 2).Height(height - 2)
	}

	title := chartTitleStyle.Render("Blocked Queries")
	chartHeight := height - 3 // border rows and title
	if chartHeight < 3 {
		chartHeight = 3
	}

	if len(m.order) == 0 || !m.haveData {
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render("No data available")))
	}

	legendWidth := 26
	chartWidth := width - legendWidth - 6
	if chartWidth < 20 {
		chartWidth = 20
	}

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(2),
		barchart.WithBarWidth(4),
		barchart.WithNoAxis(),
	)

	blockedBar := lipgloss.NewStyle().Foreground(ColorRed).Background(ColorRed)
	allowedBar := lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)

	for _, name := range m.order {
		st, ok := m.stats[name]
		if !ok {
			bc.Push(barchart.BarData{
				Label: name,
				Values: []barchart.BarValue{
					{Name: "EMPTY", Value: 0, Style: allowedBar},
				},
			})
			continue
		}
		allowed := st.TotalQueries - st.BlockedQueries
		if allowed < 0 {
			allowed = 0
		}
		bc.Push(barchart.BarData{
			Label: name,
			Values: []barchart.BarValue{
				{Name: "blocked", Value: st.BlockedQueries, Style: blockedBar},
				{Name: "allowed", Value: allowed, Style: allowedBar},
			},
		})
	}

	bc.Draw()
	chartOutput := bc.View()

	legendLines := make([]string, 0, len(m.order))
	for i, name := range m.order {
		dot := lipgloss.NewStyle().Foreground(sourceAccent(i)).Render("●")
		if _, failed := m.errs[name]; failed {
			legendLines = append(legendLines, fmt.Sprintf("%s %-8s %s", dot, name, blockedStyle.Render("down")))
			continue
		}
		st := m.stats[name]
		legendLines = append(legendLines, fmt.Sprintf("%s %-8s %5.1f%% of %s", dot, name, st.PercentBlocked, formatCount(st.TotalQueries)))
	}
	for len(legendLines) < chartHeight {
		legendLines = append(legendLines, "")
	}

	chartLines := strings.Split(chartOutput, "\n")
	for len(chartLines) < chartHeight {
		chartLines = append(chartLines, "")
	}

	combined := make([]string, 0, chartHeight)
	for i := 0; i < chartHeight; i++ {
		chartLine := ""
		legendLine := ""
		if i < len(chartLines) {
			chartLine = chartLines[i]
		}
		if i < len(legendLines) {
			legendLine = legendLines[i]
		}
		if pad := chartWidth - lipgloss.Width(chartLine); pad > 0 {
			chartLine += strings.Repeat(" ", pad)
		}
		combined = append(combined, chartLine+"  "+legendLine)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(combined, "\n")))
}
