package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surajverma/pi-dash/internal/model"
	"github.com/surajverma/pi-dash/internal/stats"
)

// TickMsg represents periodic updates
type TickMsg time.Time

// tickDataLoadedMsg carries an async poll result back into Update.
type tickDataLoadedMsg struct {
	snap model.Snapshot
	err  error
}

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampLogSelection()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case TickMsg:
		// Skip new polls while the user paused or is reading the log;
		// cursors only advance on ingest, so skipped events come back
		// with the next poll.
		if m.liveUpdatesPaused() {
			return m, m.scheduleTick()
		}
		if m.tickInFlight {
			return m, m.scheduleTick()
		}
		m.tickInFlight = true
		return m, tea.Batch(m.fetchTickDataCmd(), m.scheduleTick())

	case tickDataLoadedMsg:
		m.tickInFlight = false
		m.applyTickData(msg)
		return m, nil

	case SpinnerTickMsg:
		return m.handleSpinnerTick()
	}

	return m, nil
}

func (m *DashboardModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// fetchTickDataCmd polls the provider off the Update loop. Only provider and
// opts are captured so the command never races model state.
func (m *DashboardModel) fetchTickDataCmd() tea.Cmd {
	provider := m.provider
	opts := model.PollOpts{
		IncludeQueries: m.showQueries,
		QueryLength:    m.queryLength,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), model.DefaultRequestTimeout)
		defer cancel()
		snap, err := provider.Poll(ctx, opts)
		return tickDataLoadedMsg{snap: snap, err: err}
	}
}

// applyTickData commits a poll result: normalized stats per source, per-source
// errors, and the event batch through the merge/log pipeline. An in-flight
// poll that lands after pausing still commits so no accepted events are lost.
func (m *DashboardModel) applyTickData(msg tickDataLoadedMsg) {
	if msg.err != nil {
		m.lastTickOK = false
		m.lastError = msg.err.Error()
		m.lastErrorAt = time.Now()
		return
	}

	failures := 0
	for _, name := range m.order {
		res, ok := msg.snap.Results[name]
		if !ok {
			continue
		}
		if res.Err != nil {
			m.errs[name] = res.Err.Error()
			failures++
			continue
		}
		delete(m.errs, name)
		m.stats[name] = stats.Normalize(res.Summary)
	}

	if m.showQueries {
		perSource := make(map[string][]model.Event, len(m.order))
		for _, name := range m.order {
			perSource[name] = msg.snap.Results[name].Events
		}
		m.pipeline.Ingest(m.order, perSource)
	}

	m.haveData = true
	m.pollsApplied++
	m.lastTickAt = time.Now()
	m.lastTickOK = failures < len(m.order)
	m.degraded = failures > 0 && failures < len(m.order)
	if failures == 0 {
		m.lastError = ""
	}

	m.clampLogSelection()
}

// clampLogSelection keeps the selection inside the filtered entry list and
// pins it to the newest entry while auto-scroll is on.
func (m *DashboardModel) clampLogSelection() {
	n := len(m.filteredEntries())
	if m.logAutoScroll || m.selectedLogIndex >= n {
		m.selectedLogIndex = max(0, n-1)
	}
	if m.selectedLogIndex < 0 {
		m.selectedLogIndex = 0
	}
}

// cycleInterval moves to the next/previous refresh interval.
func (m *DashboardModel) cycleInterval(direction int) {
	if len(m.availableIntervals) == 0 {
		return
	}
	idx := m.currentIntervalIdx + direction
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.availableIntervals) {
		idx = len(m.availableIntervals) - 1
	}
	m.currentIntervalIdx = idx
	m.updateInterval = m.availableIntervals[idx]
}

// forcePollCmd starts an immediate poll, subject to the in-flight guard.
func (m *DashboardModel) forcePollCmd() tea.Cmd {
	if m.tickInFlight {
		return nil
	}
	m.tickInFlight = true
	return m.fetchTickDataCmd()
}

func (m *DashboardModel) formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Minute).String()
}
