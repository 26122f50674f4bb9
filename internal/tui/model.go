// Package tui renders the terminal dashboard: per-source stat cards, a
// blocked-queries chart, and the bounded live query log, refreshed by an
// async poll loop.
package tui

import (
	"regexp"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surajverma/pi-dash/internal/model"
	"github.com/surajverma/pi-dash/internal/querylog"
)

// Section represents different dashboard sections
type Section int

const (
	SectionStats  Section = iota // stat cards / chart
	SectionLog                   // live query log scroll
	SectionFilter                // filter bar
)

// Provider supplies snapshots and the configured source order. Both the
// direct poller and the daemon client satisfy it.
type Provider interface {
	model.SnapshotProvider
	Order() []string
}

// Options configures the dashboard model.
type Options struct {
	UpdateInterval time.Duration
	LogCapacity    int
	ShowQueries    bool
	QueryLength    int
	DataSource     string // "Direct" or "Daemon" — shown in status bar
}

// FilterState holds the live-log text filter state.
type FilterState struct {
	filterInput  textinput.Model
	filterActive bool
	filterRegex  *regexp.Regexp
}

// LogViewState holds log scroll/selection state.
type LogViewState struct {
	selectedLogIndex int  // index into the filtered entry list
	logAutoScroll    bool // pin selection to the newest entry
	viewPaused       bool // manual pause toggled by the user
}

// DashboardModel is the main TUI model.
// Sub-state is organized into embedded structs for readability;
// Go's field promotion means m.fieldName access is unchanged.
type DashboardModel struct {
	FilterState
	LogViewState

	provider Provider
	order    []string

	// Poll results. The pipeline owns the bounded log; stats and errs hold
	// the latest normalized summary or failure message per source.
	pipeline *querylog.Pipeline
	stats    map[string]model.Stats
	errs     map[string]string
	haveData bool

	// Window dimensions
	width  int
	height int

	// Configuration
	updateInterval time.Duration
	showQueries    bool
	queryLength    int
	dataSource     string
	showChart      bool

	// Update interval management
	availableIntervals []time.Duration
	currentIntervalIdx int

	// Section navigation
	activeSection Section

	// Help overlay
	helpVisible  bool
	helpViewport viewport.Model

	// Async tick guard to avoid overlapping polls.
	tickInFlight bool

	// Connectivity tracking for the status line dot.
	lastTickOK   bool      // most recent poll reached at least one source
	lastTickAt   time.Time // when the last poll result was applied
	degraded     bool      // some (not all) sources failed last poll
	lastError    string    // surfaced in the status line, auto-clears
	lastErrorAt  time.Time
	startTime    time.Time
	pollsApplied int

	keys KeyMap

	// Inline handler for filter input (part of the dashboard layout,
	// not an overlay).
	inlineHandlers []inlineHandlerEntry
}

// NewDashboardModel creates the dashboard model around a snapshot provider.
func NewDashboardModel(provider Provider, opts Options) *DashboardModel {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = model.DefaultRefreshInterval
	}
	if opts.QueryLength <= 0 {
		opts.QueryLength = model.DefaultQueryLength
	}

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter log rows (regex supported)..."
	filterInput.CharLimit = 200

	availableIntervals := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		5 * time.Second,
		10 * time.Second,
		30 * time.Second,
		1 * time.Minute,
	}
	currentIdx := 2
	for i, interval := range availableIntervals {
		if interval == opts.UpdateInterval {
			currentIdx = i
			break
		}
	}

	m := &DashboardModel{
		FilterState: FilterState{
			filterInput: filterInput,
		},
		LogViewState: LogViewState{
			logAutoScroll: true,
		},

		provider: provider,
		order:    provider.Order(),
		pipeline: querylog.NewPipeline(opts.LogCapacity),
		stats:    make(map[string]model.Stats),
		errs:     make(map[string]string),

		updateInterval: opts.UpdateInterval,
		showQueries:    opts.ShowQueries,
		queryLength:    opts.QueryLength,
		dataSource:     opts.DataSource,
		showChart:      true,

		availableIntervals: availableIntervals,
		currentIntervalIdx: currentIdx,

		activeSection: SectionStats,

		lastTickOK: true,
		lastTickAt: time.Now(),
		startTime:  time.Now(),

		keys: DefaultKeyMap(),
	}

	m.inlineHandlers = []inlineHandlerEntry{
		{isActive: func(m *DashboardModel) bool { return m.filterActive }, handler: filterInputHandler{}},
	}

	return m
}

// Init schedules the first poll immediately and mouse support.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tea.EnableMouseCellMotion() },
		func() tea.Msg { return TickMsg(time.Now()) },
		tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg { return SpinnerTickMsg{} }),
	)
}

// autoPauseLiveUpdates returns true when the user is reading the log, so
// refreshes must not shift the selection under them.
func (m *DashboardModel) autoPauseLiveUpdates() bool {
	return m.activeSection == SectionLog
}

// liveUpdatesPaused returns true when no new polls should start.
func (m *DashboardModel) liveUpdatesPaused() bool {
	return m.viewPaused || m.autoPauseLiveUpdates()
}

// sourceCount returns how many sources are configured.
func (m *DashboardModel) sourceCount() int { return len(m.order) }

// healthySources counts sources whose last poll produced stats.
func (m *DashboardModel) healthySources() int {
	n := 0
	for _, name := range m.order {
		if _, failed := m.errs[name]; !failed {
			if _, ok := m.stats[name]; ok {
				n++
			}
		}
	}
	return n
}
