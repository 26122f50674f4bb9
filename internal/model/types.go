package model

import "time"

// Instance is one monitored Pi-hole, externally configured and immutable
// for the session.
type Instance struct {
	Name     string
	Address  string // base URL, e.g. http://pi.hole:80
	Password string // empty = instance runs without a password
	Enabled  bool
	Link     bool // expose the address as a click-through in UIs
}

// Stats is the fixed set of per-source metrics bound to a stat card.
// Every field defaults to zero when the upstream summary is missing or
// malformed; the UI never sees NaN.
type Stats struct {
	TotalQueries     float64
	BlockedQueries   float64
	PercentBlocked   float64
	ActiveClients    float64
	QueryRate        float64 // raw events per second
	CachedQueries    float64
	ForwardedQueries float64
	UniqueDomains    float64
	BlocklistDomains float64
}

// Event is one query-log entry from a source.
// ID and Time are optional: Pi-hole ids start at 1 and times are unix
// seconds, so zero value = field absent upstream.
type Event struct {
	Source   string
	Domain   string
	Blocked  bool
	ID       int64   // 0 = absent
	Time     float64 // unix seconds, 0 = absent
	Upstream string
}

// Group is a run of consecutive merged events sharing (source, domain).
// Groups are transient, recomputed each poll from newly accepted events.
type Group struct {
	Source  string
	Domain  string
	Blocked bool // true if any folded event was blocked
	Count   int
}

// Label is the display identity a Group shares with a log row.
func (g Group) Label() string { return g.Source + " " + g.Domain }

// LogEntry is a rendered, possibly still-growing row in the bounded log.
// Blocked is monotonic: once true it stays true for the entry's lifetime.
type LogEntry struct {
	Label   string
	Count   int
	Blocked bool
}

// SourceResult is one source's share of a poll snapshot. Err is set when
// that source failed this cycle; the other fields are then meaningless.
// Summary is the raw summary document exactly as the source served it.
type SourceResult struct {
	Summary map[string]interface{}
	Events  []Event
	Err     error
}

// Snapshot is everything one poll produced, keyed by instance name.
type Snapshot struct {
	TakenAt time.Time
	Results map[string]SourceResult
}
