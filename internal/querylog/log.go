package querylog

import "github.com/surajverma/pi-dash/internal/model"

// Log is the bounded visual query log. The tail entry stays live, absorbing
// consecutive groups with the same label; everything before it is frozen.
// Once the log runs past capacity the oldest entries are evicted first.
type Log struct {
	entries  []model.LogEntry
	capacity int
}

// NewLog returns an empty log holding at most capacity entries.
// Non-positive capacities fall back to the default.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = model.DefaultLogCapacity
	}
	return &Log{capacity: capacity}
}

// Apply reconciles one poll's groups against the log, in order. A group
// whose label matches the current tail merges into it: the count grows by
// the group's count and blocked only ever upgrades. Any other group appends
// a new row. After all groups are in, the front is evicted down to capacity.
// An empty groups slice leaves the log bit-identical.
func (l *Log) Apply(groups []model.Group) {
	for _, g := range groups {
		if n := len(l.entries); n > 0 && l.entries[n-1].Label == g.Label() {
			l.entries[n-1].Count += g.Count
			if g.Blocked {
				l.entries[n-1].Blocked = true
			}
			continue
		}
		l.entries = append(l.entries, model.LogEntry{
			Label:   g.Label(),
			Count:   g.Count,
			Blocked: g.Blocked,
		})
	}

	if excess := len(l.entries) - l.capacity; excess > 0 {
		l.entries = append(l.entries[:0], l.entries[excess:]...)
	}
}

// Entries returns a copy of the rendered rows, oldest first.
func (l *Log) Entries() []model.LogEntry {
	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current number of rows.
func (l *Log) Len() int { return len(l.entries) }

// Capacity reports the configured bound.
func (l *Log) Capacity() int { return l.capacity }
