// Package querylog implements the incremental multi-source query-log
// pipeline: per-source cursor tracking, the cross-source chronological
// merge with run-length collapsing, and the bounded live log.
package querylog

import (
	"math"

	"github.com/surajverma/pi-dash/internal/model"
)

// Tracker remembers, per source, the highest event ordinal observed so far,
// so repeated overlapping snapshots can be filtered down to new events only.
// Cursors never decrease; an event accepted once is never accepted again.
type Tracker struct {
	cursors map[string]float64
}

// NewTracker returns a Tracker with no sources observed yet.
func NewTracker() *Tracker {
	return &Tracker{cursors: make(map[string]float64)}
}

// Ordinal derives an event's position marker: the explicit id when present,
// else the unix time, else negative infinity. The sentinel keeps ordinal-less
// events comparable without inventing an order for them.
func Ordinal(ev model.Event) float64 {
	if ev.ID != 0 {
		return float64(ev.ID)
	}
	if ev.Time != 0 {
		return ev.Time
	}
	return math.Inf(-1)
}

// AcceptNew filters one poll's events for a source down to those not seen
// before, preserving their relative order, and advances the cursor once, to
// the highest ordinal observed in the poll. Acceptance compares against a
// threshold seeded from the pre-poll cursor and raised as events are
// accepted: a strictly increasing run is accepted whole, a repeated ordinal
// only at its first occurrence. An event with no usable ordinal is admitted
// only while the source has never had an event observed, so it shows up
// exactly once per source. An empty poll touches nothing.
func (t *Tracker) AcceptNew(source string, events []model.Event) []model.Event {
	if len(events) == 0 {
		return nil
	}

	floor, seen := t.cursors[source]
	if !seen {
		floor = math.Inf(-1)
	}

	threshold := floor
	maxSeen := floor
	virgin := !seen

	var fresh []model.Event
	for _, ev := range events {
		ord := Ordinal(ev)
		if ord > threshold || (virgin && math.IsInf(ord, -1)) {
			fresh = append(fresh, ev)
			if ord > threshold {
				threshold = ord
			}
			virgin = false
		}
		if ord > maxSeen {
			maxSeen = ord
		}
	}

	t.cursors[source] = maxSeen
	return fresh
}

// Cursor reports the current cursor for a source. ok is false when the
// source has never been observed.
func (t *Tracker) Cursor(source string) (value float64, ok bool) {
	value, ok = t.cursors[source]
	return value, ok
}
