package querylog

import (
	"sort"

	"github.com/surajverma/pi-dash/internal/model"
)

// Merge sorts one poll's newly accepted events into a single chronological
// view (ordinal ascending, stable so ties keep the caller's concatenation
// order) and folds consecutive events sharing (source, domain) into Groups.
// A Group's blocked flag is the OR of its folded events. The result never
// has more Groups than events and preserves first-to-last order.
func Merge(events []model.Event) []model.Group {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Ordinal(sorted[i]) < Ordinal(sorted[j])
	})

	groups := make([]model.Group, 0, len(sorted))
	for _, ev := range sorted {
		if n := len(groups); n > 0 {
			last := &groups[n-1]
			if last.Source == ev.Source && last.Domain == ev.Domain {
				last.Count++
				last.Blocked = last.Blocked || ev.Blocked
				continue
			}
		}
		groups = append(groups, model.Group{
			Source:  ev.Source,
			Domain:  ev.Domain,
			Blocked: ev.Blocked,
			Count:   1,
		})
	}
	return groups
}
