package querylog

import (
	"testing"

	"github.com/surajverma/pi-dash/internal/model"
)

func blockedEvent(source string, id int64, domain string) model.Event {
	return model.Event{Source: source, Domain: domain, ID: id, Blocked: true}
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()
	if groups := Merge(nil); groups != nil {
		t.Errorf("Merge(nil) = %v, want nil", groups)
	}
}

func TestMerge_OrdersAcrossSources(t *testing.T) {
	t.Parallel()
	// pi2's events arrive first in the concatenation but carry later
	// ordinals; the merged view must interleave by ordinal alone.
	events := []model.Event{
		idEvent("pi2", 20, "late.com"),
		idEvent("pi2", 40, "later.com"),
		idEvent("pi1", 10, "early.com"),
		idEvent("pi1", 30, "mid.com"),
	}
	groups := Merge(events)
	want := []string{"early.com", "late.com", "mid.com", "later.com"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, domain := range want {
		if groups[i].Domain != domain {
			t.Errorf("groups[%d].Domain = %q, want %q", i, groups[i].Domain, domain)
		}
	}
}

func TestMerge_TiesKeepConcatenationOrder(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 5, "first.com"),
		idEvent("pi2", 5, "second.com"),
	}
	groups := Merge(events)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Source != "pi1" || groups[1].Source != "pi2" {
		t.Errorf("tie order = [%s, %s], want [pi1, pi2]", groups[0].Source, groups[1].Source)
	}
}

func TestMerge_RunLengthCollapse(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 1, "ads.example.com"),
		idEvent("pi1", 2, "ads.example.com"),
		idEvent("pi1", 3, "ads.example.com"),
		idEvent("pi1", 4, "ads.example.com"),
	}
	groups := Merge(events)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 collapsed run", len(groups))
	}
	if groups[0].Count != 4 {
		t.Errorf("Count = %d, want 4", groups[0].Count)
	}
}

func TestMerge_CollapseRequiresSameSource(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 1, "ads.example.com"),
		idEvent("pi2", 2, "ads.example.com"),
	}
	groups := Merge(events)
	if len(groups) != 2 {
		t.Fatalf("same domain from different sources collapsed, want 2 groups, got %d", len(groups))
	}
}

func TestMerge_NonAdjacentRepeatsStaySeparate(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 1, "a.com"),
		idEvent("pi1", 2, "b.com"),
		idEvent("pi1", 3, "a.com"),
	}
	groups := Merge(events)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3; only consecutive repeats collapse", len(groups))
	}
}

func TestMerge_BlockedIsUnionOfRun(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 1, "mixed.com"),
		blockedEvent("pi1", 2, "mixed.com"),
		idEvent("pi1", 3, "mixed.com"),
	}
	groups := Merge(events)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !groups[0].Blocked {
		t.Error("run containing one blocked event must mark the group blocked")
	}
	if groups[0].Count != 3 {
		t.Errorf("Count = %d, want 3", groups[0].Count)
	}
}

func TestMerge_GroupsNeverExceedEvents(t *testing.T) {
	t.Parallel()
	events := []model.Event{
		idEvent("pi1", 1, "a.com"),
		idEvent("pi1", 2, "a.com"),
		idEvent("pi2", 3, "b.com"),
		idEvent("pi1", 4, "c.com"),
	}
	groups := Merge(events)
	if len(groups) > len(events) {
		t.Errorf("%d groups from %d events", len(groups), len(events))
	}
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	if total != len(events) {
		t.Errorf("group counts sum to %d, want %d", total, len(events))
	}
}
