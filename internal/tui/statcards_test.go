package tui

import (
	"strings"
	"testing"

	"github.com/surajverma/pi-dash/internal/model"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-5, "0"},
	}
	for _, tc := range cases {
		if got := formatCount(tc.in); got != tc.want {
			t.Errorf("formatCount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderStatCard_ErrorAndWaitingStates(t *testing.T) {
	t.Parallel()

	m := dashboardWithLog(t)
	m.errs["pi1"] = "connection refused"

	card := m.renderStatCard(0, "pi1", 30, 9)
	if !strings.Contains(card, "unreachable") {
		t.Errorf("error card missing marker: %q", card)
	}

	waiting := m.renderStatCard(1, "pi2", 30, 9)
	if !strings.Contains(waiting, "waiting for data") {
		t.Errorf("waiting card missing placeholder: %q", waiting)
	}
}

func TestRenderStatCard_Metrics(t *testing.T) {
	t.Parallel()

	m := dashboardWithLog(t)
	m.stats["pi1"] = model.Stats{
		TotalQueries:     12345,
		BlockedQueries:   3210,
		PercentBlocked:   26.0,
		QueryRate:        0.25,
		CachedQueries:    8000,
		ForwardedQueries: 4000,
		UniqueDomains:    1234,
		ActiveClients:    12,
		BlocklistDomains: 142005,
	}

	card := m.renderStatCard(0, "pi1", 34, 11)
	for _, want := range []string{"12,345", "3,210", "26.0%", "15.0/min", "142,005"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
}
