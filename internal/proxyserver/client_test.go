package proxyserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/surajverma/pi-dash/internal/model"
)

func stubDaemon(t *testing.T, initBody, dataBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/init", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(initBody))
	})
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dataBody))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestDial_SparseConfigFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	ts := stubDaemon(t, `{"config":{"piholes":[{"name":"solo"}]}}`, `{}`)

	// Scheme-less address exercises the http:// prefix path.
	client, err := Dial(context.Background(), strings.TrimPrefix(ts.URL, "http://"), 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if got := client.RefreshInterval(); got != model.DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want default %v", got, model.DefaultRefreshInterval)
	}
	if got := client.LogCapacity(); got != model.DefaultLogCapacity {
		t.Errorf("LogCapacity = %d, want default %d", got, model.DefaultLogCapacity)
	}
	if client.ShowQueries() {
		t.Error("ShowQueries should default to false when the daemon omits it")
	}
	if order := client.Order(); len(order) != 1 || order[0] != "solo" {
		t.Errorf("Order = %v, want [solo]", order)
	}
}

func TestDial_RejectsUnhealthyDaemon(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	if _, err := Dial(context.Background(), ts.URL, 0); err == nil {
		t.Fatal("Dial should fail on a non-200 bootstrap response")
	}
}

func TestPoll_DecodesErrorMarkersAndLegacyTimestamps(t *testing.T) {
	t.Parallel()

	data := `{
		"stats": {
			"pi1": {"queries": {"total": 10}},
			"pi2": {"error": "timeout"}
		},
		"queries": {
			"pi1": [
				{"domain": "a.com", "blocked": true, "id": 7},
				{"domain": "b.com", "blocked": false, "timestamp": 123.5}
			],
			"pi2": []
		}
	}`
	ts := stubDaemon(t, `{"config":{"piholes":[{"name":"pi1"},{"name":"pi2"}]}}`, data)

	client, err := Dial(context.Background(), ts.URL, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	snap, err := client.Poll(context.Background(), model.PollOpts{IncludeQueries: true, QueryLength: 2})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}

	pi1 := snap.Results["pi1"]
	if pi1.Err != nil {
		t.Fatalf("pi1 err = %v, want nil", pi1.Err)
	}
	if len(pi1.Events) != 2 {
		t.Fatalf("pi1 events = %d, want 2", len(pi1.Events))
	}
	if ev := pi1.Events[0]; ev.Source != "pi1" || ev.ID != 7 || !ev.Blocked {
		t.Errorf("first event = %+v, want blocked pi1 id 7", ev)
	}
	// Records carrying only the legacy timestamp key still get an ordinal.
	if ev := pi1.Events[1]; ev.Time != 123.5 {
		t.Errorf("legacy timestamp decoded as %v, want 123.5", ev.Time)
	}

	pi2 := snap.Results["pi2"]
	if pi2.Err == nil || pi2.Err.Error() != "timeout" {
		t.Errorf("pi2 err = %v, want the daemon's error marker", pi2.Err)
	}
	if len(pi2.Events) != 0 {
		t.Errorf("pi2 events = %d, want none", len(pi2.Events))
	}
}

func TestPoll_TransportFailureIsWholePoll(t *testing.T) {
	t.Parallel()

	ts := stubDaemon(t, `{"config":{"piholes":[{"name":"pi1"}]}}`, `{}`)
	client, err := Dial(context.Background(), ts.URL, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	ts.Close()

	if _, err := client.Poll(context.Background(), model.PollOpts{}); err == nil {
		t.Fatal("Poll should fail once the daemon is gone")
	}
}
