package proxyserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surajverma/pi-dash/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProvider struct {
	mu    sync.Mutex
	snap  model.Snapshot
	err   error
	polls []model.PollOpts
	order []string
}

func (f *fakeProvider) Poll(ctx context.Context, opts model.PollOpts) (model.Snapshot, error) {
	f.mu.Lock()
	f.polls = append(f.polls, opts)
	f.mu.Unlock()
	if f.err != nil {
		return model.Snapshot{}, f.err
	}
	return f.snap, nil
}

func (f *fakeProvider) Order() []string { return f.order }

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		TakenAt: time.Now(),
		Results: map[string]model.SourceResult{
			"pi1": {
				Summary: map[string]interface{}{
					"queries": map[string]interface{}{"total": float64(100), "blocked": float64(25)},
				},
				Events: []model.Event{
					{Source: "pi1", Domain: "a.com", Blocked: true, ID: 1, Time: 100.5},
					{Source: "pi1", Domain: "b.com", ID: 2, Time: 101.5, Upstream: "9.9.9.9#53"},
				},
			},
			"pi2": {Err: errors.New("connection refused")},
		},
	}
}

func testConfig() Config {
	return Config{
		Instances: []model.Instance{
			{Name: "pi1", Address: "http://pi.hole", Password: "s3cret", Enabled: true, Link: true},
			{Name: "pi2", Address: "http://10.0.0.2", Password: "hidden", Enabled: true},
			{Name: "ghost", Address: "http://off.example", Password: "x", Enabled: false},
		},
		RefreshInterval: 5 * time.Second,
		ShowQueries:     true,
		LogCapacity:     100,
	}
}

func newTestRouter(t *testing.T, provider *fakeProvider) *gin.Engine {
	t.Helper()
	srv := NewServer(testConfig(), provider)
	srv.startTime = time.Now()
	return srv.router()
}

func get(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal %s response: %v", path, err)
		}
	}
	return w.Code, body
}

func TestHealthEndpoint(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	code, body := get(t, r, "/healthz")
	if code != http.StatusOK {
		t.Errorf("health status = %d, want %d", code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("health status field = %v, want ok", body["status"])
	}
	if body["sources"] != float64(2) {
		t.Errorf("sources = %v, want 2", body["sources"])
	}
}

func TestInitEndpoint_NeverLeaksSecrets(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/init", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("init status = %d, want 200", w.Code)
	}
	raw := w.Body.String()
	for _, secret := range []string{"s3cret", "hidden", "password"} {
		if strings.Contains(raw, secret) {
			t.Errorf("init payload leaks %q", secret)
		}
	}
	// pi2 has no link flag, so its address must not appear either.
	if strings.Contains(raw, "10.0.0.2") {
		t.Error("init payload leaks address of a link-less instance")
	}
	if !strings.Contains(raw, "http://pi.hole") {
		t.Error("init payload should carry the address of a linked instance")
	}
}

func TestInitEndpoint_ConfigShape(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	code, body := get(t, r, "/api/init")
	if code != http.StatusOK {
		t.Fatalf("init status = %d, want 200", code)
	}
	cfg, ok := body["config"].(map[string]interface{})
	if !ok {
		t.Fatalf("config missing from init payload: %v", body)
	}
	if cfg["refresh_interval"] != float64(5000) {
		t.Errorf("refresh_interval = %v, want 5000 ms", cfg["refresh_interval"])
	}
	if cfg["show_queries"] != true {
		t.Errorf("show_queries = %v, want true", cfg["show_queries"])
	}
	piholes, ok := cfg["piholes"].([]interface{})
	if !ok || len(piholes) != 2 {
		t.Fatalf("piholes = %v, want the two enabled instances", cfg["piholes"])
	}
	if body["data"] == nil {
		t.Error("init payload should carry a first data snapshot")
	}
}

func TestDataEndpoint_PerSourceErrors(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	code, body := get(t, r, "/api/data")
	if code != http.StatusOK {
		t.Fatalf("data status = %d, want 200", code)
	}
	stats, ok := body["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("stats missing: %v", body)
	}
	if _, hasQueries := body["queries"]; hasQueries {
		t.Error("queries should be absent unless requested")
	}

	pi1, ok := stats["pi1"].(map[string]interface{})
	if !ok || pi1["queries"] == nil {
		t.Errorf("pi1 stats = %v, want raw summary", stats["pi1"])
	}
	pi2, ok := stats["pi2"].(map[string]interface{})
	if !ok || pi2["error"] != "connection refused" {
		t.Errorf("pi2 stats = %v, want error marker", stats["pi2"])
	}
}

func TestDataEndpoint_IncludesQueriesOnRequest(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	code, body := get(t, r, "/api/data?include_queries=true&length=25")
	if code != http.StatusOK {
		t.Fatalf("data status = %d, want 200", code)
	}
	queries, ok := body["queries"].(map[string]interface{})
	if !ok {
		t.Fatalf("queries missing: %v", body)
	}
	pi1, ok := queries["pi1"].([]interface{})
	if !ok || len(pi1) != 2 {
		t.Fatalf("pi1 queries = %v, want 2 records", queries["pi1"])
	}
	first, _ := pi1[0].(map[string]interface{})
	if first["domain"] != "a.com" || first["blocked"] != true {
		t.Errorf("first record = %v, want blocked a.com", first)
	}
	pi2, ok := queries["pi2"].([]interface{})
	if !ok || len(pi2) != 0 {
		t.Errorf("failed source queries = %v, want empty list", queries["pi2"])
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	last := provider.polls[len(provider.polls)-1]
	if !last.IncludeQueries || last.QueryLength != 25 {
		t.Errorf("poll opts = %+v, want queries with length 25", last)
	}
}

func TestQueriesEndpoint_ClampsLength(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	r := newTestRouter(t, provider)

	if code, _ := get(t, r, "/api/queries?length=10000"); code != http.StatusOK {
		t.Fatalf("queries status = %d, want 200", code)
	}
	if code, _ := get(t, r, "/api/queries?length=-4"); code != http.StatusOK {
		t.Fatalf("queries status = %d, want 200", code)
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if provider.polls[0].QueryLength != model.MaxQueryLength {
		t.Errorf("oversized length forwarded as %d, want %d", provider.polls[0].QueryLength, model.MaxQueryLength)
	}
	if provider.polls[1].QueryLength != 1 {
		t.Errorf("negative length forwarded as %d, want 1", provider.polls[1].QueryLength)
	}
}

func TestDataEndpoint_WholePollFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("poll exploded")}
	r := newTestRouter(t, provider)

	code, body := get(t, r, "/api/data")
	if code != http.StatusInternalServerError {
		t.Errorf("data status = %d, want 500", code)
	}
	if body["error"] == nil {
		t.Error("error payload missing")
	}
}

func TestClient_PollThroughRunningServer(t *testing.T) {
	provider := &fakeProvider{snap: testSnapshot(), order: []string{"pi1", "pi2"}}
	srv := NewServer(Config{Addr: "127.0.0.1:0", Instances: testConfig().Instances, RefreshInterval: 2 * time.Second, ShowQueries: true, LogCapacity: 50}, provider)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	client, err := Dial(context.Background(), srv.Addr(), 2*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if got := client.RefreshInterval(); got != 2*time.Second {
		t.Errorf("RefreshInterval = %v, want 2s", got)
	}
	if got := client.LogCapacity(); got != 50 {
		t.Errorf("LogCapacity = %d, want 50", got)
	}
	if order := client.Order(); len(order) != 2 || order[0] != "pi1" {
		t.Errorf("Order = %v, want [pi1 pi2]", order)
	}

	snap, err := client.Poll(context.Background(), model.PollOpts{IncludeQueries: true})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	pi1 := snap.Results["pi1"]
	if pi1.Err != nil || len(pi1.Events) != 2 {
		t.Errorf("pi1 result = %+v, want 2 events and no error", pi1)
	}
	if pi1.Events[0].Domain != "a.com" || !pi1.Events[0].Blocked || pi1.Events[0].ID != 1 {
		t.Errorf("first event = %+v, want blocked a.com id 1", pi1.Events[0])
	}
	if pi2 := snap.Results["pi2"]; pi2.Err == nil {
		t.Error("pi2 should carry its error across the wire")
	}
}
