package poll

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/surajverma/pi-dash/internal/model"
)

type fakeSource struct {
	name    string
	summary map[string]interface{}
	sumErr  error
	queries []map[string]interface{}
	qErr    error

	mu           sync.Mutex
	summaryCalls int
	queryCalls   int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Summary(ctx context.Context) (map[string]interface{}, error) {
	f.mu.Lock()
	f.summaryCalls++
	f.mu.Unlock()
	if f.sumErr != nil {
		return nil, f.sumErr
	}
	return f.summary, nil
}

func (f *fakeSource) Queries(ctx context.Context, length int) ([]map[string]interface{}, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	if f.qErr != nil {
		return nil, f.qErr
	}
	if len(f.queries) > length {
		return f.queries[:length], nil
	}
	return f.queries, nil
}

func newTestPoller(sources ...*fakeSource) *Poller {
	p := &Poller{
		clients:   make(map[string]sourceClient),
		selfHosts: map[string]struct{}{"pi.hole": {}},
	}
	for _, s := range sources {
		p.order = append(p.order, s.name)
		p.clients[s.name] = s
	}
	return p
}

func TestPoll_IsolatesFailingSource(t *testing.T) {
	t.Parallel()
	healthy := &fakeSource{
		name:    "pi1",
		summary: map[string]interface{}{"queries": map[string]interface{}{"total": float64(10)}},
	}
	broken := &fakeSource{name: "pi2", sumErr: errors.New("connection refused")}

	snap, err := newTestPoller(healthy, broken).Poll(context.Background(), model.PollOpts{})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}

	if res := snap.Results["pi1"]; res.Err != nil || res.Summary == nil {
		t.Errorf("healthy source result = %+v, want intact summary", res)
	}
	if res := snap.Results["pi2"]; res.Err == nil {
		t.Error("broken source should carry its error in the snapshot")
	}
}

func TestPoll_QueriesOnlyWhenRequested(t *testing.T) {
	t.Parallel()
	src := &fakeSource{
		name:    "pi1",
		summary: map[string]interface{}{},
		queries: []map[string]interface{}{
			{"id": float64(1), "domain": "a.com", "status": "GRAVITY", "time": 100.0},
		},
	}
	p := newTestPoller(src)

	if _, err := p.Poll(context.Background(), model.PollOpts{}); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	src.mu.Lock()
	calls := src.queryCalls
	src.mu.Unlock()
	if calls != 0 {
		t.Errorf("queryCalls = %d without IncludeQueries, want 0", calls)
	}

	snap, err := p.Poll(context.Background(), model.PollOpts{IncludeQueries: true})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	events := snap.Results["pi1"].Events
	if len(events) != 1 || events[0].Domain != "a.com" || !events[0].Blocked {
		t.Errorf("events = %+v, want one blocked a.com event", events)
	}
}

func TestPoll_QueryFeedFailureKeepsStats(t *testing.T) {
	t.Parallel()
	src := &fakeSource{
		name:    "pi1",
		summary: map[string]interface{}{"queries": map[string]interface{}{}},
		qErr:    errors.New("boom"),
	}

	snap, err := newTestPoller(src).Poll(context.Background(), model.PollOpts{IncludeQueries: true})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	res := snap.Results["pi1"]
	if res.Err != nil {
		t.Errorf("query feed failure must not fail the source, got Err=%v", res.Err)
	}
	if res.Summary == nil {
		t.Error("stats should survive a query feed failure")
	}
	if len(res.Events) != 0 {
		t.Errorf("events = %+v, want none", res.Events)
	}
}

func TestPoll_FiltersSelfTraffic(t *testing.T) {
	t.Parallel()
	src := &fakeSource{
		name:    "pi1",
		summary: map[string]interface{}{},
		queries: []map[string]interface{}{
			{"id": float64(2), "domain": "pi.hole", "status": "CACHE", "time": 102.0},
			{"id": float64(1), "domain": "real.com", "status": "FORWARDED", "time": 101.0},
		},
	}

	snap, err := newTestPoller(src).Poll(context.Background(), model.PollOpts{IncludeQueries: true})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	events := snap.Results["pi1"].Events
	if len(events) != 1 || events[0].Domain != "real.com" {
		t.Errorf("events = %+v, want only real.com", events)
	}
}

func TestPoll_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPoller(&fakeSource{name: "pi1", summary: map[string]interface{}{}}).
		Poll(ctx, model.PollOpts{})
	if err == nil {
		t.Error("Poll with cancelled context should fail wholesale")
	}
}

func TestNew_SkipsDisabledInstances(t *testing.T) {
	t.Parallel()
	p := New([]model.Instance{
		{Name: "on", Address: "http://a.example", Enabled: true},
		{Name: "off", Address: "http://b.example", Enabled: false},
	}, 0)

	order := p.Order()
	if len(order) != 1 || order[0] != "on" {
		t.Errorf("Order = %v, want [on]", order)
	}
}
