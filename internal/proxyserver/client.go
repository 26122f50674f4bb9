package proxyserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/surajverma/pi-dash/internal/model"
)

// Client implements model.SnapshotProvider over a running daemon's API, so
// the TUI can ride an existing daemon instead of holding source credentials
// itself.
type Client struct {
	baseURL string
	http    *http.Client

	order       []string
	refresh     time.Duration
	showQueries bool
	capacity    int
}

// Dial fetches the daemon's bootstrap payload and returns a ready client.
// baseURL is the daemon address, with or without the http:// prefix.
func Dial(ctx context.Context, baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	var payload struct {
		Config struct {
			RefreshInterval  int64 `json:"refresh_interval"`
			ShowQueries      bool  `json:"show_queries"`
			QueryLogCapacity int   `json:"query_log_capacity"`
			Piholes          []struct {
				Name string `json:"name"`
			} `json:"piholes"`
		} `json:"config"`
	}
	if err := c.getJSON(ctx, "/api/init", &payload); err != nil {
		return nil, fmt.Errorf("proxyserver: dial: %w", err)
	}

	for _, p := range payload.Config.Piholes {
		c.order = append(c.order, p.Name)
	}
	c.refresh = time.Duration(payload.Config.RefreshInterval) * time.Millisecond
	if c.refresh <= 0 {
		c.refresh = model.DefaultRefreshInterval
	}
	c.showQueries = payload.Config.ShowQueries
	c.capacity = payload.Config.QueryLogCapacity
	if c.capacity <= 0 {
		c.capacity = model.DefaultLogCapacity
	}
	return c, nil
}

// Order returns the daemon's enabled source names in configured order.
func (c *Client) Order() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// RefreshInterval is the poll interval the daemon was configured with.
func (c *Client) RefreshInterval() time.Duration { return c.refresh }

// ShowQueries reports whether the daemon serves the live query feed.
func (c *Client) ShowQueries() bool { return c.showQueries }

// LogCapacity is the daemon's configured bounded-log capacity.
func (c *Client) LogCapacity() int { return c.capacity }

// Poll implements model.SnapshotProvider. Any transport or decode failure
// is a whole-poll failure; per-source errors ride inside the snapshot.
func (c *Client) Poll(ctx context.Context, opts model.PollOpts) (model.Snapshot, error) {
	path := "/api/data"
	if opts.IncludeQueries {
		length := opts.QueryLength
		if length <= 0 {
			length = model.DefaultQueryLength
		}
		path = fmt.Sprintf("/api/data?include_queries=true&length=%d", length)
	}

	var payload struct {
		Stats   map[string]map[string]interface{} `json:"stats"`
		Queries map[string][]wireEvent            `json:"queries"`
	}
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return model.Snapshot{}, fmt.Errorf("proxyserver: poll: %w", err)
	}

	snap := model.Snapshot{
		TakenAt: time.Now(),
		Results: make(map[string]model.SourceResult, len(payload.Stats)),
	}
	for name, doc := range payload.Stats {
		res := model.SourceResult{Summary: doc}
		if msg, failed := doc["error"]; failed {
			res = model.SourceResult{Err: fmt.Errorf("%v", msg)}
		}
		for _, w := range payload.Queries[name] {
			res.Events = append(res.Events, w.event(name))
		}
		snap.Results[name] = res
	}
	return snap, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
