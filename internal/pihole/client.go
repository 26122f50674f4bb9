package pihole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/surajverma/pi-dash/internal/model"
)

// noPassword marks a session with an instance that runs without a password.
// No session header is sent for it and a 401 on it is never retried.
const noPassword = "NO_PASSWORD"

// sessionHeader carries the FTL session id on authenticated requests.
const sessionHeader = "X-FTL-SID"

// Client talks to one Pi-hole instance. The session id is cached across
// calls and refreshed once per call when the instance answers 401.
// Safe for concurrent use.
type Client struct {
	instance model.Instance
	http     *http.Client

	mu  sync.Mutex
	sid string
}

// NewClient returns a client for one instance. timeout bounds every request;
// non-positive values fall back to the shared default.
func NewClient(instance model.Instance, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	return &Client{
		instance: instance,
		http:     &http.Client{Timeout: timeout},
	}
}

// Name returns the instance's display name.
func (c *Client) Name() string { return c.instance.Name }

// Summary fetches the raw stats summary document, undecoded beyond JSON.
func (c *Client) Summary(ctx context.Context) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := c.getJSON(ctx, "/api/stats/summary", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Queries fetches up to length recent query records, raw and newest-first
// as the instance serves them. length is clamped to [1, MaxQueryLength].
func (c *Client) Queries(ctx context.Context, length int) ([]map[string]interface{}, error) {
	length = ClampLength(length)
	var doc struct {
		Queries []map[string]interface{} `json:"queries"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/queries?length=%d", length), &doc); err != nil {
		return nil, err
	}
	if len(doc.Queries) > length {
		doc.Queries = doc.Queries[:length]
	}
	return doc.Queries, nil
}

// ClampLength bounds an upstream fetch size to [1, MaxQueryLength].
func ClampLength(length int) int {
	if length < 1 {
		return 1
	}
	if length > model.MaxQueryLength {
		return model.MaxQueryLength
	}
	return length
}

// session returns the cached session id, authenticating when none is held.
func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sid != "" {
		return c.sid, nil
	}
	sid, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.sid = sid
	return sid, nil
}

// dropSession forgets the cached session id if it still matches old, so a
// concurrent caller that already re-authenticated is not clobbered.
func (c *Client) dropSession(old string) {
	c.mu.Lock()
	if c.sid == old {
		c.sid = ""
	}
	c.mu.Unlock()
}

// authenticate performs POST /api/auth. It returns the fresh session id, or
// the noPassword sentinel when the instance reports no password set.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"password": c.instance.Password})
	if err != nil {
		return "", fmt.Errorf("pihole: auth %s: marshal: %w", c.instance.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.instance.Address+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("pihole: auth %s: build request: %w", c.instance.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pihole: auth %s: %w", c.instance.Name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", fmt.Errorf("pihole: auth %s: incorrect password", c.instance.Name)
	default:
		return "", fmt.Errorf("pihole: auth %s: unexpected status %d", c.instance.Name, resp.StatusCode)
	}

	var payload struct {
		Session struct {
			SID     string `json:"sid"`
			Message string `json:"message"`
		} `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("pihole: auth %s: decode: %w", c.instance.Name, err)
	}
	if payload.Session.SID != "" {
		return payload.Session.SID, nil
	}
	if payload.Session.Message == "no password set" {
		return noPassword, nil
	}
	return "", fmt.Errorf("pihole: auth %s: 200 OK but no session id", c.instance.Name)
}

// getJSON performs an authenticated GET and decodes the response into dest.
// A 401 drops the cached session and retries exactly once with a fresh one.
func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	sid, err := c.session(ctx)
	if err != nil {
		return err
	}

	resp, err := c.get(ctx, path, sid)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && sid != noPassword {
		resp.Body.Close()
		c.dropSession(sid)
		sid, err = c.session(ctx)
		if err != nil {
			return err
		}
		resp, err = c.get(ctx, path, sid)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pihole: %s %s: unexpected status %d", c.instance.Name, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("pihole: %s %s: decode: %w", c.instance.Name, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, sid string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.instance.Address+path, nil)
	if err != nil {
		return nil, fmt.Errorf("pihole: %s: build request: %w", c.instance.Name, err)
	}
	if sid != noPassword {
		req.Header.Set(sessionHeader, sid)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pihole: %s %s: %w", c.instance.Name, path, err)
	}
	return resp, nil
}
