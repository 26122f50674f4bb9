package pihole

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/surajverma/pi-dash/internal/model"
)

// Hostnames collects the lowercased hostnames of the given instances.
// Queries for these names are the dashboard's own polling traffic and get
// filtered out of the live log, no matter which instance answered them.
func Hostnames(instances []model.Instance) map[string]struct{} {
	hosts := make(map[string]struct{}, len(instances))
	for _, inst := range instances {
		if host := hostOf(inst.Address); host != "" {
			hosts[host] = struct{}{}
		}
	}
	return hosts
}

func hostOf(address string) string {
	if u, err := url.Parse(address); err == nil && u.Hostname() != "" {
		return strings.ToLower(u.Hostname())
	}
	host := address
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host, _, _ = strings.Cut(host, "/")
	host, _, _ = strings.Cut(host, ":")
	return strings.ToLower(strings.TrimSpace(host))
}

// NormalizeQueries converts one source's raw query records into Events.
// The upstream feed is newest-first; the result is oldest-first, which is
// the arrival order the pipeline consumes. Domains keep their original
// casing for display while self-host filtering compares lowercased.
func NormalizeQueries(source string, raw []map[string]interface{}, selfHosts map[string]struct{}) []model.Event {
	events := make([]model.Event, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		q := raw[i]
		originalDomain := stringField(q, "domain")
		domain := strings.ToLower(strings.TrimSpace(originalDomain))
		if _, self := selfHosts[domain]; self {
			continue
		}
		events = append(events, model.Event{
			Source:   source,
			Domain:   originalDomain,
			Blocked:  StatusBlocked(stringField(q, "status")),
			ID:       intField(q, "id"),
			Time:     floatField(q, "time", "timestamp"),
			Upstream: stringField(q, "upstream"),
		})
	}
	return events
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func intField(raw map[string]interface{}, key string) int64 {
	switch v := raw[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func floatField(raw map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				continue
			}
			return f
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			return f
		}
	}
	return 0
}
