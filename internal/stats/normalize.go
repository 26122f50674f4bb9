package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/surajverma/pi-dash/internal/model"
)

// Normalize converts one raw summary document into the fixed metric set.
// It is total over any JSON-shaped input: an error payload, a missing
// substructure, or a non-numeric field coerces to zero instead of
// propagating, so the UI never sees NaN.
func Normalize(raw map[string]interface{}) model.Stats {
	var s model.Stats
	if raw == nil {
		return s
	}
	if _, failed := raw["error"]; failed {
		return s
	}

	queries := nestedObject(raw, "queries")
	clients := nestedObject(raw, "clients")
	gravity := nestedObject(raw, "gravity")

	s.TotalQueries = numberField(queries, "total")
	s.BlockedQueries = numberField(queries, "blocked")
	s.PercentBlocked = numberField(queries, "percent_blocked")
	s.ActiveClients = numberField(clients, "active")
	s.QueryRate = numberField(queries, "frequency")
	s.CachedQueries = numberField(queries, "cached")
	s.ForwardedQueries = numberField(queries, "forwarded")
	s.UniqueDomains = numberField(queries, "unique_domains")
	s.BlocklistDomains = numberField(gravity, "domains_being_blocked")
	return s
}

// FormatRate renders a raw events-per-second rate for display. Rates below
// 1.0/sec are re-expressed per minute; both forms keep one decimal place.
func FormatRate(perSecond float64) string {
	if perSecond < 1.0 {
		return fmt.Sprintf("%.1f/min", perSecond*60)
	}
	return fmt.Sprintf("%.1f/sec", perSecond)
}

func nestedObject(raw map[string]interface{}, key string) map[string]interface{} {
	obj, _ := raw[key].(map[string]interface{})
	return obj
}

func numberField(raw map[string]interface{}, key string) float64 {
	if raw == nil {
		return 0
	}
	return coerceNumber(raw[key])
}

func coerceNumber(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
