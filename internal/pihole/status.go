// Package pihole talks to the Pi-hole v6 FTL API: session auth, the stats
// summary, and the recent-queries feed, plus the normalization that turns
// raw query records into dashboard events.
package pihole

import "strings"

// blockedStatuses is the set of FTL query statuses that count as blocked.
// Everything else (FORWARDED, CACHE, RETRIED, ...) counts as allowed.
var blockedStatuses = map[string]struct{}{
	"GRAVITY":                {},
	"REGEX":                  {},
	"DENYLIST":               {},
	"EXTERNAL_BLOCKED_IP":    {},
	"EXTERNAL_BLOCKED_NULL":  {},
	"EXTERNAL_BLOCKED_NXRA":  {},
	"GRAVITY_CNAME":          {},
	"REGEX_CNAME":            {},
	"DENYLIST_CNAME":         {},
	"DBBUSY":                 {},
	"SPECIAL_DOMAIN":         {},
	"EXTERNAL_BLOCKED_EDE15": {},
}

// StatusBlocked reports whether an FTL query status string means the query
// was blocked. Comparison is case-insensitive; unknown statuses are allowed.
func StatusBlocked(status string) bool {
	_, ok := blockedStatuses[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}
