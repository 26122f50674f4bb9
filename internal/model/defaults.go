package model

import "time"

// Shared defaults used by both the daemon and TUI binaries.
const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultLogCapacity     = 100
	DefaultQueryLength     = 50
	MaxQueryLength         = 200
	DefaultRequestTimeout  = 10 * time.Second
	DefaultListenAddr      = "127.0.0.1:8091"
)
