package model

import "context"

// PollOpts holds optional knobs applied to one poll cycle.
type PollOpts struct {
	IncludeQueries bool
	QueryLength    int // upstream fetch size, clamped to [1, MaxQueryLength]
}

// SnapshotProvider returns one poll's worth of per-source data.
// Per-source failures are carried inside the Snapshot (SourceResult.Err);
// the returned error means the whole cycle failed and nothing was produced.
type SnapshotProvider interface {
	Poll(ctx context.Context, opts PollOpts) (Snapshot, error)
}
