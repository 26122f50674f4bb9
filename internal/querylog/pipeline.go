package querylog

import "github.com/surajverma/pi-dash/internal/model"

// Pipeline owns the per-session state one poll cycle threads through:
// cursor tracking, the cross-source merge, and the bounded log. It is not
// safe for concurrent use; the dashboard drives it from a single control
// flow, one completed poll at a time.
type Pipeline struct {
	tracker *Tracker
	log     *Log
}

// NewPipeline returns a Pipeline whose log holds at most capacity rows.
func NewPipeline(capacity int) *Pipeline {
	return &Pipeline{
		tracker: NewTracker(),
		log:     NewLog(capacity),
	}
}

// Ingest runs one poll's per-source event lists through the pipeline:
// cursor-filter each source, merge across sources, fold into groups, apply
// to the bounded log. Sources are visited in the given order so cross-source
// ordinal ties resolve deterministically. The groups are returned so callers
// can observe what this poll contributed.
func (p *Pipeline) Ingest(order []string, perSource map[string][]model.Event) []model.Group {
	var fresh []model.Event
	for _, name := range order {
		accepted := p.tracker.AcceptNew(name, perSource[name])
		fresh = append(fresh, accepted...)
	}

	groups := Merge(fresh)
	p.log.Apply(groups)
	return groups
}

// Entries returns the rendered log rows, oldest first.
func (p *Pipeline) Entries() []model.LogEntry { return p.log.Entries() }

// Len reports the current number of log rows.
func (p *Pipeline) Len() int { return p.log.Len() }

// Capacity reports the log's configured bound.
func (p *Pipeline) Capacity() int { return p.log.Capacity() }
