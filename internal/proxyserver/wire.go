package proxyserver

import "github.com/surajverma/pi-dash/internal/model"

// wireEvent is the query-record shape on the API. Timestamp repeats Time
// under its legacy key; zero-valued optionals are omitted so absent stays
// absent across the hop.
type wireEvent struct {
	ID        int64   `json:"id,omitempty"`
	Domain    string  `json:"domain"`
	Blocked   bool    `json:"blocked"`
	Time      float64 `json:"time,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
	Upstream  string  `json:"upstream,omitempty"`
}

func toWire(ev model.Event) wireEvent {
	return wireEvent{
		ID:        ev.ID,
		Domain:    ev.Domain,
		Blocked:   ev.Blocked,
		Time:      ev.Time,
		Timestamp: ev.Time,
		Upstream:  ev.Upstream,
	}
}

func (w wireEvent) event(source string) model.Event {
	t := w.Time
	if t == 0 {
		t = w.Timestamp
	}
	return model.Event{
		Source:   source,
		Domain:   w.Domain,
		Blocked:  w.Blocked,
		ID:       w.ID,
		Time:     t,
		Upstream: w.Upstream,
	}
}
