// Package poll assembles one snapshot per tick by fanning out to every
// enabled source concurrently, with per-source failure isolation.
package poll

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surajverma/pi-dash/internal/model"
	"github.com/surajverma/pi-dash/internal/pihole"
)

// maxConcurrentFetches bounds the per-tick fan-out across sources.
const maxConcurrentFetches = 10

// sourceClient is the slice of the Pi-hole client the poller needs.
type sourceClient interface {
	Name() string
	Summary(ctx context.Context) (map[string]interface{}, error)
	Queries(ctx context.Context, length int) ([]map[string]interface{}, error)
}

// Poller polls every enabled source concurrently and assembles one Snapshot
// per call. A failing source never affects the others: its result carries
// the error while the rest update normally.
type Poller struct {
	order     []string
	clients   map[string]sourceClient
	selfHosts map[string]struct{}
}

// New builds a Poller over the enabled instances; disabled ones are skipped
// everywhere, including the self-host filter inputs.
func New(instances []model.Instance, timeout time.Duration) *Poller {
	p := &Poller{
		clients:   make(map[string]sourceClient),
		selfHosts: pihole.Hostnames(instances),
	}
	for _, inst := range instances {
		if !inst.Enabled {
			continue
		}
		p.order = append(p.order, inst.Name)
		p.clients[inst.Name] = pihole.NewClient(inst, timeout)
	}
	return p
}

// Order returns the enabled source names in configured order.
func (p *Poller) Order() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Poll implements model.SnapshotProvider.
func (p *Poller) Poll(ctx context.Context, opts model.PollOpts) (model.Snapshot, error) {
	snap := model.Snapshot{
		TakenAt: time.Now(),
		Results: make(map[string]model.SourceResult, len(p.order)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, name := range p.order {
		client := p.clients[name]
		g.Go(func() error {
			res := p.fetchOne(gctx, client, opts)
			mu.Lock()
			snap.Results[client.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// fetchOne gathers one source's stats and, when requested, its query feed.
// A failed query feed degrades to no events; the stats still render.
func (p *Poller) fetchOne(ctx context.Context, client sourceClient, opts model.PollOpts) model.SourceResult {
	summary, err := client.Summary(ctx)
	if err != nil {
		return model.SourceResult{Err: err}
	}

	res := model.SourceResult{Summary: summary}
	if !opts.IncludeQueries {
		return res
	}

	length := opts.QueryLength
	if length <= 0 {
		length = model.DefaultQueryLength
	}
	raw, err := client.Queries(ctx, length)
	if err != nil {
		return res
	}
	res.Events = pihole.NormalizeQueries(client.Name(), raw, p.selfHosts)
	return res
}
