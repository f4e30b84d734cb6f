package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config tunes the poller; zero values take the defaults below.
type Config struct {
	// Tick is how often the countdown against next_update is evaluated.
	Tick time.Duration
	// CatchUpDelay defers the re-fetch slightly once the countdown expires,
	// giving a lagging server a moment to finish its cycle.
	CatchUpDelay time.Duration
	// ForceInterval re-fetches unconditionally, countdown or not.
	ForceInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Tick <= 0 {
		c.Tick = time.Second
	}
	if c.CatchUpDelay <= 0 {
		c.CatchUpDelay = 2 * time.Second
	}
	if c.ForceInterval <= 0 {
		c.ForceInterval = 30 * time.Minute
	}
	return c
}

// Poller drives the dashboard refresh contract: a per-second countdown
// against the server-advertised next_update, one deferred catch-up fetch when
// it expires, and an unconditional long-interval refresh. Both trigger paths
// share one Guard so at most one fetch is ever in flight.
type Poller struct {
	fetcher  Fetcher
	onUpdate func(*Snapshot)
	cfg      Config
	guard    Guard

	mu      sync.Mutex
	next    *time.Time
	pending *time.Timer
	stopped bool
}

func NewPoller(fetcher Fetcher, cfg Config, onUpdate func(*Snapshot)) *Poller {
	return &Poller{
		fetcher:  fetcher,
		onUpdate: onUpdate,
		cfg:      cfg.withDefaults(),
	}
}

// Run polls until ctx is cancelled. The initial fetch happens immediately.
func (p *Poller) Run(ctx context.Context) {
	if p.guard.TryAcquire() {
		p.fetch(ctx)
	}

	ticker := time.NewTicker(p.cfg.Tick)
	defer ticker.Stop()
	force := time.NewTicker(p.cfg.ForceInterval)
	defer force.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Stop()
			return
		case <-ticker.C:
			p.checkCountdown(ctx)
		case <-force.C:
			p.forceRefresh(ctx)
		}
	}
}

// checkCountdown schedules at most one deferred catch-up fetch once
// next_update has passed. While the countdown is positive, or a fetch is
// already in flight, it does nothing.
func (p *Poller) checkCountdown(ctx context.Context) {
	p.mu.Lock()
	next := p.next
	stopped := p.stopped
	p.mu.Unlock()

	if stopped || next == nil || time.Until(*next) > 0 {
		return
	}

	if !p.guard.TryAcquire() {
		return
	}

	timer := time.AfterFunc(p.cfg.CatchUpDelay, func() {
		p.fetch(ctx)
	})

	p.mu.Lock()
	p.pending = timer
	p.mu.Unlock()
}

func (p *Poller) forceRefresh(ctx context.Context) {
	if !p.guard.TryAcquire() {
		return
	}
	go p.fetch(ctx)
}

// fetch runs with the guard held and releases it when the request settles.
func (p *Poller) fetch(ctx context.Context) {
	defer p.guard.Release()

	snap, err := p.fetcher.FetchSnapshot(ctx)
	if err != nil {
		slog.Warn("snapshot fetch failed", "error", err)
		return
	}

	p.mu.Lock()
	p.next = snap.NextUpdate
	stopped := p.stopped
	p.mu.Unlock()

	// Do not surface data after Stop; in-flight requests are never
	// cancelled, only their delivery is.
	if !stopped && p.onUpdate != nil {
		p.onUpdate(snap)
	}
}

// Stop cancels the pending catch-up timer if one is armed. It does not
// cancel an in-flight fetch.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopped = true
	if p.pending != nil {
		if p.pending.Stop() {
			// Timer never fired, so its fetch never runs to release.
			p.guard.Release()
		}
		p.pending = nil
	}
}
