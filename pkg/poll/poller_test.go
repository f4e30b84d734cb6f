package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type countingFetcher struct {
	calls int32
	snap  *Snapshot
	err   error
	delay time.Duration
}

func (f *countingFetcher) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.snap != nil {
		return f.snap, nil
	}
	return &Snapshot{}, nil
}

func (f *countingFetcher) count() int {
	return int(atomic.LoadInt32(&f.calls))
}

func TestGuardAdmitsOne(t *testing.T) {
	var g Guard

	assert.Equal(t, true, g.TryAcquire())
	assert.Equal(t, false, g.TryAcquire())

	g.Release()
	assert.Equal(t, true, g.TryAcquire())
}

func TestCountdownSchedulesAtMostOneFetch(t *testing.T) {
	fetcher := &countingFetcher{}
	p := NewPoller(fetcher, Config{CatchUpDelay: 20 * time.Millisecond}, nil)

	expired := time.Now().Add(-time.Minute)
	p.next = &expired

	// The countdown fires twice before the deferred fetch runs; the second
	// tick must be suppressed by the guard.
	p.checkCountdown(context.Background())
	p.checkCountdown(context.Background())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, fetcher.count())
}

func TestCountdownPositiveDoesNotFetch(t *testing.T) {
	fetcher := &countingFetcher{}
	p := NewPoller(fetcher, Config{CatchUpDelay: 5 * time.Millisecond}, nil)

	future := time.Now().Add(time.Hour)
	p.next = &future

	p.checkCountdown(context.Background())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, fetcher.count())
}

func TestCountdownNoNextUpdateDoesNotFetch(t *testing.T) {
	fetcher := &countingFetcher{}
	p := NewPoller(fetcher, Config{}, nil)

	p.checkCountdown(context.Background())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, fetcher.count())
}

func TestForceRefreshSharesGuardWithCountdown(t *testing.T) {
	fetcher := &countingFetcher{delay: 50 * time.Millisecond}
	p := NewPoller(fetcher, Config{CatchUpDelay: time.Millisecond}, nil)

	expired := time.Now().Add(-time.Minute)
	p.next = &expired

	p.checkCountdown(context.Background())
	time.Sleep(10 * time.Millisecond) // deferred fetch is now in flight

	// The forced path must be suppressed while the countdown fetch runs.
	p.forceRefresh(context.Background())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, fetcher.count())
}

func TestGuardReleasedAfterFailedFetch(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("server down")}
	p := NewPoller(fetcher, Config{CatchUpDelay: time.Millisecond}, nil)

	expired := time.Now().Add(-time.Minute)
	p.next = &expired

	p.checkCountdown(context.Background())
	time.Sleep(20 * time.Millisecond)

	// Failure settled the fetch, so the next expiry schedules again.
	p.checkCountdown(context.Background())
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 2, fetcher.count())
}

func TestStopCancelsPendingTimer(t *testing.T) {
	fetcher := &countingFetcher{}
	p := NewPoller(fetcher, Config{CatchUpDelay: 30 * time.Millisecond}, nil)

	expired := time.Now().Add(-time.Minute)
	p.next = &expired

	p.checkCountdown(context.Background())
	p.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, fetcher.count())
}

func TestFetchUpdatesNextFromServer(t *testing.T) {
	next := time.Now().Add(30 * time.Minute)
	fetcher := &countingFetcher{snap: &Snapshot{NextUpdate: &next}}
	var updates int32
	p := NewPoller(fetcher, Config{}, func(*Snapshot) { atomic.AddInt32(&updates, 1) })

	p.guard.TryAcquire()
	p.fetch(context.Background())

	assert.Equal(t, next, *p.next)
	assert.Equal(t, 1, int(atomic.LoadInt32(&updates)))
	// Guard settled.
	assert.Equal(t, true, p.guard.TryAcquire())
}
