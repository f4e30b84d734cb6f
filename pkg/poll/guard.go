package poll

import "sync"

// Guard admits at most one in-flight fetch. Every trigger path — countdown
// expiry and the fixed-interval forced refresh — must go through the same
// Guard, otherwise a server whose next_update lags the wall clock schedules
// a new fetch on every tick.
type Guard struct {
	mu       sync.Mutex
	inFlight bool
}

// TryAcquire claims the slot; false means a fetch is already scheduled or
// running.
func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return false
	}
	g.inFlight = true
	return true
}

// Release frees the slot; call it when the fetch settles, success or failure.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
}
