package service

import "sync"

// sweepGuard serializes sweeps per user. A sweep can take a while against the
// external providers, and running two for the same mailbox would double-send
// follow-ups, so a concurrent trigger is reported as skipped instead.
type sweepGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newSweepGuard() *sweepGuard {
	return &sweepGuard{active: make(map[string]struct{})}
}

// acquire marks a sweep as running for the key. It returns false when one is
// already in flight.
func (g *sweepGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *sweepGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}
