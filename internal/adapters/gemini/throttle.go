package gemini

import (
	"context"
	"sync"
	"time"
)

// requestGate spaces outgoing API calls so the free-tier quota of the
// Gemini API is never exceeded. It is a minimum-interval gate, not a
// burst bucket: one request per interval, callers block in Wait.
type requestGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newRequestGate(perMinute int) *requestGate {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &requestGate{interval: time.Minute / time.Duration(perMinute)}
}

// Wait blocks until the next request slot opens or the context is done.
func (g *requestGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := time.Now()
	next := g.last.Add(g.interval)
	if now.After(next) {
		next = now
	}
	g.last = next
	g.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
