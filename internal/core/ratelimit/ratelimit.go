package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between outbound requests per carrier.
// It is in-memory and process-scoped only; no cross-process coordination.
// A single instance is shared by all tracking requests and must be passed in
// explicitly wherever spacing is required.
type Limiter struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration

	// now and sleep are injectable for fake-clock tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter with the given minimum interval between requests to
// the same carrier.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// NewWithClock creates a Limiter with injected time functions. Used by tests
// to verify spacing without real waiting.
func NewWithClock(interval time.Duration, now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *Limiter {
	return &Limiter{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      now,
		sleep:    sleep,
	}
}

// Acquire blocks until it is safe to issue an outbound request for the given
// carrier. Concurrent callers for one carrier are serialized: each caller
// reserves the next free slot under the lock, then waits outside it, so
// per-carrier request times are monotonic and spaced by at least the
// configured interval. Returns early with ctx.Err() on cancellation.
func (l *Limiter) Acquire(ctx context.Context, carrier string) error {
	l.mu.Lock()
	now := l.now()
	slot := l.last[carrier].Add(l.interval)
	if slot.Before(now) {
		slot = now
	}
	l.last[carrier] = slot
	l.mu.Unlock()

	if wait := slot.Sub(now); wait > 0 {
		return l.sleep(ctx, wait)
	}
	return nil
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
