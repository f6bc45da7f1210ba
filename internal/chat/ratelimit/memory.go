package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryLedger is a fixed-window, in-process ledger. State lives in process
// memory only and resets on restart.
type MemoryLedger struct {
	limit      int
	window     time.Duration
	sweepEvery time.Duration

	// Clock is injectable for tests.
	Clock func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryLedger returns a ledger with defaults applied. Call Start to run
// the periodic sweep and Stop to release it.
func NewMemoryLedger(cfg Config) *MemoryLedger {
	cfg = cfg.withDefaults()
	return &MemoryLedger{
		limit:      cfg.Limit,
		window:     cfg.Window,
		sweepEvery: cfg.SweepInterval,
		entries:    make(map[string]*entry),
		done:       make(chan struct{}),
	}
}

// Allow admits up to limit requests per client within a window measured from
// that client's first request in the window. The read-modify-write is atomic
// with respect to concurrent requests for the same client.
func (l *MemoryLedger) Allow(_ context.Context, clientID string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[clientID]
	if !ok || now.Sub(e.windowStart) > l.window {
		l.entries[clientID] = &entry{count: 1, windowStart: now}
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - 1}, nil
	}

	if e.count >= l.limit {
		retryAfter := e.windowStart.Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Result{Allowed: false, Limit: l.limit, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	e.count++
	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - e.count}, nil
}

// Start launches the periodic sweep. Safe to call once.
func (l *MemoryLedger) Start() {
	go func() {
		ticker := time.NewTicker(l.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-l.done:
				return
			}
		}
	}()
}

// Stop cancels the periodic sweep. Idempotent.
func (l *MemoryLedger) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Sweep removes entries whose window started more than twice the window
// duration ago. Housekeeping only: swept entries are already expired for
// admission purposes.
func (l *MemoryLedger) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range l.entries {
		if now.Sub(e.windowStart) > 2*l.window {
			delete(l.entries, id)
		}
	}
}

// Len reports the number of tracked client identifiers.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *MemoryLedger) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}
