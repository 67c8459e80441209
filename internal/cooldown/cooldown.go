// Package cooldown tracks the last successful purchase per lock key and
// enforces a minimum gap between successes.
package cooldown

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/clock"
)

// GlobalLockKey scopes one cool-down to the whole machine.
const GlobalLockKey = "GlobalMachineLock"

// Tracker owns the per-key last-success timestamps. It lives as long as the
// process that created it; nothing is persisted.
type Tracker struct {
	window time.Duration
	clock  clock.Clock

	mu          sync.Mutex
	lastSuccess map[string]time.Time
}

func NewTracker(window time.Duration, c clock.Clock) *Tracker {
	if c == nil {
		c = clock.Real{}
	}
	return &Tracker{
		window:      window,
		clock:       c,
		lastSuccess: make(map[string]time.Time),
	}
}

func (t *Tracker) Window() time.Duration {
	return t.window
}

// Check reports whether a purchase on key may proceed. When it may not, the
// returned duration is the remaining cool-down. Elapsed time equal to the
// window is allowed.
func (t *Tracker) Check(key string) (time.Duration, bool) {
	t.mu.Lock()
	last, ok := t.lastSuccess[key]
	t.mu.Unlock()
	if !ok {
		return 0, true
	}

	elapsed := t.clock.Now().Sub(last)
	if elapsed < t.window {
		return t.window - elapsed, false
	}
	return 0, true
}

// MarkSuccess records now as the last success on key. Concurrent callers
// race and the last writer wins.
func (t *Tracker) MarkSuccess(key string) time.Time {
	now := t.clock.Now()
	t.mu.Lock()
	t.lastSuccess[key] = now
	t.mu.Unlock()
	return now
}

func (t *Tracker) LastSuccess(key string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.lastSuccess[key]
	return last, ok
}

// Reset forgets every key.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSuccess = make(map[string]time.Time)
}
