package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	idleTTL         = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors hands out one token bucket per client key. It limits request
// volume per client and is unrelated to the purchase cool-down.
type Visitors struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*clientLimiter
	now      func() time.Time
}

func NewVisitors(requestsPerSecond float64, burst int) *Visitors {
	return &Visitors{
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		visitors: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

func (v *Visitors) Get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(v.rps, v.burst)
		v.visitors[key] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Allow reports whether key may make a request now.
func (v *Visitors) Allow(key string) bool {
	return v.Get(key).Allow()
}

// StartCleanupLoop evicts idle visitors every minute until ctx is done.
func (v *Visitors) StartCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.evictIdle()
		}
	}
}

func (v *Visitors) evictIdle() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	evicted := 0
	for key, c := range v.visitors {
		if v.now().Sub(c.lastSeen) > idleTTL {
			delete(v.visitors, key)
			evicted++
		}
	}
	return evicted
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}

func (v *Visitors) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visitors = make(map[string]*clientLimiter)
}
