package middleware

import (
	"sync"
	"time"
)

// Limiter throttles per-action keys such as "apply:<student>:<stage>".
// Handlers pick the key, budget and window for each guarded operation.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter counts hits in fixed windows, in process memory. It is the
// default when no Redis address is configured; counters then reset on
// restart and are not shared across instances.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*countingWindow
}

type countingWindow struct {
	hits  int
	until time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{windows: make(map[string]*countingWindow)}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	w, ok := r.windows[key]
	if !ok || !now.Before(w.until) {
		r.sweep(now)
		r.windows[key] = &countingWindow{hits: 1, until: now.Add(window)}
		return true
	}
	if w.hits >= limit {
		return false
	}
	w.hits++
	return true
}

// sweep drops expired windows so the map stays bounded by the set of
// recently active keys. Called with the mutex held.
func (r *RateLimiter) sweep(now time.Time) {
	for key, w := range r.windows {
		if !now.Before(w.until) {
			delete(r.windows, key)
		}
	}
}
