// Package ratelimit provides sliding-window admission control keyed by
// client identity and route class.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits requests based on a trailing time window per key.
//
// For each key it retains the timestamps of admitted requests inside the
// window. Expired timestamps are evicted lazily before each admission check,
// so the retained count for a key never exceeds its ceiling once a request
// has been admitted. The evict-then-append step is atomic per limiter to
// avoid over-admission under concurrent requests sharing a key.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	window  time.Duration

	// now is the clock source, replaceable in tests.
	now func() time.Time
}

// NewLimiter creates a Limiter with the given sliding window size.
func NewLimiter(window time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a request for key is admitted under maxRequests per
// window, recording the request time on admission.
func (l *Limiter) Allow(key string, maxRequests int) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamps := l.windows[key]

	// Evict expired entries. The slice is time-ordered, so find the first
	// still-valid entry and drop everything before it.
	valid := 0
	for valid < len(timestamps) && !timestamps[valid].After(cutoff) {
		valid++
	}
	timestamps = timestamps[valid:]

	if len(timestamps) >= maxRequests {
		l.windows[key] = timestamps
		return false
	}

	l.windows[key] = append(timestamps, now)
	return true
}

// RetryAfter returns the suggested retry delay for rejected requests.
func (l *Limiter) RetryAfter() time.Duration {
	return l.window
}

// StartCleanup launches a background goroutine that removes keys whose
// entries have all expired. Prevents unbounded memory growth from key churn.
// Stops when ctx is cancelled.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.compact()
			}
		}
	}()
}

// compact drops keys with no timestamps inside the window.
func (l *Limiter) compact() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, timestamps := range l.windows {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(l.windows, key)
		}
	}
}
