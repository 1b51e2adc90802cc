// Package ratelimit provides a fixed-window in-memory limiter for the
// board's write operations (fact creation, commenting).
package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates actions by key within a time window.
type Limiter interface {
	// Allow reports whether another action is allowed for the key,
	// counting this call if so.
	Allow(key string, limit int, window time.Duration) bool

	// RetryAfter returns how long until the key's window resets.
	RetryAfter(key string) time.Duration
}

// MemoryLimiter tracks windows in a map. Entries are created on first use
// and swept by Cleanup once expired.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]*entry)}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return true
	}

	if e.count >= limit {
		return false
	}
	e.count++
	return true
}

func (l *MemoryLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return 0
	}
	remaining := time.Until(e.resetAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Cleanup drops expired windows so idle keys do not accumulate.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

// StartCleanup sweeps expired windows on the given interval.
func (l *MemoryLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			l.Cleanup()
		}
	}()
}

var _ Limiter = (*MemoryLimiter)(nil)
