package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps per-identity fixed windows in process memory. State is
// lost on restart, which is acceptable for this gate; a multi-instance
// deployment should use the Redis backend instead.
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	byKey     map[string]*window
	maxMemory int
	now       func() time.Time
}

func NewMemoryLimiter(limit int, windowDur time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 3
	}
	if windowDur <= 0 {
		windowDur = time.Hour
	}
	return &MemoryLimiter{
		limit:     limit,
		window:    windowDur,
		byKey:     make(map[string]*window),
		maxMemory: 5000,
		now:       time.Now,
	}
}

func (l *MemoryLimiter) CheckAndRecord(_ context.Context, identity string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.byKey[identity]
	if !ok || now.After(w.resetAt) {
		l.byKey[identity] = &window{count: 1, resetAt: now.Add(l.window)}
		l.purgeLocked(now)
		return Decision{Allowed: true}, nil
	}
	if w.count < l.limit {
		w.count++
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, RetryAfter: w.resetAt.Sub(now)}, nil
}

// purgeLocked drops dead windows once the map grows past the cap; entries are
// otherwise never deleted, only superseded.
func (l *MemoryLimiter) purgeLocked(now time.Time) {
	if len(l.byKey) <= l.maxMemory {
		return
	}
	for key, w := range l.byKey {
		if now.After(w.resetAt) {
			delete(l.byKey, key)
		}
	}
}
