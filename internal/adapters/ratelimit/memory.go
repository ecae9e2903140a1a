package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]window
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

type window struct {
	count int
	end   time.Time
}

// NewMemoryLimiter returns an in-process limiter. Expired windows are swept periodically
// until Close is called.
func NewMemoryLimiter() Limiter {
	l := newMemoryLimiter(time.Now)
	go l.sweepLoop()
	return l
}

func newMemoryLimiter(now func() time.Time) *memoryLimiter {
	return &memoryLimiter{
		entries: make(map[string]window),
		now:     now,
		stopCh:  make(chan struct{}),
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string, limit int, size time.Duration) Decision {
	unlimited, size := normalize(limit, size)
	if unlimited {
		return Decision{Allowed: true}
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[key]
	if !ok || !now.Before(w.end) {
		w = window{count: 1, end: now.Add(size)}
		l.entries[key] = w
		return Decision{Allowed: true, Count: w.count, WindowEnd: w.end}
	}
	if w.count >= limit {
		return Decision{Allowed: false, Count: w.count, WindowEnd: w.end}
	}
	w.count++
	l.entries[key] = w
	return Decision{Allowed: true, Count: w.count, WindowEnd: w.end}
}

func (l *memoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(l.now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *memoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.entries {
		if !now.Before(w.end) {
			delete(l.entries, key)
		}
	}
}

func (l *memoryLimiter) Close() {
	l.once.Do(func() {
		close(l.stopCh)
	})
}
