// Package ratelimit provides fixed-window request counters backed by Redis or process memory.
package ratelimit

import (
	"context"
	"time"
)

const defaultWindow = time.Minute

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// Limiter counts hits per key within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close()
}

func normalize(limit int, window time.Duration) (bool, time.Duration) {
	if window <= 0 {
		window = defaultWindow
	}
	return limit <= 0, window
}
