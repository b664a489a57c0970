package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterKey struct {
	userID int64
	limit  int
	window time.Duration
}

// MemoryRateLimiter is the process-local fallback. Each user gets a token
// bucket holding limit tokens and refilling the whole budget once per window.
type MemoryRateLimiter struct {
	limiters sync.Map
	now      func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{now: time.Now}
}

func (r *MemoryRateLimiter) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	return r.getLimiter(limiterKey{userID: userID, limit: limit, window: window}).AllowN(r.now(), 1), nil
}

func (r *MemoryRateLimiter) getLimiter(key limiterKey) *rate.Limiter {
	if v, ok := r.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Every(key.window/time.Duration(key.limit)), key.limit)
	actual, loaded := r.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}
