package utils

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserLimiter hands out one token bucket per user ID.
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewUserLimiter allows perMinute events per user per minute, bursting up to
// perMinute. perMinute <= 0 disables limiting.
func NewUserLimiter(perMinute int) *UserLimiter {
	l := &UserLimiter{limiters: make(map[string]*rate.Limiter)}
	if perMinute <= 0 {
		l.limit = rate.Inf
		return l
	}
	l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	l.burst = perMinute
	return l
}

func (l *UserLimiter) Allow(userID string) bool {
	if l.limit == rate.Inf {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Forget drops buckets that have refilled completely, so the map does not
// grow with every user ever seen.
func (l *UserLimiter) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for userID, lim := range l.limiters {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.limiters, userID)
		}
	}
}
