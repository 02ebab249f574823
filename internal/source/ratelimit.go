package source

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Default rate limits per source (requests per second). The upstreams are
// unofficial and rate-limited; staying under these keeps the fallback
// chain usable.
var defaultRateLimits = map[Name]rate.Limit{
	NameBrowse:    2,
	NamePiped:     5,
	NameInvidious: 2,
	NameWatchPage: 1,
}

// RateLimiterMap holds one rate.Limiter per source, created once at startup.
type RateLimiterMap struct {
	mu       sync.RWMutex
	limiters map[Name]*rate.Limiter
}

// NewRateLimiterMap creates all source rate limiters.
func NewRateLimiterMap() *RateLimiterMap {
	m := &RateLimiterMap{
		limiters: make(map[Name]*rate.Limiter, len(defaultRateLimits)),
	}
	for name, limit := range defaultRateLimits {
		m.limiters[name] = rate.NewLimiter(limit, 1)
	}
	return m
}

// Wait blocks until the rate limiter for the given source allows a request,
// or the context is canceled.
func (m *RateLimiterMap) Wait(ctx context.Context, name Name) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
