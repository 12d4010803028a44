package adapters

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter is one token bucket per adapter (spec §5): capacity equals
// the permitted requests per minute, refilled continuously at rate/60 per
// second. golang.org/x/time/rate implements exactly this token-bucket
// model, so it is used directly rather than hand-rolled.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter builds a limiter for a given requests-per-minute budget.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	perSecond := rate.Limit(float64(requestsPerMinute) / 60.0)
	burst := requestsPerMinute
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(perSecond, burst)}
}

// Acquire blocks until a token is available or the context is cancelled.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// TryAcquire is the non-blocking variant of spec §5.
func (l *RateLimiter) TryAcquire() bool {
	return l.limiter.Allow()
}

// SetRate updates the limiter's requests-per-minute budget. Nothing in this
// repository calls it: the registry fixes each adapter's rate once, when the
// limiter is created from effectiveRate.
func (l *RateLimiter) SetRate(requestsPerMinute int) {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	l.limiter.SetLimit(rate.Limit(float64(requestsPerMinute) / 60.0))
	l.limiter.SetBurst(requestsPerMinute)
}

// RateLimiterRegistry holds one RateLimiter per adapter name, since spec
// §5 and §9 both call for the token-bucket state being local to the
// adapter instance while still letting the registry construct it
// centrally from the descriptor table.
type RateLimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*RateLimiter
}

func NewRateLimiterRegistry() *RateLimiterRegistry {
	return &RateLimiterRegistry{limiters: make(map[string]*RateLimiter)}
}

func (r *RateLimiterRegistry) GetOrCreate(name string, requestsPerMinute int) *RateLimiter {
	r.mu.RLock()
	l, ok := r.limiters[name]
	r.mu.RUnlock()
	if ok {
		return l
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[name]; ok {
		return l
	}
	l = NewRateLimiter(requestsPerMinute)
	r.limiters[name] = l
	return l
}
