package httpmiddleware

import (
	"net/http"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the outgoing request limiter.
type RateLimitConfig struct {
	// Limit is the sustained number of requests per second per key.
	// Zero or rate.Inf disables limiting.
	Limit rate.Limit

	// Burst is the maximum number of requests sent back to back.
	Burst int

	// KeyFunc extracts the rate limit key from a request.
	// If nil, the target host is used.
	KeyFunc func(*http.Request) string
}

// rateLimiter holds one token bucket per key.
type rateLimiter struct {
	cfg      RateLimitConfig
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &rateLimiter{
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.cfg.Limit, rl.cfg.Burst)
		rl.limiters[key] = l
	}
	return l
}

// RateLimit returns a middleware that delays outgoing requests so each key
// stays within its token bucket. Waiting honours the request context; a
// cancelled or expiring context fails the round trip without sending it.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limit == 0 || cfg.Limit == rate.Inf {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	rl := newRateLimiter(cfg)
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := rl.get(rl.cfg.KeyFunc(r)).Wait(r.Context()); err != nil {
				return nil, errors.Wrap(err, "rate limit")
			}
			return next.RoundTrip(r)
		})
	}
}

func defaultKeyFunc(r *http.Request) string {
	return r.URL.Host
}
