package middleware

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/nodego/node-server/core/http"
)

// RateLimitOptions configures the per-client rate limiter.
type RateLimitOptions struct {
	// RequestsPerSecond is the steady-state refill rate per client IP.
	RequestsPerSecond float64
	// Burst is the bucket size; defaults to the ceiling of the rate.
	Burst int
}

// RateLimit returns a middleware enforcing a token-bucket limit per
// client IP. Rejected requests get a 429 JSON body and the chain
// stops. Limiter state grows one bucket per distinct client and is
// never evicted; pair with an ingress that bounds the client set.
func RateLimit(opts RateLimitOptions) Func {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = int(opts.RequestsPerSecond)
		if opts.Burst < 1 {
			opts.Burst = 1
		}
	}

	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)

	return func(req *http.Request, res *http.Response, next Next) {
		mu.Lock()
		limiter, ok := buckets[req.RemoteIP]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
			buckets[req.RemoteIP] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			res.Status(429).JSON(map[string]string{
				"error":   "Too Many Requests",
				"message": "rate limit exceeded",
			})
			return
		}

		next()
	}
}
