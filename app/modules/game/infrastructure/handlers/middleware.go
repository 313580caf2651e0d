package gamehandlers

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepInterval is how often idle client buckets are dropped.
const sweepInterval = 10 * time.Minute

// Limits holds the per-client budgets of the API. Read covers every route;
// Write additionally covers the routes that parse a request body. A nil limiter
// disables that budget.
type Limits struct {
	Read  *IPRateLimiter
	Write *IPRateLimiter
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows limit requests per second per IP with bursts of burst.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes a token from ip's bucket.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	}
	if now.Sub(l.lastSweep) >= sweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= sweepInterval {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// retryAfter is the whole number of seconds until one token is refilled.
func (l *IPRateLimiter) retryAfter() int {
	if l.limit <= 0 {
		return int(sweepInterval.Seconds())
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

func (l *IPRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client has
// spent its budget. A nil limiter passes every request through.
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfter()))
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
