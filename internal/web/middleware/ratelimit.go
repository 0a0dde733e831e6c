package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	interval  time.Duration
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time

	// Deny writes the response for a rejected request. Defaults to a bare 429.
	Deny http.HandlerFunc
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per minute per client IP, with
// bursts up to perMinute.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	interval := time.Minute / time.Duration(perMinute)
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(interval),
		interval: interval,
		burst:    perMinute,
		idleTTL:  3 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether a request from ip may proceed, consuming a token.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops visitors idle for longer than idleTTL. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	rl.lastSweep = now
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, ip)
		}
	}
}

// Handler is the middleware. Place it after TrustedRealIP.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			if rl.Deny != nil {
				rl.Deny(w, r)
				return
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) retryAfterSeconds() int {
	// Seconds until the next token for an empty bucket.
	secs := int(math.Ceil(rl.interval.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
