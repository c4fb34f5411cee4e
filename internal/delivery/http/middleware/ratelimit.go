package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "eventsapp/internal/delivery/http/helpers"
	"eventsapp/internal/metrics"
)

const limiterIdleTTL = 15 * time.Minute

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-memory token bucket per client IP. Idle buckets are
// swept on access, so it needs no background goroutine.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	mu        sync.Mutex
	buckets   map[string]*keyLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter returns a limiter allowing rps requests per second with the given burst.
// A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*keyLimiter),
		now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &keyLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Limit wraps next. Rejected API requests get a JSON 429; HTML requests a plain one.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.limit <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if rl.allow(clientIP(r)) {
			next(w, r)
			return
		}
		metrics.RateLimitedTotal.WithLabelValues(r.URL.Path).Inc()
		w.Header().Set("Retry-After", "60")
		if strings.HasPrefix(r.URL.Path, "/api/") {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "too many requests, try again later")
			return
		}
		http.Error(w, "Demasiados intentos. Inténtalo más tarde.", http.StatusTooManyRequests)
	}
}

// clientIP uses the connection address only; forwarded headers are not trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
