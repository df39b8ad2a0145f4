package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// staleAfter is how long an idle client's bucket is kept.
const staleAfter = 10 * time.Minute

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu                sync.Mutex
	limiters          map[string]*limiterInfo
	requestsPerMinute int
	burst             int
	lastSweep         time.Time
	now               func() time.Time
}

func NewIPRateLimiter(requestsPerMinute, burst int) *IPRateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		now:               time.Now,
	}
}

// Allow reports whether the client at ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > staleAfter {
		for key, info := range l.limiters {
			if now.Sub(info.lastAccessed) > staleAfter {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	info, exists := l.limiters[ip]
	if !exists {
		every := rate.Every(time.Minute / time.Duration(l.requestsPerMinute))
		info = &limiterInfo{limiter: rate.NewLimiter(every, l.burst)}
		l.limiters[ip] = info
	}
	info.lastAccessed = now
	return info.limiter.AllowN(now, 1)
}

// RateLimit rejects state-changing requests from clients over their budget
// with 429. GET and HEAD are never limited.
func RateLimit(limiter *IPRateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !limiter.Allow(ip) {
				logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
