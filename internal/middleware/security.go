package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mindmate-backend/pkg/clientip"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
	headerReferrerPolicy          = "Referrer-Policy"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		w.Header().Set(headerReferrerPolicy, "no-referrer")
		next.ServeHTTP(w, r)
	})
}

const (
	limiterTTL           = 30 * time.Minute
	limiterPruneInterval = 5 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPLimiter is an in-process token bucket per client IP. Idle buckets are
// dropped after limiterTTL.
type IPLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	message   string
	lastPrune time.Time
	now       func() time.Time
}

func NewIPLimiter(limit rate.Limit, burst int, message string) *IPLimiter {
	return &IPLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
		message: message,
		now:     time.Now,
	}
}

// GlobalLimiter allows 5 req/s per IP with a burst of 20.
func GlobalLimiter() *IPLimiter {
	return NewIPLimiter(5, 20, "Too many requests. Please slow down.")
}

// LoginLimiter allows one sign-in attempt every 5 seconds per IP, burst 3.
// It is the fallback when Redis is not configured.
func LoginLimiter() *IPLimiter {
	return NewIPLimiter(rate.Every(5*time.Second), 3, "Too many login attempts. Please try again later.")
}

func (l *IPLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > limiterPruneInterval {
		for key, e := range l.entries {
			if now.Sub(e.lastUse) > limiterTTL {
				delete(l.entries, key)
			}
		}
		l.lastPrune = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastUse = now
	return e.limiter
}

func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	body := `{"success":false,"message":"` + l.message + `"}`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientip.RealClientIP(r)).AllowN(l.now(), 1) {
			writeTooMany(w, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}
