package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of auth attempts allowed in the window
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked (24 hours)
	BlockedIPDuration = 24 * time.Hour
)

// RateLimiter counts requests per client IP in Redis and blocks an IP for
// BlockedIPDuration once it goes over the limit. A nil client disables it.
type RateLimiter struct {
	client      *redis.Client
	logger      *zap.Logger
	window      time.Duration
	maxRequests int64
	now         func() time.Time
}

func NewRateLimiter(client *redis.Client, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		client:      client,
		logger:      logger,
		window:      RateLimitWindow,
		maxRequests: RateLimitMaxRequests,
		now:         time.Now,
	}
}

// Middleware fails open: a Redis error lets the request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil || l.client == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipAddress := clientip.RealClientIP(r)
		ctx := r.Context()

		blocked, err := l.IsBlocked(ctx, ipAddress)
		if err == nil && blocked {
			writeTooMany(w, `{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`)
			return
		}

		rateLimitKey := RateLimitKeyPrefix + ipAddress
		count, err := l.client.Incr(ctx, rateLimitKey).Result()
		if err == nil && count == 1 {
			err = l.client.Expire(ctx, rateLimitKey, l.window).Err()
		}
		if err != nil {
			l.logger.Warn("rate limit check failed, allowing request", zap.String("ip", ipAddress), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if count > l.maxRequests {
			if err := l.client.Set(ctx, BlockedIPKeyPrefix+ipAddress, "1", BlockedIPDuration).Err(); err != nil {
				l.logger.Error("failed to block ip", zap.String("ip", ipAddress), zap.Error(err))
			} else {
				l.logger.Warn("ip blocked for excessive requests", zap.String("ip", ipAddress), zap.Int64("count", count))
			}
			writeTooMany(w, fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.","retry_after":%d}`, int(l.window.Seconds())))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.maxRequests, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(l.maxRequests-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(l.now().Add(l.window).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}

// Unblock removes an IP from the blocked list.
func (l *RateLimiter) Unblock(ctx context.Context, ipAddress string) error {
	return l.client.Del(ctx, BlockedIPKeyPrefix+ipAddress, RateLimitKeyPrefix+ipAddress).Err()
}

// IsBlocked checks if an IP is currently blocked.
func (l *RateLimiter) IsBlocked(ctx context.Context, ipAddress string) (bool, error) {
	count, err := l.client.Exists(ctx, BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}

func writeTooMany(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(body))
}
