package middlewares

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=incidentRateLimiter.go -destination=mocks/incidentRateLimiter_mock.go -package=mocks
type HitCounter interface {
	// Hit counts one request against key and returns the count in the current
	// window together with the time left until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter keeps one fixed-window counter per key.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// Set TTL only for the first increment
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// The key lost its expiry (crash between INCR and EXPIRE); restart the window.
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return count, ttl, nil
}

// IncidentRateLimiter caps anonymous incident reports per client IP. When the
// counter is unavailable the request goes through.
func IncidentRateLimiter(counter HitCounter, prefix string, limit int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := prefix + ":" + ip

		count, ttl, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("rate limiter unavailable",
				slog.String("request_id", RequestID(c)),
				slog.String("error", err.Error()))
			c.Next()
			return
		}

		if count > int64(limit) {
			retryAfter := int64(math.Ceil(ttl.Seconds()))
			logger.Warn("rate limit exceeded",
				slog.String("request_id", RequestID(c)),
				slog.String("ip", ip),
				slog.Int64("count", count))
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":        "rate_limited",
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
