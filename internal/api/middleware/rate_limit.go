package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware caps requests per client IP over a fixed window, counted
// in Redis so limits hold across instances. On Redis failure the request is
// let through.
func RateLimitMiddleware(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("Rate limit check failed", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		} else if ttl, err := client.TTL(ctx, key).Result(); err == nil && ttl < 0 {
			// Re-arm counters whose expiry was lost (crash between INCR and
			// EXPIRE); otherwise the key would throttle this IP forever.
			client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
