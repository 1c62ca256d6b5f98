package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"contactly-be/internal/cache"

	"github.com/gin-gonic/gin"
)

// RedisRateLimiter enforces a fixed-window limit (N requests per window)
// shared across instances through Redis. Used on the contact endpoints,
// which carry a per-route quota rather than a per-second rate.
type RedisRateLimiter struct {
	cache  cache.Cache
	times  int
	window time.Duration
}

// NewRedisRateLimiter creates a fixed-window limiter.
// times: allowed requests per window, window: window length in seconds.
func NewRedisRateLimiter(cacheClient cache.Cache, times, windowSeconds int) *RedisRateLimiter {
	return &RedisRateLimiter{
		cache:  cacheClient,
		times:  times,
		window: time.Duration(windowSeconds) * time.Second,
	}
}

// LimitMiddleware returns a Gin middleware that counts requests per
// (route, client IP) in Redis. Without Redis the limiter degrades to a no-op.
func (rl *RedisRateLimiter) LimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cache == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		count, err := rl.cache.Increment(c.Request.Context(), key, rl.window)
		if err != nil {
			// A broken limiter must not take the API down with it
			log.Printf("Warning: rate limit counter failed for %s: %v", key, err)
			c.Next()
			return
		}

		if count > int64(rl.times) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Rate limit exceeded: %d requests per %s", rl.times, rl.window),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
