package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/web/cache"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures a fixed-window limiter.
type RateLimitConfig struct {
	Prefix            string
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
}

// LoginRateLimitConfig limits attempts per client IP.
func LoginRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		Prefix:            "ratelimit:login:",
		RequestsPerMinute: perMinute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware rejects requests over the limit with 429. When the
// store fails the request is let through.
func RateLimitMiddleware(store *cache.Store, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := config.KeyFunc(c)
		count, ttl, err := store.Incr(c.Request.Context(), config.Prefix+key, time.Minute)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		remaining := max(config.RequestsPerMinute-int(count), 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if count > int64(config.RequestsPerMinute) {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, c.Request.URL.Path, count)
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too_many_requests"})
			return
		}
		c.Next()
	}
}
