package middleware

import (
	"net/http"
	"time"

	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/web/cache"
	"github.com/akraev/simple-api/web/entity"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
}

// DefaultRateLimitConfig returns the default rate limit config.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimit creates a redis-backed fixed-window rate limiter. On cache
// failure requests pass through: throttling is protection, not correctness.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "ratelimit_" + config.KeyFunc(c) + "_" + c.Request.URL.Path

		client := cache.GetClient()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warning("rate limit incr err:", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, time.Minute).Err(); err != nil {
				logger.Warning("rate limit expire err:", err)
			}
		}

		if count > int64(config.RequestsPerMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.ErrorMsg{
				Detail: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
