package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/driftwoodweb/studio-api/internal/httperr"
	"github.com/driftwoodweb/studio-api/internal/ratelimit"
)

// RateLimitMiddleware caps hits per client IP for one route scope.
func RateLimitMiddleware(limiter *ratelimit.Limiter, scope string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), scope, c.ClientIP(), perMinute) {
			httperr.TooManyRequests(c, "rate_limited", "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
