package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

// RateLimit caps requests per client IP over the given window. The key is
// gin's ClientIP, which honors the configured trusted proxies.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if limiter.OnLimit(c.Writer, c.Request, c.ClientIP()) {
			c.String(http.StatusTooManyRequests, "Too many requests. Please slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}
