package middleware

import (
	"commons/internal/config"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds browser hardening headers to every response.
func SecurityHeaders(env string) gin.HandlerFunc {
	production := env == config.EnvProduction

	csp := "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
	if !production {
		// allow live-reload tooling in development
		csp = "default-src 'self' http: https: ws:; " +
			"script-src 'self' 'unsafe-inline' http: https:; " +
			"style-src 'self' 'unsafe-inline' http: https:; " +
			"img-src 'self' data: https: http:; " +
			"connect-src 'self' http: https: ws: wss:; " +
			"frame-ancestors 'self'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", csp)
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Permissions-Policy", "camera=(), geolocation=(), microphone=(), payment=(), usb=()")
		if production && (c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https") {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
