package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	noStoreCacheControl = "no-store, no-cache, must-revalidate, private"
	publicCacheControl  = "public, max-age=300"
)

// SecurityHeadersMiddleware adds security headers to all HTTP responses.
// GET requests under one of the publicPrefixes may be cached by browsers for a
// few minutes; everything else, visits included, is never cached.
func SecurityHeadersMiddleware(publicPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		// Lets browsers send the color scheme hint used for theme defaults
		c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme")

		if c.Request.Method == "GET" && hasAnyPrefix(c.Request.URL.Path, publicPrefixes) {
			c.Header("Cache-Control", publicCacheControl)
		} else {
			c.Header("Cache-Control", noStoreCacheControl)
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
