package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type cspRule struct {
	prefix string
	policy string
}

// First matching prefix wins; JSON endpoints get the locked-down default.
var cspRules = []cspRule{
	// stored files are rendered by clients, never executed
	{prefix: "/uploads/", policy: "default-src 'none'; img-src 'self'; sandbox"},
	{prefix: "/docs", policy: "default-src 'self'; script-src 'self' https://cdn.redoc.ly; style-src 'self' 'unsafe-inline'; img-src 'self' data: https://cdn.redoc.ly; worker-src blob:"},
}

const defaultCSP = "default-src 'none'; frame-ancestors 'none'"

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Content-Security-Policy", policyFor(c.Request.URL.Path))
		c.Next()
	}
}

func policyFor(path string) string {
	for _, rule := range cspRules {
		if strings.HasPrefix(path, rule.prefix) {
			return rule.policy
		}
	}
	return defaultCSP
}
