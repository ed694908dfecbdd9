package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods  = "GET,POST,OPTIONS"
	corsAllowHeaders  = "Authorization,Content-Type,X-Request-Id"
	corsExposeHeaders = "X-Request-Id,ETag"
)

type corsPolicy struct {
	origins map[string]struct{}
	any     bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			p.any = true
			continue
		}
		p.origins[origin] = struct{}{}
	}
	return p
}

// CORSMiddleware echoes listed origins with credentials. "*" lets any
// other origin in without credentials; bearer tokens do not need them.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			policy.apply(c, origin)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (p corsPolicy) apply(c *gin.Context, origin string) {
	h := c.Writer.Header()

	if _, listed := p.origins[origin]; listed {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	} else if p.any {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		return
	}

	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
}
