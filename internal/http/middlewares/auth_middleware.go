package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/designhub/internal/actorctx"
	"github.com/geocoder89/designhub/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth fails closed: no bearer token, or one that does not verify,
// ends the request with 401. It trusts the token's claims and never reads
// the user store.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		id := actorctx.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
		}

		// Stash identity on both the gin and the request context
		c.Set(CtxIdentity, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	abortJSON(c, http.StatusUnauthorized, "unauthorized", message)
}

// IdentityFromContext saves handlers from knowing the magic key.
func IdentityFromContext(c *gin.Context) (actorctx.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return actorctx.Identity{}, false
	}
	id, ok := v.(actorctx.Identity)
	return id, ok && id.UserID > 0
}
