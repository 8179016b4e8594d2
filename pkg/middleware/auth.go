package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabwrite/collabwrite/internal/sessions"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Identity is the authenticated caller extracted from token claims. It is
// everything the rest of the service consumes from the auth boundary.
type Identity struct {
	ID    string
	Name  string
	Email string
	Image string
}

const userContextKey = "user"

// SetUser stores an identity on the request context. Exposed for the
// development-only document service and for tests.
func SetUser(c *gin.Context, u Identity) {
	c.Set(userContextKey, u)
}

// UserFromContext returns the identity placed by AuthMiddleware.
func UserFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return Identity{}, false
	}
	u, ok := v.(Identity)
	return u, ok
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier, rejects blacklisted tokens, and stores both the raw
// claims and the extracted Identity on the request context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if revoked, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		SetUser(c, identityFromClaims(claims))
		c.Next()
	}
}

func identityFromClaims(claims map[string]interface{}) Identity {
	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	img := str("image")
	if img == "" {
		img = str("picture")
	}
	return Identity{
		ID:    str("sub"),
		Name:  str("name"),
		Email: str("email"),
		Image: img,
	}
}
