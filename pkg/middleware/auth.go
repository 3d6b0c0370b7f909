package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Token is a verified token that can expose its claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}

// AuthMiddleware verifies "Authorization: Bearer <token>" and stores the
// token claims under "claims".
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing Authorization header")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(c, "invalid Authorization header")
			return
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "invalid token: "+err.Error())
			return
		}
		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			unauthorized(c, "failed to parse claims")
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
