package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator parses and verifies an access token.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid bearer token. Missing, malformed
// and expired tokens all produce the fixed 401 envelope carrying the login
// redirect URL, which the frontend navigates to verbatim.
func JWT(auth TokenValidator, redirectURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthenticated(c, redirectURL)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthenticated(c, redirectURL)
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			response.Unauthenticated(c, redirectURL)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
