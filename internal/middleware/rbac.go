package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// RequireReviewer allows only PRINCIPAL and MANAGER accounts through. Must
// run after JWT.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || !claims.Role.Reviewer() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Principal or Manager role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the JWT claims stored by the JWT middleware, or nil.
func Claims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
