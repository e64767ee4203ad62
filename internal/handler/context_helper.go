package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/middleware"
	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// currentClaims pulls the authenticated claims set by the JWT middleware.
func currentClaims(c *gin.Context) (*models.JWTClaims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
