package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/service"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// DashboardHandler serves the per-college dashboard.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Show returns the dashboard for the caller's college.
func (h *DashboardHandler) Show(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dashboard, cached, err := h.service.Dashboard(c.Request.Context(), claims.CollegeID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"dashboard": dashboard, "cached": cached})
}
