package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/service"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// ExportHandler serves master-list downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// MasterList streams the final snapshot as CSV or PDF, selected by the
// format query parameter.
func (h *ExportHandler) MasterList(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("master-list-college-%d", claims.CollegeID)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.service.MasterListCSV(c.Request.Context(), claims.CollegeID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)

	case "pdf":
		payload, err := h.service.MasterListPDF(c.Request.Context(), claims.CollegeID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)

	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Unsupported format, use csv or pdf"))
	}
}
