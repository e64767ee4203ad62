package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/service"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// FinalApprovalHandler serves the final approval submission endpoint.
type FinalApprovalHandler struct {
	service *service.FinalApprovalService
	metrics *service.MetricsService
}

// NewFinalApprovalHandler creates a new handler.
func NewFinalApprovalHandler(svc *service.FinalApprovalService, metrics *service.MetricsService) *FinalApprovalHandler {
	return &FinalApprovalHandler{service: svc, metrics: metrics}
}

// Submit locks the college and snapshots its contingent.
func (h *FinalApprovalHandler) Submit(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordFinalApproval()
	response.OK(c, gin.H{
		"message":               "Final approval submitted successfully",
		"inserted_students":     result.InsertedStudents,
		"inserted_accompanists": result.InsertedAccompanists,
		"total_records":         result.TotalRecords,
	})
}
