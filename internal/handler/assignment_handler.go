package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/dto"
	"github.com/acharyahabba/vtufest-api/internal/service"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// AssignmentHandler serves the approved-students endpoint with its action
// dispatch.
type AssignmentHandler struct {
	service *service.AssignmentService
	metrics *service.MetricsService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService, metrics *service.MetricsService) *AssignmentHandler {
	return &AssignmentHandler{service: svc, metrics: metrics}
}

// Dispatch routes the approved-students actions.
func (h *AssignmentHandler) Dispatch(c *gin.Context) {
	claims, err := currentClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	body, action, err := decodeAction(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() { h.metrics.RecordReviewAction(action, err) }()

	ctx := c.Request.Context()
	switch action {
	case "get_approved_students":
		students, listErr := h.service.ApprovedStudents(ctx, claims.CollegeID)
		err = listErr
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"students": students, "count": len(students)})

	case "edit_student_events":
		var req dto.EditStudentEventsRequest
		if err = bindAction(body, &req); err != nil {
			response.Error(c, err)
			return
		}
		if err = h.service.ReplaceEvents(ctx, claims, req); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Events updated successfully"})

	case "move_to_rejected":
		var req dto.MoveToRejectedRequest
		if err = bindAction(body, &req); err != nil {
			response.Error(c, err)
			return
		}
		if err = h.service.MoveToRejected(ctx, claims, req); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Student moved to rejected"})

	default:
		err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unknown action: %s", action))
		response.Error(c, err)
	}
}
