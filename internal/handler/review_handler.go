package handler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/dto"
	"github.com/acharyahabba/vtufest-api/internal/service"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

// ReviewHandler serves the application review endpoint. The endpoint is a
// single POST whose body carries an action discriminator.
type ReviewHandler struct {
	service *service.ReviewService
	metrics *service.MetricsService
}

// NewReviewHandler creates a new handler.
func NewReviewHandler(svc *service.ReviewService, metrics *service.MetricsService) *ReviewHandler {
	return &ReviewHandler{service: svc, metrics: metrics}
}

// decodeAction reads the body once and returns it with the extracted action,
// so each branch can rebind the full payload.
func decodeAction(c *gin.Context) ([]byte, string, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "Invalid request body")
	}
	var envelope dto.ActionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "Invalid JSON payload")
	}
	if envelope.Action == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "Missing action")
	}
	return body, envelope.Action, nil
}

func bindAction(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid JSON payload")
	}
	return nil
}

// Dispatch routes the review actions.
func (h *ReviewHandler) Dispatch(c *gin.Context) {
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
	case "get_pending_applications":
		applications, listErr := h.service.PendingApplications(ctx, claims.CollegeID)
		err = listErr
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"applications": applications, "count": len(applications)})

	case "approve_student":
		var req dto.ApproveStudentRequest
		if err = bindAction(body, &req); err != nil {
			response.Error(c, err)
			return
		}
		if err = h.service.Approve(ctx, claims, req); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Student approved successfully"})

	case "reject_student":
		var req dto.RejectStudentRequest
		if err = bindAction(body, &req); err != nil {
			response.Error(c, err)
			return
		}
		if err = h.service.Reject(ctx, claims, req); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Student rejected"})

	case "edit_student_details":
		var req dto.EditStudentDetailsRequest
		if err = bindAction(body, &req); err != nil {
			response.Error(c, err)
			return
		}
		if err = h.service.EditDetails(ctx, claims, req); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Student details updated"})

	default:
		err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unknown action: %s", action))
		response.Error(c, err)
	}
}
