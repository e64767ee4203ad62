package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/middleware"
	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/internal/service"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

type fakeFinal struct {
	result *models.FinalApprovalResult
	err    error
}

func (f *fakeFinal) Finalize(context.Context, int64, int64) (*models.FinalApprovalResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeFinal) ListByCollege(context.Context, int64) ([]models.FinalParticipant, error) {
	return nil, nil
}

func newFinalRouter(store *fakeFinal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewFinalApprovalService(store, nopAudit{}, nopInvalidator{}, zap.NewNop())
	h := NewFinalApprovalHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 3, CollegeID: 7, Role: models.RolePrincipal})
	})
	r.POST("/final-approval", h.Submit)
	return r
}

func TestFinalApprovalHandlerSubmit(t *testing.T) {
	r := newFinalRouter(&fakeFinal{result: &models.FinalApprovalResult{InsertedStudents: 12, InsertedAccompanists: 3, TotalRecords: 15}})

	rec := postJSON(r, "/final-approval", gin.H{})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_records":15`)
	require.Contains(t, rec.Body.String(), "Final approval submitted successfully")
}

func TestFinalApprovalHandlerAlreadyLocked(t *testing.T) {
	r := newFinalRouter(&fakeFinal{err: appErrors.Clone(appErrors.ErrLocked, "Final approval already submitted")})

	rec := postJSON(r, "/final-approval", gin.H{})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Final approval already submitted")
}

func TestFinalApprovalHandlerNoEligibleStudents(t *testing.T) {
	r := newFinalRouter(&fakeFinal{err: appErrors.ErrNoEligibleStudents})

	rec := postJSON(r, "/final-approval", gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
