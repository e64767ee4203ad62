package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/middleware"
	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/internal/repository"
	"github.com/acharyahabba/vtufest-api/internal/service"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

type fakeParticipations struct {
	approved   []models.ApprovedStudent
	replaceErr error
	replaced   []int64
	moved      []int64
}

func (f *fakeParticipations) ListApproved(context.Context, int64) ([]models.ApprovedStudent, error) {
	return f.approved, nil
}

func (f *fakeParticipations) Replace(_ context.Context, p repository.ReplaceParams) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, p.StudentID)
	return nil
}

func (f *fakeParticipations) MoveToRejected(_ context.Context, studentID, _ int64, _ string) error {
	f.moved = append(f.moved, studentID)
	return nil
}

func newAssignmentRouter(store *fakeParticipations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAssignmentService(store, nopAudit{}, nopInvalidator{}, zap.NewNop())
	h := NewAssignmentHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 3, CollegeID: 7, Role: models.RoleManager})
	})
	r.POST("/approved-students", h.Dispatch)
	return r
}

func TestAssignmentHandlerGetApprovedStudents(t *testing.T) {
	store := &fakeParticipations{approved: []models.ApprovedStudent{{
		ApplicationID:       11,
		StudentID:           101,
		FullName:            "Asha R",
		Status:              models.ApplicationApproved,
		ParticipatingEvents: []models.EventRef{{EventID: 21, EventName: "Classical Vocal Solo"}},
		AccompanyingEvents:  []models.EventRef{},
	}}}
	r := newAssignmentRouter(store)

	rec := postJSON(r, "/approved-students", gin.H{"action": "get_approved_students"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(1), body["count"])
}

func TestAssignmentHandlerEditStudentEvents(t *testing.T) {
	store := &fakeParticipations{}
	r := newAssignmentRouter(store)

	rec := postJSON(r, "/approved-students", gin.H{
		"action":               "edit_student_events",
		"student_id":           101,
		"participating_events": []int64{21, 22},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{101}, store.replaced)
}

func TestAssignmentHandlerEditStudentEventsFullEvent(t *testing.T) {
	store := &fakeParticipations{replaceErr: appErrors.Clone(appErrors.ErrEventFull, `Event "Mime" is full (3/3)`)}
	r := newAssignmentRouter(store)

	rec := postJSON(r, "/approved-students", gin.H{"action": "edit_student_events", "student_id": 101})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "is full")
}

func TestAssignmentHandlerMoveToRejected(t *testing.T) {
	store := &fakeParticipations{}
	r := newAssignmentRouter(store)

	rec := postJSON(r, "/approved-students", gin.H{
		"action":     "move_to_rejected",
		"student_id": 101,
		"reason":     "Withdrew",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{101}, store.moved)
}

func TestAssignmentHandlerUnknownAction(t *testing.T) {
	r := newAssignmentRouter(&fakeParticipations{})

	rec := postJSON(r, "/approved-students", gin.H{"action": "promote_student"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Unknown action: promote_student")
}
