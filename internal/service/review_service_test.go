package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/dto"
	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/internal/repository"
	"github.com/acharyahabba/vtufest-api/pkg/config"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

type fakeApplicationStore struct {
	pending      []models.PendingApplication
	approveErr   error
	lastApprove  repository.ApproveParams
	rejectCalls  int
	editCalls    int
	lastEdit     repository.EditDetailsParams
	lastRejectID int64
}

func (f *fakeApplicationStore) ListPending(context.Context, int64) ([]models.PendingApplication, error) {
	return f.pending, nil
}

func (f *fakeApplicationStore) Approve(_ context.Context, p repository.ApproveParams) error {
	f.lastApprove = p
	return f.approveErr
}

func (f *fakeApplicationStore) Reject(_ context.Context, applicationID, _ int64, _ string) error {
	f.rejectCalls++
	f.lastRejectID = applicationID
	return nil
}

func (f *fakeApplicationStore) EditDetails(_ context.Context, p repository.EditDetailsParams) error {
	f.editCalls++
	f.lastEdit = p
	return nil
}

type fakeAuditWriter struct {
	entries []*models.AuditLog
}

func (f *fakeAuditWriter) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.entries = append(f.entries, log)
	return nil
}

type fakeInvalidator struct {
	colleges []int64
}

func (f *fakeInvalidator) InvalidateCollege(_ context.Context, collegeID int64) {
	f.colleges = append(f.colleges, collegeID)
}

func reviewerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 3, CollegeID: 7, Role: models.RolePrincipal}
}

func TestReviewServiceApprove(t *testing.T) {
	store := &fakeApplicationStore{}
	audit := &fakeAuditWriter{}
	cache := &fakeInvalidator{}
	svc := NewReviewService(store, audit, cache, config.QuotaConfig{MaxPerCollege: 45}, zap.NewNop())

	err := svc.Approve(context.Background(), reviewerClaims(), dto.ApproveStudentRequest{
		ApplicationID:       11,
		ParticipatingEvents: []int64{21},
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), store.lastApprove.ApplicationID)
	require.Equal(t, int64(7), store.lastApprove.CollegeID)
	require.Equal(t, 45, store.lastApprove.QuotaCap)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionApprove, audit.entries[0].Action)
	require.Equal(t, []int64{7}, cache.colleges)
}

func TestReviewServiceApprovePropagatesQuotaError(t *testing.T) {
	store := &fakeApplicationStore{approveErr: appErrors.ErrQuotaExceeded}
	audit := &fakeAuditWriter{}
	cache := &fakeInvalidator{}
	svc := NewReviewService(store, audit, cache, config.QuotaConfig{MaxPerCollege: 45}, zap.NewNop())

	err := svc.Approve(context.Background(), reviewerClaims(), dto.ApproveStudentRequest{ApplicationID: 11})
	require.ErrorIs(t, err, appErrors.ErrQuotaExceeded)
	require.Empty(t, audit.entries)
	require.Empty(t, cache.colleges)
}

func TestReviewServiceApproveValidation(t *testing.T) {
	svc := NewReviewService(&fakeApplicationStore{}, &fakeAuditWriter{}, &fakeInvalidator{}, config.QuotaConfig{}, zap.NewNop())

	err := svc.Approve(context.Background(), reviewerClaims(), dto.ApproveStudentRequest{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceReject(t *testing.T) {
	store := &fakeApplicationStore{}
	audit := &fakeAuditWriter{}
	cache := &fakeInvalidator{}
	svc := NewReviewService(store, audit, cache, config.QuotaConfig{}, zap.NewNop())

	err := svc.Reject(context.Background(), reviewerClaims(), dto.RejectStudentRequest{ApplicationID: 11, Reason: "Blurred documents"})
	require.NoError(t, err)
	require.Equal(t, 1, store.rejectCalls)
	require.Equal(t, int64(11), store.lastRejectID)
	require.Equal(t, []int64{7}, cache.colleges)
}

func TestReviewServiceRejectRequiresReason(t *testing.T) {
	svc := NewReviewService(&fakeApplicationStore{}, &fakeAuditWriter{}, &fakeInvalidator{}, config.QuotaConfig{}, zap.NewNop())

	err := svc.Reject(context.Background(), reviewerClaims(), dto.RejectStudentRequest{ApplicationID: 11})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceEditDetails(t *testing.T) {
	store := &fakeApplicationStore{}
	svc := NewReviewService(store, &fakeAuditWriter{}, &fakeInvalidator{}, config.QuotaConfig{}, zap.NewNop())

	err := svc.EditDetails(context.Background(), reviewerClaims(), dto.EditStudentDetailsRequest{
		ApplicationID: 11,
		FullName:      "Asha R",
		Email:         "asha@example.com",
		Phone:         "9000000001",
		Gender:        "F",
		Department:    "CSE",
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.editCalls)
	require.Equal(t, "CSE", store.lastEdit.Department)
	require.Equal(t, int64(7), store.lastEdit.CollegeID)
}
