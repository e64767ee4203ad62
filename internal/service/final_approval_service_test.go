package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

func TestFinalApprovalServiceSubmit(t *testing.T) {
	final := &fakeFinalStore{result: &models.FinalApprovalResult{InsertedStudents: 12, InsertedAccompanists: 3, TotalRecords: 15}}
	audit := &fakeAuditWriter{}
	cache := &fakeInvalidator{}
	svc := NewFinalApprovalService(final, audit, cache, zap.NewNop())

	result, err := svc.Submit(context.Background(), reviewerClaims())
	require.NoError(t, err)
	require.Equal(t, 15, result.TotalRecords)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.AuditActionFinalApproval, audit.entries[0].Action)
	require.Equal(t, []int64{7}, cache.colleges)
}

func TestFinalApprovalServiceSubmitAlreadyLocked(t *testing.T) {
	final := &fakeFinalStore{finalizeErr: appErrors.ErrLocked}
	audit := &fakeAuditWriter{}
	cache := &fakeInvalidator{}
	svc := NewFinalApprovalService(final, audit, cache, zap.NewNop())

	_, err := svc.Submit(context.Background(), reviewerClaims())
	require.ErrorIs(t, err, appErrors.ErrLocked)
	require.Empty(t, audit.entries)
	require.Empty(t, cache.colleges)
}
