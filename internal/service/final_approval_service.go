package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
)

// FinalStore is the slice of the final repository the workflow needs.
type FinalStore interface {
	Finalize(ctx context.Context, collegeID, actorUserID int64) (*models.FinalApprovalResult, error)
	ListByCollege(ctx context.Context, collegeID int64) ([]models.FinalParticipant, error)
}

// FinalApprovalService runs the irreversible final-approval workflow.
type FinalApprovalService struct {
	final  FinalStore
	audit  AuditWriter
	cache  CacheInvalidator
	logger *zap.Logger
}

// NewFinalApprovalService constructs the service.
func NewFinalApprovalService(final FinalStore, audit AuditWriter, cache CacheInvalidator, logger *zap.Logger) *FinalApprovalService {
	return &FinalApprovalService{final: final, audit: audit, cache: cache, logger: logger}
}

// Submit snapshots the college contingent and locks the college. The lock is
// permanent; there is no unlock path.
func (s *FinalApprovalService) Submit(ctx context.Context, claims *models.JWTClaims) (*models.FinalApprovalResult, error) {
	result, err := s.final.Finalize(ctx, claims.CollegeID, claims.UserID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("final approval submitted",
		zap.Int64("college_id", claims.CollegeID),
		zap.Int("students", result.InsertedStudents),
		zap.Int("accompanists", result.InsertedAccompanists))

	values, _ := json.Marshal(result)
	entry := &models.AuditLog{
		UserID:    &claims.UserID,
		CollegeID: &claims.CollegeID,
		Action:    models.AuditActionFinalApproval,
		Resource:  "colleges",
		NewValues: values,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", entry.Action), zap.Error(err))
	}
	s.cache.InvalidateCollege(ctx, claims.CollegeID)
	return result, nil
}

// Snapshot returns the locked master list for the college.
func (s *FinalApprovalService) Snapshot(ctx context.Context, collegeID int64) ([]models.FinalParticipant, error) {
	return s.final.ListByCollege(ctx, collegeID)
}
