package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/dto"
	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/internal/repository"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// ParticipationStore is the slice of the participation repository the
// assignment service needs.
type ParticipationStore interface {
	ListApproved(ctx context.Context, collegeID int64) ([]models.ApprovedStudent, error)
	Replace(ctx context.Context, p repository.ReplaceParams) error
	MoveToRejected(ctx context.Context, studentID, collegeID int64, reason string) error
}

// AssignmentService manages event assignments for approved students.
type AssignmentService struct {
	participations ParticipationStore
	audit          AuditWriter
	cache          CacheInvalidator
	logger         *zap.Logger
	validate       *validator.Validate
}

// NewAssignmentService constructs the service.
func NewAssignmentService(participations ParticipationStore, audit AuditWriter, cache CacheInvalidator, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		participations: participations,
		audit:          audit,
		cache:          cache,
		logger:         logger,
		validate:       validator.New(),
	}
}

// ApprovedStudents lists the college's approved students with their event
// sets, ordered by name.
func (s *AssignmentService) ApprovedStudents(ctx context.Context, collegeID int64) ([]models.ApprovedStudent, error) {
	return s.participations.ListApproved(ctx, collegeID)
}

// ReplaceEvents swaps the student's full assignment set for the provided one.
func (s *AssignmentService) ReplaceEvents(ctx context.Context, claims *models.JWTClaims, req dto.EditStudentEventsRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	err := s.participations.Replace(ctx, repository.ReplaceParams{
		StudentID:           req.StudentID,
		CollegeID:           claims.CollegeID,
		ActorUserID:         claims.UserID,
		ParticipatingEvents: req.ParticipatingEvents,
		AccompanyingEvents:  req.AccompanyingEvents,
	})
	if err != nil {
		return err
	}
	s.writeAudit(ctx, claims, models.AuditActionEditEvents, req.StudentID, req)
	s.cache.InvalidateCollege(ctx, claims.CollegeID)
	return nil
}

// MoveToRejected demotes an approved student to rejected, releasing their
// quota slot and event seats.
func (s *AssignmentService) MoveToRejected(ctx context.Context, claims *models.JWTClaims, req dto.MoveToRejectedRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "student_id and reason are required")
	}
	if err := s.participations.MoveToRejected(ctx, req.StudentID, claims.CollegeID, req.Reason); err != nil {
		return err
	}
	s.writeAudit(ctx, claims, models.AuditActionMoveToRejected, req.StudentID, req)
	s.cache.InvalidateCollege(ctx, claims.CollegeID)
	return nil
}

func (s *AssignmentService) writeAudit(ctx context.Context, claims *models.JWTClaims, action string, resourceID int64, payload any) {
	values, _ := json.Marshal(payload)
	entry := &models.AuditLog{
		UserID:     &claims.UserID,
		CollegeID:  &claims.CollegeID,
		Action:     action,
		Resource:   "student_event_participation",
		ResourceID: &resourceID,
		NewValues:  values,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
