package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/dto"
	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/internal/repository"
	"github.com/acharyahabba/vtufest-api/pkg/config"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// ApplicationStore is the slice of the application repository the review
// service needs.
type ApplicationStore interface {
	ListPending(ctx context.Context, collegeID int64) ([]models.PendingApplication, error)
	Approve(ctx context.Context, p repository.ApproveParams) error
	Reject(ctx context.Context, applicationID, collegeID int64, reason string) error
	EditDetails(ctx context.Context, p repository.EditDetailsParams) error
}

// AuditWriter appends audit trail records.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CacheInvalidator drops cached dashboard entries after a write.
type CacheInvalidator interface {
	InvalidateCollege(ctx context.Context, collegeID int64)
}

// ReviewService runs the application review workflows for one college.
type ReviewService struct {
	applications ApplicationStore
	audit        AuditWriter
	cache        CacheInvalidator
	quota        config.QuotaConfig
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewReviewService constructs the service.
func NewReviewService(applications ApplicationStore, audit AuditWriter, cache CacheInvalidator, quota config.QuotaConfig, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		applications: applications,
		audit:        audit,
		cache:        cache,
		quota:        quota,
		logger:       logger,
		validate:     validator.New(),
	}
}

// PendingApplications lists the college's review queue, newest first.
func (s *ReviewService) PendingApplications(ctx context.Context, collegeID int64) ([]models.PendingApplication, error) {
	return s.applications.ListPending(ctx, collegeID)
}

// Approve approves the application and assigns its events, then invalidates
// the dashboard cache.
func (s *ReviewService) Approve(ctx context.Context, claims *models.JWTClaims, req dto.ApproveStudentRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "application_id is required")
	}
	err := s.applications.Approve(ctx, repository.ApproveParams{
		ApplicationID:       req.ApplicationID,
		CollegeID:           claims.CollegeID,
		ActorUserID:         claims.UserID,
		ParticipatingEvents: req.ParticipatingEvents,
		AccompanyingEvents:  req.AccompanyingEvents,
		QuotaCap:            s.quota.MaxPerCollege,
	})
	if err != nil {
		return err
	}
	s.writeAudit(ctx, claims, models.AuditActionApprove, req.ApplicationID, req)
	s.cache.InvalidateCollege(ctx, claims.CollegeID)
	return nil
}

// Reject rejects the application with a reason and bumps the student's
// reapply counter.
func (s *ReviewService) Reject(ctx context.Context, claims *models.JWTClaims, req dto.RejectStudentRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "application_id and reason are required")
	}
	if err := s.applications.Reject(ctx, req.ApplicationID, claims.CollegeID, req.Reason); err != nil {
		return err
	}
	s.writeAudit(ctx, claims, models.AuditActionReject, req.ApplicationID, req)
	s.cache.InvalidateCollege(ctx, claims.CollegeID)
	return nil
}

// EditDetails updates the student's demographic and academic fields while the
// application is still under review.
func (s *ReviewService) EditDetails(ctx context.Context, claims *models.JWTClaims, req dto.EditStudentDetailsRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "full_name, email, phone and gender are required")
	}
	err := s.applications.EditDetails(ctx, repository.EditDetailsParams{
		ApplicationID: req.ApplicationID,
		CollegeID:     claims.CollegeID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Gender:        req.Gender,
		BloodGroup:    req.BloodGroup,
		Address:       req.Address,
		Department:    req.Department,
		YearOfStudy:   req.YearOfStudy,
		Semester:      req.Semester,
	})
	if err != nil {
		return err
	}
	s.writeAudit(ctx, claims, models.AuditActionEditDetails, req.ApplicationID, req)
	return nil
}

func (s *ReviewService) writeAudit(ctx context.Context, claims *models.JWTClaims, action string, resourceID int64, payload any) {
	values, _ := json.Marshal(payload)
	entry := &models.AuditLog{
		UserID:     &claims.UserID,
		CollegeID:  &claims.CollegeID,
		Action:     action,
		Resource:   "student_applications",
		ResourceID: &resourceID,
		NewValues:  values,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}
