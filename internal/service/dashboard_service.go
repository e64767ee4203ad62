package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/config"
)

// CollegeStore is the slice of the college repository the dashboard needs.
type CollegeStore interface {
	FindByID(ctx context.Context, collegeID int64) (*models.College, error)
}

// DashboardStatsStore is the slice of the dashboard repository the service
// needs.
type DashboardStatsStore interface {
	RegistrationStats(ctx context.Context, collegeID int64) (*models.RegistrationStats, error)
	QuotaUsed(ctx context.Context, collegeID int64) (int, error)
	Accommodation(ctx context.Context, collegeID int64) (*models.AccommodationStatus, error)
	Payment(ctx context.Context, collegeID int64) (*models.PaymentStatus, error)
	HasTeamManager(ctx context.Context, collegeID int64) (bool, error)
}

// DashboardService assembles the per-college dashboard, serving cached copies
// when available.
type DashboardService struct {
	colleges CollegeStore
	stats    DashboardStatsStore
	cache    *DashboardCache
	metrics  *MetricsService
	quota    config.QuotaConfig
	logger   *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(colleges CollegeStore, stats DashboardStatsStore, cache *DashboardCache, metrics *MetricsService, quota config.QuotaConfig, logger *zap.Logger) *DashboardService {
	return &DashboardService{colleges: colleges, stats: stats, cache: cache, metrics: metrics, quota: quota, logger: logger}
}

// Dashboard returns the full dashboard for the college, from cache when warm.
// The boolean reports whether the copy came from cache.
func (s *DashboardService) Dashboard(ctx context.Context, collegeID int64, role models.UserRole) (*models.CollegeDashboard, bool, error) {
	if cached, err := s.cache.Get(ctx, collegeID, role); err == nil {
		s.metrics.RecordCacheLookup(true)
		return cached, true, nil
	}
	s.metrics.RecordCacheLookup(false)

	college, err := s.colleges.FindByID(ctx, collegeID)
	if err != nil {
		return nil, false, err
	}

	stats, err := s.stats.RegistrationStats(ctx, collegeID)
	if err != nil {
		return nil, false, err
	}
	used, err := s.stats.QuotaUsed(ctx, collegeID)
	if err != nil {
		return nil, false, err
	}
	quotaCap := s.quota.MaxPerCollege
	if quotaCap <= 0 {
		quotaCap = college.MaxQuota
	}
	stats.QuotaUsed = used
	stats.QuotaRemaining = quotaCap - used
	if stats.QuotaRemaining < 0 {
		stats.QuotaRemaining = 0
	}

	accommodation, err := s.stats.Accommodation(ctx, collegeID)
	if err != nil {
		return nil, false, err
	}
	payment, err := s.stats.Payment(ctx, collegeID)
	if err != nil {
		return nil, false, err
	}

	dashboard := &models.CollegeDashboard{
		College: models.CollegeInfo{
			CollegeCode: college.CollegeCode,
			CollegeName: college.CollegeName,
			Place:       college.Place,
			MaxQuota:    quotaCap,
		},
		Stats:           *stats,
		Accommodation:   accommodation,
		Payment:         payment,
		IsFinalApproved: college.IsFinalApproved,
		FinalApprovedAt: college.FinalApprovedAt,
	}

	// Only principals see whether a manager account exists for the college.
	if role == models.RolePrincipal {
		hasManager, err := s.stats.HasTeamManager(ctx, collegeID)
		if err != nil {
			return nil, false, err
		}
		dashboard.HasTeamManager = &hasManager
	}

	s.cache.Set(ctx, collegeID, role, dashboard)
	return dashboard, false, nil
}
