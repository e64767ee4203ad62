package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/config"
)

// CacheStore is the slice of the cache repository the dashboard cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DashboardCache keeps rendered dashboards in redis for the configured TTL.
// A nil store or a disabled config turns every operation into a no-op, so
// the service layer never branches on cache availability.
type DashboardCache struct {
	store  CacheStore
	cfg    config.DashboardConfig
	logger *zap.Logger
}

// NewDashboardCache constructs the cache facade.
func NewDashboardCache(store CacheStore, cfg config.DashboardConfig, logger *zap.Logger) *DashboardCache {
	return &DashboardCache{store: store, cfg: cfg, logger: logger}
}

func (c *DashboardCache) enabled() bool {
	return c.store != nil && c.cfg.CacheEnabled
}

// Principal and manager dashboards differ (the team manager flag), so each
// role gets its own entry under the college prefix.
func dashboardKey(collegeID int64, role models.UserRole) string {
	return fmt.Sprintf("dashboard:college:%d:%s", collegeID, role)
}

// Get returns the cached dashboard or an error on miss.
func (c *DashboardCache) Get(ctx context.Context, collegeID int64, role models.UserRole) (*models.CollegeDashboard, error) {
	if !c.enabled() {
		return nil, fmt.Errorf("dashboard cache disabled")
	}
	var dashboard models.CollegeDashboard
	if err := c.store.Get(ctx, dashboardKey(collegeID, role), &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Set stores the dashboard. Failures are logged, not returned, because the
// cache is a read accelerator and never authoritative.
func (c *DashboardCache) Set(ctx context.Context, collegeID int64, role models.UserRole, dashboard *models.CollegeDashboard) {
	if !c.enabled() {
		return
	}
	if err := c.store.Set(ctx, dashboardKey(collegeID, role), dashboard, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("failed to cache dashboard", zap.Int64("college_id", collegeID), zap.Error(err))
	}
}

// InvalidateCollege drops every cached entry of the college after a write.
func (c *DashboardCache) InvalidateCollege(ctx context.Context, collegeID int64) {
	if !c.enabled() {
		return
	}
	if err := c.store.DeleteByPattern(ctx, fmt.Sprintf("dashboard:college:%d:*", collegeID)); err != nil {
		c.logger.Warn("failed to invalidate dashboard cache", zap.Int64("college_id", collegeID), zap.Error(err))
	}
}
