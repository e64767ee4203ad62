package service

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/config"
)

func scrape(t *testing.T, m *MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsServiceCountsDashboardCacheLookups(t *testing.T) {
	metrics := NewMetricsService()
	stats := &fakeStatsStore{quotaUsed: 10}
	store := newMemoryCacheStore()
	cache := NewDashboardCache(store, config.DashboardConfig{CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())
	svc := NewDashboardService(&fakeCollegeStore{college: testCollege(false)}, stats, cache, metrics, config.QuotaConfig{MaxPerCollege: 45}, zap.NewNop())

	_, cached, err := svc.Dashboard(context.Background(), 7, models.RolePrincipal)
	require.NoError(t, err)
	require.False(t, cached)

	_, cached, err = svc.Dashboard(context.Background(), 7, models.RolePrincipal)
	require.NoError(t, err)
	require.True(t, cached)

	body := scrape(t, metrics)
	require.Contains(t, body, "dashboard_cache_misses_total 1")
	require.Contains(t, body, "dashboard_cache_hits_total 1")
}

func TestMetricsServiceNilReceiverIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.RecordCacheLookup(true)
	metrics.RecordReviewAction("approve_student", nil)
	metrics.RecordFinalApproval()
	metrics.ObserveHTTPRequest("POST", "/api/v1/dashboard", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 503, rec.Code)
}

func TestMetricsServiceRecordsReviewOutcomes(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordReviewAction("approve_student", nil)
	metrics.RecordReviewAction("approve_student", io.ErrUnexpectedEOF)

	body := scrape(t, metrics)
	require.True(t, strings.Contains(body, `review_actions_total{action="approve_student",outcome="ok"} 1`))
	require.True(t, strings.Contains(body, `review_actions_total{action="approve_student",outcome="error"} 1`))
}
