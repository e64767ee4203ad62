package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acharyahabba/vtufest-api/internal/models"
)

// DashboardRepository aggregates the per-college dashboard counts.
type DashboardRepository struct {
	db      *sqlx.DB
	catalog *EventCatalog
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB, catalog *EventCatalog) *DashboardRepository {
	return &DashboardRepository{db: db, catalog: catalog}
}

// RegistrationStats runs the counting queries for one college. QuotaUsed and
// QuotaRemaining are filled in by the service against the college quota.
func (r *DashboardRepository) RegistrationStats(ctx context.Context, collegeID int64) (*models.RegistrationStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students WHERE college_id = $1) AS total_students,
        (SELECT COUNT(DISTINCT s.student_id) FROM students s
         INNER JOIN student_applications sa ON sa.student_id = s.student_id
         WHERE s.college_id = $1) AS students_with_applications,
        (SELECT COUNT(DISTINCT s.student_id) FROM students s
         INNER JOIN student_applications sa ON sa.student_id = s.student_id
         WHERE s.college_id = $1 AND sa.status = $2) AS approved_students,
        (SELECT COUNT(DISTINCT s.student_id) FROM students s
         INNER JOIN student_applications sa ON sa.student_id = s.student_id
         WHERE s.college_id = $1 AND sa.status = $3) AS rejected_students,
        (SELECT COUNT(*) FROM accompanists WHERE college_id = $1) AS accompanists_count`

	var stats models.RegistrationStats
	if err := r.db.GetContext(ctx, &stats, query, collegeID,
		models.ApplicationApproved, models.ApplicationRejected); err != nil {
		return nil, fmt.Errorf("registration stats: %w", err)
	}

	occupied, err := r.catalog.CountEventsWithEntries(ctx, r.db, collegeID)
	if err != nil {
		return nil, err
	}
	stats.EventsWithParticipants = occupied
	return &stats, nil
}

// QuotaUsed counts distinct approved students plus accompanists, the figure
// the college quota is charged against.
func (r *DashboardRepository) QuotaUsed(ctx context.Context, collegeID int64) (int, error) {
	return quotaUsed(ctx, r.db, collegeID)
}

// Accommodation returns the college's accommodation request or nil when none
// was filed.
func (r *DashboardRepository) Accommodation(ctx context.Context, collegeID int64) (*models.AccommodationStatus, error) {
	const query = `SELECT total_boys, total_girls, status, applied_at
        FROM accommodation_requests WHERE college_id = $1
        ORDER BY applied_at DESC LIMIT 1`
	var status models.AccommodationStatus
	if err := r.db.GetContext(ctx, &status, query, collegeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("accommodation status: %w", err)
	}
	return &status, nil
}

// Payment returns the college's latest payment receipt or nil when none was
// uploaded.
func (r *DashboardRepository) Payment(ctx context.Context, collegeID int64) (*models.PaymentStatus, error) {
	const query = `SELECT status, uploaded_at, admin_remarks
        FROM payment_receipts WHERE college_id = $1
        ORDER BY uploaded_at DESC LIMIT 1`
	var status models.PaymentStatus
	if err := r.db.GetContext(ctx, &status, query, collegeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("payment status: %w", err)
	}
	return &status, nil
}

// HasTeamManager reports whether the college has an active MANAGER user.
func (r *DashboardRepository) HasTeamManager(ctx context.Context, collegeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE college_id = $1 AND role = $2 AND is_active = TRUE)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, collegeID, models.RoleManager); err != nil {
		return false, fmt.Errorf("team manager check: %w", err)
	}
	return exists, nil
}
