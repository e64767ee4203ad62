package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// CollegeRepository reads college records and their lock state.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository constructs the repository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// FindByID returns a college by its ID.
func (r *CollegeRepository) FindByID(ctx context.Context, collegeID int64) (*models.College, error) {
	const query = `SELECT college_id, college_code, college_name, place, max_quota,
        is_final_approved, final_approved_at, final_approved_by
        FROM colleges WHERE college_id = $1`
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, collegeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return nil, fmt.Errorf("find college: %w", err)
	}
	return &college, nil
}

// IsFinalApproved reports the current lock flag without holding any lock.
func (r *CollegeRepository) IsFinalApproved(ctx context.Context, collegeID int64) (bool, error) {
	const query = `SELECT is_final_approved FROM colleges WHERE college_id = $1`
	var locked bool
	if err := r.db.GetContext(ctx, &locked, query, collegeID); err != nil {
		if err == sql.ErrNoRows {
			return false, fmt.Errorf("college %d not found", collegeID)
		}
		return false, fmt.Errorf("check final approval: %w", err)
	}
	return locked, nil
}

// collegeForUpdate loads the college row under a row lock. Every mutating
// workflow takes this lock first so concurrent approvals for the same college
// serialise instead of racing the quota and capacity checks.
func collegeForUpdate(ctx context.Context, tx *sqlx.Tx, collegeID int64) (*models.College, error) {
	const query = `SELECT college_id, college_code, college_name, place, max_quota,
        is_final_approved, final_approved_at, final_approved_by
        FROM colleges WHERE college_id = $1 FOR UPDATE`
	var college models.College
	if err := tx.GetContext(ctx, &college, query, collegeID); err != nil {
		return nil, fmt.Errorf("lock college %d: %w", collegeID, err)
	}
	return &college, nil
}
