package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// ApplicationRepository persists student applications and runs the review
// workflows. Multi-statement workflows execute inside a single transaction
// holding the college row lock.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListPending returns SUBMITTED applications for the college, newest first,
// with documents keyed by lower-cased document type.
func (r *ApplicationRepository) ListPending(ctx context.Context, collegeID int64) ([]models.PendingApplication, error) {
	const query = `SELECT sa.application_id, sa.student_id, s.full_name, s.usn, s.email, s.phone, s.gender,
        sa.blood_group, sa.address, sa.department, sa.year_of_study, sa.semester, sa.status, sa.submitted_at
        FROM student_applications sa
        INNER JOIN students s ON sa.student_id = s.student_id
        WHERE s.college_id = $1 AND sa.status = $2
        ORDER BY sa.submitted_at DESC`

	var applications []models.PendingApplication
	if err := r.db.SelectContext(ctx, &applications, query, collegeID, models.ApplicationSubmitted); err != nil {
		return nil, fmt.Errorf("list pending applications: %w", err)
	}
	if len(applications) == 0 {
		return applications, nil
	}

	ids := make([]int64, len(applications))
	index := make(map[int64]int, len(applications))
	for i, app := range applications {
		ids[i] = app.ApplicationID
		index[app.ApplicationID] = i
		applications[i].Documents = map[string]string{}
	}

	const docsQuery = `SELECT application_id, document_type, document_url
        FROM application_documents WHERE application_id = ANY($1)`
	rows, err := r.db.QueryxContext(ctx, docsQuery, pq.Int64Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list application documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var appID int64
		var docType, docURL string
		if err := rows.Scan(&appID, &docType, &docURL); err != nil {
			return nil, fmt.Errorf("scan application document: %w", err)
		}
		if i, ok := index[appID]; ok {
			applications[i].Documents[strings.ToLower(docType)] = docURL
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application documents: %w", err)
	}
	return applications, nil
}

// ApproveParams carries everything the approval transaction needs.
type ApproveParams struct {
	ApplicationID       int64
	CollegeID           int64
	ActorUserID         int64
	ParticipatingEvents []int64
	AccompanyingEvents  []int64
	// QuotaCap bounds approved students plus accompanists. Zero falls back
	// to the college's max_quota column.
	QuotaCap int
}

// Approve marks the application APPROVED and assigns the requested events.
// The whole workflow runs under the college row lock: the lock flag, the
// quota and every event capacity are re-read inside the transaction, so two
// concurrent approvals cannot both pass a stale check.
func (r *ApplicationRepository) Approve(ctx context.Context, p ApproveParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approve: %w", err)
	}
	if err := r.approveTx(ctx, tx, p); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approve: %w", err)
	}
	return nil
}

type eventCapacity struct {
	EventName     string `db:"event_name"`
	MaxPerCollege int    `db:"max_participants_per_college"`
	CurrentCount  int    `db:"current_count"`
}

func (r *ApplicationRepository) approveTx(ctx context.Context, tx *sqlx.Tx, p ApproveParams) error {
	college, err := collegeForUpdate(ctx, tx, p.CollegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return err
	}
	if college.IsFinalApproved {
		return appErrors.Clone(appErrors.ErrLocked, "Final approval is locked. Cannot approve students.")
	}

	var studentID int64
	if err := tx.GetContext(ctx, &studentID,
		`SELECT student_id FROM student_applications WHERE application_id = $1`, p.ApplicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Application not found")
		}
		return fmt.Errorf("load application: %w", err)
	}

	quotaCap := p.QuotaCap
	if quotaCap <= 0 {
		quotaCap = college.MaxQuota
	}
	used, err := quotaUsed(ctx, tx, p.CollegeID)
	if err != nil {
		return err
	}
	if used >= quotaCap {
		return appErrors.Clone(appErrors.ErrQuotaExceeded,
			fmt.Sprintf("College quota exceeded (%d/%d). Remove existing participants before adding new ones.", used, quotaCap))
	}

	const capacityQuery = `SELECT e.event_name, e.max_participants_per_college,
        (SELECT COUNT(*) FROM student_event_participation sep
         INNER JOIN students s ON sep.student_id = s.student_id
         WHERE sep.event_id = $1 AND s.college_id = $2 AND sep.event_type = $3) AS current_count
        FROM events e WHERE e.event_id = $1`
	for _, eventID := range p.ParticipatingEvents {
		var capInfo eventCapacity
		if err := tx.GetContext(ctx, &capInfo, capacityQuery, eventID, p.CollegeID, models.Participating); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Event ID %d not found", eventID))
			}
			return fmt.Errorf("check event %d capacity: %w", eventID, err)
		}
		if capInfo.CurrentCount >= capInfo.MaxPerCollege {
			return appErrors.Clone(appErrors.ErrEventFull,
				fmt.Sprintf("Event %q is full (%d/%d)", capInfo.EventName, capInfo.CurrentCount, capInfo.MaxPerCollege))
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE student_applications SET status = $2, reviewed_at = $3 WHERE application_id = $1`,
		p.ApplicationID, models.ApplicationApproved, time.Now().UTC()); err != nil {
		return fmt.Errorf("approve application: %w", err)
	}

	if err := insertParticipations(ctx, tx, studentID, p.CollegeID, p.ActorUserID, p.ParticipatingEvents, models.Participating); err != nil {
		return err
	}
	if err := insertParticipations(ctx, tx, studentID, p.CollegeID, p.ActorUserID, p.AccompanyingEvents, models.Accompanying); err != nil {
		return err
	}
	return nil
}

// Reject marks the application REJECTED and bumps the student's reapply
// counter inside one transaction.
func (r *ApplicationRepository) Reject(ctx context.Context, applicationID, collegeID int64, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reject: %w", err)
	}
	if err := r.rejectTx(ctx, tx, applicationID, collegeID, reason); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reject: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) rejectTx(ctx context.Context, tx *sqlx.Tx, applicationID, collegeID int64, reason string) error {
	college, err := collegeForUpdate(ctx, tx, collegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return err
	}
	if college.IsFinalApproved {
		return appErrors.Clone(appErrors.ErrLocked, "Final approval is locked. Cannot reject students.")
	}

	var studentID int64
	if err := tx.GetContext(ctx, &studentID,
		`SELECT student_id FROM student_applications WHERE application_id = $1`, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Application not found")
		}
		return fmt.Errorf("load application: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE student_applications SET status = $2, rejected_reason = $3, reviewed_at = $4 WHERE application_id = $1`,
		applicationID, models.ApplicationRejected, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("reject application: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET reapply_count = reapply_count + 1 WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("bump reapply count: %w", err)
	}
	return nil
}

// EditDetailsParams carries the mutable demographic and academic fields.
type EditDetailsParams struct {
	ApplicationID int64
	CollegeID     int64
	FullName      string
	Email         string
	Phone         string
	Gender        string
	BloodGroup    string
	Address       string
	Department    string
	YearOfStudy   int
	Semester      int
}

// EditDetails updates the student and application rows atomically.
func (r *ApplicationRepository) EditDetails(ctx context.Context, p EditDetailsParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edit details: %w", err)
	}
	if err := r.editDetailsTx(ctx, tx, p); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit edit details: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) editDetailsTx(ctx context.Context, tx *sqlx.Tx, p EditDetailsParams) error {
	college, err := collegeForUpdate(ctx, tx, p.CollegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return err
	}
	if college.IsFinalApproved {
		return appErrors.Clone(appErrors.ErrLocked, "Final approval is locked. Cannot edit students.")
	}

	var studentID int64
	if err := tx.GetContext(ctx, &studentID,
		`SELECT student_id FROM student_applications WHERE application_id = $1`, p.ApplicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Application not found")
		}
		return fmt.Errorf("load application: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET full_name = $2, email = $3, phone = $4, gender = $5 WHERE student_id = $1`,
		studentID, p.FullName, p.Email, p.Phone, p.Gender); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE student_applications SET blood_group = $2, address = $3, department = $4, year_of_study = $5, semester = $6
         WHERE application_id = $1`,
		p.ApplicationID, p.BloodGroup, p.Address, p.Department, p.YearOfStudy, p.Semester); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

// quotaUsed counts distinct approved students plus accompanists for the
// college.
func quotaUsed(ctx context.Context, q sqlx.QueryerContext, collegeID int64) (int, error) {
	const query = `SELECT
        (SELECT COUNT(DISTINCT sa.student_id) FROM student_applications sa
         INNER JOIN students s ON sa.student_id = s.student_id
         WHERE s.college_id = $1 AND sa.status = 'APPROVED') +
        (SELECT COUNT(*) FROM accompanists WHERE college_id = $1) AS quota_used`
	var used int
	if err := sqlx.GetContext(ctx, q, &used, query, collegeID); err != nil {
		return 0, fmt.Errorf("compute quota: %w", err)
	}
	return used, nil
}

// insertParticipations writes one linkage row per event ID.
func insertParticipations(ctx context.Context, tx *sqlx.Tx, studentID, collegeID, actorID int64, eventIDs []int64, kind models.ParticipationType) error {
	const query = `INSERT INTO student_event_participation (student_id, event_id, college_id, assigned_by_user_id, event_type)
        VALUES ($1, $2, $3, $4, $5)`
	for _, eventID := range eventIDs {
		if _, err := tx.ExecContext(ctx, query, studentID, eventID, collegeID, actorID, kind); err != nil {
			return fmt.Errorf("insert %s participation for event %d: %w", kind, eventID, err)
		}
	}
	return nil
}
