package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// ParticipationRepository manages the student-to-event linkage for approved
// students.
type ParticipationRepository struct {
	db *sqlx.DB
}

// NewParticipationRepository constructs the repository.
func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// ListApproved returns the college's approved students ordered by name, each
// with their current participating and accompanying event sets.
func (r *ParticipationRepository) ListApproved(ctx context.Context, collegeID int64) ([]models.ApprovedStudent, error) {
	const query = `SELECT sa.application_id, sa.student_id, s.full_name, s.usn, s.email, s.phone, sa.status
        FROM student_applications sa
        INNER JOIN students s ON sa.student_id = s.student_id
        WHERE s.college_id = $1 AND sa.status = $2
        ORDER BY s.full_name ASC`

	var students []models.ApprovedStudent
	if err := r.db.SelectContext(ctx, &students, query, collegeID, models.ApplicationApproved); err != nil {
		return nil, fmt.Errorf("list approved students: %w", err)
	}
	if len(students) == 0 {
		return students, nil
	}

	index := make(map[int64]int, len(students))
	for i := range students {
		students[i].ParticipatingEvents = []models.EventRef{}
		students[i].AccompanyingEvents = []models.EventRef{}
		index[students[i].StudentID] = i
	}

	const eventsQuery = `SELECT sep.student_id, e.event_id, e.event_name, sep.event_type
        FROM student_event_participation sep
        INNER JOIN events e ON sep.event_id = e.event_id
        WHERE sep.college_id = $1`
	rows, err := r.db.QueryxContext(ctx, eventsQuery, collegeID)
	if err != nil {
		return nil, fmt.Errorf("list event assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var studentID int64
		var ref models.EventRef
		var kind models.ParticipationType
		if err := rows.Scan(&studentID, &ref.EventID, &ref.EventName, &kind); err != nil {
			return nil, fmt.Errorf("scan event assignment: %w", err)
		}
		i, ok := index[studentID]
		if !ok {
			continue
		}
		switch kind {
		case models.Participating:
			students[i].ParticipatingEvents = append(students[i].ParticipatingEvents, ref)
		case models.Accompanying:
			students[i].AccompanyingEvents = append(students[i].AccompanyingEvents, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event assignments: %w", err)
	}
	return students, nil
}

// ReplaceParams carries a full assignment replacement for one student.
type ReplaceParams struct {
	StudentID           int64
	CollegeID           int64
	ActorUserID         int64
	ParticipatingEvents []int64
	AccompanyingEvents  []int64
}

// Replace deletes every participation row for the student and re-inserts the
// provided sets. Capacity is re-validated for each participating event after
// the delete, so a replacement cannot push an event past its per-college
// limit through the edit path.
func (r *ParticipationRepository) Replace(ctx context.Context, p ReplaceParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	if err := r.replaceTx(ctx, tx, p); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments: %w", err)
	}
	return nil
}

func (r *ParticipationRepository) replaceTx(ctx context.Context, tx *sqlx.Tx, p ReplaceParams) error {
	college, err := collegeForUpdate(ctx, tx, p.CollegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return err
	}
	if college.IsFinalApproved {
		return appErrors.Clone(appErrors.ErrLocked, "Final approval is locked. Cannot edit events.")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM student_event_participation WHERE student_id = $1`, p.StudentID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
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
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_event_participation (student_id, event_id, college_id, assigned_by_user_id, event_type)
             VALUES ($1, $2, $3, $4, $5)`,
			p.StudentID, eventID, p.CollegeID, p.ActorUserID, models.Participating); err != nil {
			return fmt.Errorf("insert participating event %d: %w", eventID, err)
		}
	}

	if err := insertParticipations(ctx, tx, p.StudentID, p.CollegeID, p.ActorUserID, p.AccompanyingEvents, models.Accompanying); err != nil {
		return err
	}
	return nil
}

// MoveToRejected flips the student's application to REJECTED, wipes the
// student's event assignments and bumps the reapply counter, all in one
// transaction.
func (r *ParticipationRepository) MoveToRejected(ctx context.Context, studentID, collegeID int64, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move to rejected: %w", err)
	}
	if err := r.moveToRejectedTx(ctx, tx, studentID, collegeID, reason); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move to rejected: %w", err)
	}
	return nil
}

func (r *ParticipationRepository) moveToRejectedTx(ctx context.Context, tx *sqlx.Tx, studentID, collegeID int64, reason string) error {
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

	res, err := tx.ExecContext(ctx,
		`UPDATE student_applications SET status = $2, rejected_reason = $3, reviewed_at = $4 WHERE student_id = $1`,
		studentID, models.ApplicationRejected, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reject applications: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "Student application not found")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM student_event_participation WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET reapply_count = reapply_count + 1 WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("bump reapply count: %w", err)
	}
	return nil
}
