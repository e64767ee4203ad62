package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// FinalRepository writes and reads the locked final snapshot.
type FinalRepository struct {
	db      *sqlx.DB
	catalog *EventCatalog
}

// NewFinalRepository constructs the repository over the given event catalog.
func NewFinalRepository(db *sqlx.DB, catalog *EventCatalog) *FinalRepository {
	return &FinalRepository{db: db, catalog: catalog}
}

// Finalize snapshots the college's contingent into final_participants_master
// and sets the lock flag, all in one transaction. Once committed the college
// can no longer approve, reject or edit anything.
func (r *FinalRepository) Finalize(ctx context.Context, collegeID, actorUserID int64) (*models.FinalApprovalResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin final approval: %w", err)
	}
	result, err := r.finalizeTx(ctx, tx, collegeID, actorUserID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit final approval: %w", err)
	}
	return result, nil
}

func (r *FinalRepository) finalizeTx(ctx context.Context, tx *sqlx.Tx, collegeID, actorUserID int64) (*models.FinalApprovalResult, error) {
	college, err := collegeForUpdate(ctx, tx, collegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return nil, err
	}
	if college.IsFinalApproved {
		return nil, appErrors.Clone(appErrors.ErrLocked, "Final approval already submitted")
	}

	const approvedQuery = `SELECT s.student_id, s.college_id, s.full_name, s.usn, s.email, s.phone, s.gender, s.passport_photo_url, s.reapply_count
        FROM students s
        INNER JOIN student_applications sa ON sa.student_id = s.student_id
        WHERE s.college_id = $1 AND sa.status = $2
        ORDER BY s.full_name ASC`
	var approved []models.Student
	if err := tx.SelectContext(ctx, &approved, approvedQuery, collegeID, models.ApplicationApproved); err != nil {
		return nil, fmt.Errorf("list approved students: %w", err)
	}

	eligible := make([]models.Student, 0, len(approved))
	for _, student := range approved {
		ok, err := r.catalog.HasParticipation(ctx, tx, student.StudentID, models.PersonStudent)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, student)
		}
	}
	if len(eligible) == 0 {
		return nil, appErrors.ErrNoEligibleStudents
	}

	docs, err := r.documentsByStudent(ctx, tx, eligible)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO final_participants_master
        (college_id, person_id, person_type, full_name, phone, email, photo_url,
         aadhaar_url, college_id_url, sslc_url, accompanist_type, is_team_manager, id_proof_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	result := &models.FinalApprovalResult{}
	for _, student := range eligible {
		studentDocs := docs[student.StudentID]
		if _, err := tx.ExecContext(ctx, insertQuery,
			collegeID, student.StudentID, models.PersonStudent,
			student.FullName, student.Phone, student.Email, student.PassportPhotoURL,
			docURL(studentDocs, "aadhar", "aadhaar"), docURL(studentDocs, "college_id"), docURL(studentDocs, "sslc"),
			nil, false, nil, now); err != nil {
			return nil, fmt.Errorf("snapshot student %d: %w", student.StudentID, err)
		}
		result.InsertedStudents++
	}

	var accompanists []models.Accompanist
	if err := tx.SelectContext(ctx, &accompanists,
		`SELECT accompanist_id, college_id, full_name, phone, email, passport_photo_url, id_proof_url, accompanist_type, is_team_manager
         FROM accompanists WHERE college_id = $1 ORDER BY full_name ASC`, collegeID); err != nil {
		return nil, fmt.Errorf("list accompanists: %w", err)
	}
	for _, acc := range accompanists {
		accType := acc.AccompanistType
		idProof := acc.IDProofURL
		if _, err := tx.ExecContext(ctx, insertQuery,
			collegeID, acc.AccompanistID, models.PersonAccompanist,
			acc.FullName, acc.Phone, acc.Email, acc.PassportPhotoURL,
			nil, nil, nil,
			&accType, acc.IsTeamManager, &idProof, now); err != nil {
			return nil, fmt.Errorf("snapshot accompanist %d: %w", acc.AccompanistID, err)
		}
		result.InsertedAccompanists++
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE colleges SET is_final_approved = TRUE, final_approved_at = $2, final_approved_by = $3 WHERE college_id = $1`,
		collegeID, now, actorUserID); err != nil {
		return nil, fmt.Errorf("set final approval lock: %w", err)
	}

	result.TotalRecords = result.InsertedStudents + result.InsertedAccompanists
	return result, nil
}

// ListByCollege returns the snapshot rows for export, students first.
func (r *FinalRepository) ListByCollege(ctx context.Context, collegeID int64) ([]models.FinalParticipant, error) {
	const query = `SELECT record_id, college_id, person_id, person_type, full_name, phone, email, photo_url,
        aadhaar_url, college_id_url, sslc_url, accompanist_type, is_team_manager, id_proof_url, created_at
        FROM final_participants_master
        WHERE college_id = $1
        ORDER BY person_type DESC, full_name ASC`
	var participants []models.FinalParticipant
	if err := r.db.SelectContext(ctx, &participants, query, collegeID); err != nil {
		return nil, fmt.Errorf("list final participants: %w", err)
	}
	return participants, nil
}

func (r *FinalRepository) documentsByStudent(ctx context.Context, tx *sqlx.Tx, students []models.Student) (map[int64]map[string]string, error) {
	ids := make([]int64, len(students))
	for i, s := range students {
		ids[i] = s.StudentID
	}
	const query = `SELECT sa.student_id, LOWER(ad.document_type) AS document_type, ad.document_url
        FROM application_documents ad
        INNER JOIN student_applications sa ON ad.application_id = sa.application_id
        WHERE sa.student_id = ANY($1) AND sa.status = $2`
	rows, err := tx.QueryxContext(ctx, query, pq.Int64Array(ids), models.ApplicationApproved)
	if err != nil {
		return nil, fmt.Errorf("list student documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[int64]map[string]string, len(students))
	for rows.Next() {
		var studentID int64
		var docType, fileURL string
		if err := rows.Scan(&studentID, &docType, &fileURL); err != nil {
			return nil, fmt.Errorf("scan student document: %w", err)
		}
		if docs[studentID] == nil {
			docs[studentID] = make(map[string]string)
		}
		docs[studentID][docType] = fileURL
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student documents: %w", err)
	}
	return docs, nil
}

// docURL picks the first present document type and returns nil when the
// student never uploaded one.
func docURL(docs map[string]string, types ...string) *string {
	for _, t := range types {
		if url, ok := docs[t]; ok && url != "" {
			return &url
		}
	}
	return nil
}
