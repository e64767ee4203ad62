package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

func TestParticipationRepositoryListApprovedGroupsEvents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewParticipationRepository(db)
	rows := sqlmock.NewRows([]string{"application_id", "student_id", "full_name", "usn", "email", "phone", "status"}).
		AddRow(int64(11), int64(101), "Asha R", "1AY23CS001", "asha@example.com", "9000000001", "APPROVED").
		AddRow(int64(12), int64(102), "Bharat K", "1AY23CS002", "bharat@example.com", "9000000002", "APPROVED")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sa.application_id, sa.student_id, s.full_name")).
		WithArgs(int64(7), models.ApplicationApproved).
		WillReturnRows(rows)

	eventRows := sqlmock.NewRows([]string{"student_id", "event_id", "event_name", "event_type"}).
		AddRow(int64(101), int64(21), "Classical Vocal Solo", "participating").
		AddRow(int64(101), int64(30), "Mime", "accompanying").
		AddRow(int64(102), int64(21), "Classical Vocal Solo", "participating")
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_event_participation sep")).
		WithArgs(int64(7)).
		WillReturnRows(eventRows)

	students, err := repo.ListApproved(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Len(t, students[0].ParticipatingEvents, 1)
	require.Len(t, students[0].AccompanyingEvents, 1)
	require.Equal(t, "Classical Vocal Solo", students[0].ParticipatingEvents[0].EventName)
	require.Empty(t, students[1].AccompanyingEvents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRepositoryReplaceRevalidatesCapacity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewParticipationRepository(db)
	mock.ExpectBegin()
	expectCollegeLock(mock, false, 45)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_event_participation WHERE student_id = $1")).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT e.event_name, e.max_participants_per_college")).
		WithArgs(int64(21), int64(7), models.Participating).
		WillReturnRows(sqlmock.NewRows([]string{"event_name", "max_participants_per_college", "current_count"}).
			AddRow("Classical Vocal Solo", 2, 2))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), ReplaceParams{
		StudentID:           101,
		CollegeID:           7,
		ActorUserID:         3,
		ParticipatingEvents: []int64{21},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrEventFull.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRepositoryReplaceSuccess(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewParticipationRepository(db)
	mock.ExpectBegin()
	expectCollegeLock(mock, false, 45)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_event_participation WHERE student_id = $1")).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT e.event_name, e.max_participants_per_college")).
		WithArgs(int64(21), int64(7), models.Participating).
		WillReturnRows(sqlmock.NewRows([]string{"event_name", "max_participants_per_college", "current_count"}).
			AddRow("Classical Vocal Solo", 2, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_event_participation")).
		WithArgs(int64(101), int64(21), int64(7), int64(3), models.Participating).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_event_participation")).
		WithArgs(int64(101), int64(30), int64(7), int64(3), models.Accompanying).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), ReplaceParams{
		StudentID:           101,
		CollegeID:           7,
		ActorUserID:         3,
		ParticipatingEvents: []int64{21},
		AccompanyingEvents:  []int64{30},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRepositoryMoveToRejected(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewParticipationRepository(db)
	mock.ExpectBegin()
	expectCollegeLock(mock, false, 45)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_applications SET status = $2, rejected_reason = $3")).
		WithArgs(int64(101), models.ApplicationRejected, "Duplicate entry", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_event_participation WHERE student_id = $1")).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET reapply_count = reapply_count + 1")).
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MoveToRejected(context.Background(), 101, 7, "Duplicate entry"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipationRepositoryMoveToRejectedMissingStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewParticipationRepository(db)
	mock.ExpectBegin()
	expectCollegeLock(mock, false, 45)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_applications SET status = $2, rejected_reason = $3")).
		WithArgs(int64(999), models.ApplicationRejected, "Unknown", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.MoveToRejected(context.Background(), 999, 7, "Unknown")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
