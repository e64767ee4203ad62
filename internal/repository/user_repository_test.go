package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/acharyahabba/vtufest-api/internal/models"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "college_id", "email", "password_hash", "full_name", "role", "is_active", "last_login", "created_at"}).
		AddRow(int64(3), int64(7), "principal@college.edu", "$2a$10$hash", "Dr. Principal", "PRINCIPAL", true, nil, time.Now())
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 AND is_active = TRUE")).
		WithArgs("principal@college.edu").
		WillReturnRows(userRows())

	user, err := repo.FindByEmail(context.Background(), "principal@college.edu")
	require.NoError(t, err)
	require.Equal(t, int64(3), user.UserID)
	require.Equal(t, models.RolePrincipal, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 AND is_active = TRUE")).
		WithArgs("nobody@college.edu").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@college.edu")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateAuditLogAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionApprove, Resource: "student_applications"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
