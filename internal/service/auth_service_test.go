package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/config"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

type fakeUserStore struct {
	user      *models.User
	audits    []*models.AuditLog
	lastLogin int64
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, appErrors.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64) error {
	f.lastLogin = userID
	return nil
}

func (f *fakeUserStore) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.audits = append(f.audits, log)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "vtufest-api"}
}

func newTestUser(t *testing.T, role string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		UserID:       3,
		CollegeID:    7,
		Email:        "principal@college.edu",
		PasswordHash: string(hash),
		FullName:     "Dr. Principal",
		Role:         models.UserRole(role),
		Active:       true,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	store := &fakeUserStore{user: newTestUser(t, "principal")}
	svc := NewAuthService(store, testJWTConfig(), zap.NewNop())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "principal@college.edu", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, models.RolePrincipal, res.User.Role)
	require.Equal(t, int64(3), store.lastLogin)
	require.Len(t, store.audits, 1)
	require.Equal(t, models.AuditActionLogin, store.audits[0].Action)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(3), claims.UserID)
	require.Equal(t, int64(7), claims.CollegeID)
	require.Equal(t, models.RolePrincipal, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	store := &fakeUserStore{user: newTestUser(t, "PRINCIPAL")}
	svc := NewAuthService(store, testJWTConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "principal@college.edu", Password: "wrong"})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	require.Empty(t, store.audits)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{}, testJWTConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@college.edu", Password: "s3cret"})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := newTestUser(t, "MANAGER")
	user.Active = false
	svc := NewAuthService(&fakeUserStore{user: user}, testJWTConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "principal@college.edu", Password: "s3cret"})
	require.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceValidateTokenRejectsForgedSignature(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{user: newTestUser(t, "PRINCIPAL")}, testJWTConfig(), zap.NewNop())
	other := NewAuthService(&fakeUserStore{}, config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, zap.NewNop())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "principal@college.edu", Password: "s3cret"})
	require.NoError(t, err)

	_, err = other.ValidateToken(res.AccessToken)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{}, testJWTConfig(), zap.NewNop())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
