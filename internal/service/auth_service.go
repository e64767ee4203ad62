package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/config"
	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// AuthUserStore is the slice of the user repository the auth service needs.
type AuthUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthService authenticates college-side users and issues access tokens.
type AuthService struct {
	users    AuthUserStore
	cfg      config.JWTConfig
	logger   *zap.Logger
	validate *validator.Validate
}

// NewAuthService constructs the service.
func NewAuthService(users AuthUserStore, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// Login verifies credentials, stamps last_login, writes the audit trail and
// returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, appErrors.ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := models.JWTClaims{
		UserID:    user.UserID,
		CollegeID: user.CollegeID,
		Role:      models.NormalizeRole(string(user.Role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.UserID),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.UserID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Int64("user_id", user.UserID), zap.Error(err))
	}
	s.audit(ctx, user, req)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.Expiration.Seconds()),
		IssuedAt:    now,
		User: models.UserInfo{
			UserID:    user.UserID,
			CollegeID: user.CollegeID,
			Email:     user.Email,
			FullName:  user.FullName,
			Role:      claims.Role,
		},
	}, nil
}

// ValidateToken parses the access token, enforcing HS256, and returns its
// claims with the role normalised.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	claims.Role = models.NormalizeRole(string(claims.Role))
	return claims, nil
}

func (s *AuthService) audit(ctx context.Context, user *models.User, req models.LoginRequest) {
	payload, _ := json.Marshal(map[string]string{"email": user.Email})
	entry := &models.AuditLog{
		UserID:    &user.UserID,
		CollegeID: &user.CollegeID,
		Action:    models.AuditActionLogin,
		Resource:  "users",
		NewValues: payload,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.users.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}
