package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/models"
	pkgauth "github.com/BradenHooton/folio/pkg/auth"
	pkglogger "github.com/BradenHooton/folio/pkg/logger"
)

// UserRepository defines the account storage the services need
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// LockedError reports a locked account and how long it stays locked
type LockedError struct {
	SecondsRemaining int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for %ds", e.SecondsRemaining)
}

func (e *LockedError) Unwrap() error { return models.ErrAccountLocked }

// LoginResult is a successful login
type LoginResult struct {
	Response  models.LoginResponse
	ExpiresAt time.Time
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	lockout     *LockoutService
	timing      *auth.TimingDelay
	hasher      *pkgauth.Hasher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo UserRepository,
	tm *auth.TokenManager,
	lockout *LockoutService,
	timing *auth.TimingDelay,
	hasher *pkgauth.Hasher,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		lockout:     lockout,
		timing:      timing,
		hasher:      hasher,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Login authenticates by username. A locked account fails with
// *LockedError before the password is looked at.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	start := time.Now()
	username = strings.TrimSpace(username)

	if remaining := s.lockout.SecondsRemaining(ctx, username); remaining > 0 {
		s.audit(username, "account_locked")
		return nil, &LockedError{SecondsRemaining: remaining}
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to get user by username", slog.Any("error", err))
		return nil, err
	}

	if user == nil || s.hasher.Compare(user.PasswordHash, password) != nil {
		s.audit(username, "invalid_credentials")
		locked := s.lockout.RecordFailure(ctx, username)
		s.timing.WaitFrom(ctx, start, false)
		if locked > 0 {
			return nil, &LockedError{SecondsRemaining: locked}
		}
		return nil, models.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		s.audit(username, "email_not_verified")
		return nil, models.ErrEmailNotVerified
	}

	token, expiresAt, err := s.tm.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, err
	}

	s.lockout.RecordSuccess(ctx, username)
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		Username:  user.Username,
		Success:   true,
	})

	return &LoginResult{
		Response:  models.NewLoginResponse(user, token),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) audit(username, reason string) {
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "login_failed",
		Username:      username,
		FailureReason: reason,
		Success:       false,
	})
}
