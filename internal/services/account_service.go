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

// OTPRepository stores outstanding code challenges
type OTPRepository interface {
	Issue(ctx context.Context, email, purpose string, expiresAt time.Time) models.OTPChallenge
	Get(ctx context.Context, email, purpose string) (*models.OTPChallenge, error)
	MarkUsed(ctx context.Context, email, purpose string, counter uint64, at time.Time) error
	CleanupExpired(ctx context.Context, now time.Time) int
}

// AccountService handles registration, email verification and password reset
type AccountService struct {
	users       UserRepository
	otps        OTPRepository
	otpManager  *auth.OTPManager
	mailer      EmailService
	lockout     *LockoutService
	hasher      *pkgauth.Hasher
	otpExpiry   time.Duration
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(
	users UserRepository,
	otps OTPRepository,
	otpManager *auth.OTPManager,
	mailer EmailService,
	lockout *LockoutService,
	hasher *pkgauth.Hasher,
	otpExpiry time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AccountService {
	return &AccountService{
		users:       users,
		otps:        otps,
		otpManager:  otpManager,
		mailer:      mailer,
		lockout:     lockout,
		hasher:      hasher,
		otpExpiry:   otpExpiry,
		logger:      logger,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// Register creates an unverified reader account and mails its first code
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := pkgauth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         models.RoleReader,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogAccountAction(pkglogger.AuditEvent{
		EventType: "register",
		Username:  user.Username,
		Email:     user.Email,
		Success:   true,
	})

	if err := s.sendCode(ctx, user.Email, models.PurposeVerifyEmail); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyOTP consumes a verification code and marks the email verified
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if err := s.consume(ctx, email, models.PurposeVerifyEmail, code); err != nil {
		s.auditLogger.LogAccountAction(pkglogger.AuditEvent{
			EventType:     "verify_email",
			Email:         email,
			FailureReason: "invalid_code",
		})
		return err
	}

	if err := s.users.MarkEmailVerified(ctx, email); err != nil {
		return err
	}

	s.auditLogger.LogAccountAction(pkglogger.AuditEvent{
		EventType: "verify_email",
		Email:     email,
		Success:   true,
	})
	return nil
}

// ResendOTP mails a fresh verification code. Unknown and already verified
// addresses succeed silently.
func (s *AccountService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendCode(ctx, email, models.PurposeVerifyEmail)
}

// ForgotPassword mails a reset code. It never reveals whether the
// address has an account.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
		}
		return nil
	}
	return s.sendCode(ctx, email, models.PurposeResetPassword)
}

// ResetPassword sets a new password after checking the reset code. A
// successful reset also clears any lockout on the account.
func (s *AccountService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := pkgauth.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidOTP
		}
		return err
	}

	if err := s.consume(ctx, email, models.PurposeResetPassword, req.OTP); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.lockout.RecordSuccess(ctx, user.Username)

	s.auditLogger.LogAccountAction(pkglogger.AuditEvent{
		EventType: "reset_password",
		Username:  user.Username,
		Email:     email,
		Success:   true,
	})
	return nil
}

func (s *AccountService) sendCode(ctx context.Context, email, purpose string) error {
	expiresAt := s.now().Add(s.otpExpiry)
	challenge := s.otps.Issue(ctx, email, purpose, expiresAt)

	code, err := s.otpManager.Code(email, purpose, challenge.Counter)
	if err != nil {
		return err
	}
	if err := s.mailer.SendCode(ctx, email, purpose, code, expiresAt); err != nil {
		return fmt.Errorf("sending %s code: %w", purpose, err)
	}
	return nil
}

// consume checks code against the outstanding challenge and marks it used
func (s *AccountService) consume(ctx context.Context, email, purpose, code string) error {
	now := s.now()
	challenge, err := s.otps.Get(ctx, email, purpose)
	if err != nil || !challenge.IsValid(now) {
		return models.ErrInvalidOTP
	}
	if !s.otpManager.Validate(email, purpose, strings.TrimSpace(code), challenge.Counter) {
		return models.ErrInvalidOTP
	}
	return s.otps.MarkUsed(ctx, email, purpose, challenge.Counter, now)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
