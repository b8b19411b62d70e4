package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	pkglogger "github.com/BradenHooton/folio/pkg/logger"
)

// LoginAttemptRepository defines the storage the lockout needs
type LoginAttemptRepository interface {
	Get(ctx context.Context, username string) models.LoginAttemptStats
	RecordFailure(ctx context.Context, username string, now time.Time, window time.Duration) models.LoginAttemptStats
	Lock(ctx context.Context, username string, until time.Time)
	Reset(ctx context.Context, username string)
	CleanupExpired(ctx context.Context, now time.Time, window time.Duration) int
}

// LockoutConfig holds configuration for account lockout behavior
type LockoutConfig struct {
	MaxAttempts int           // failures within Window that lock the account
	Window      time.Duration // lookback for counting failures
	Duration    time.Duration // how long a lock lasts
}

// LockoutService locks a username after repeated failed logins
type LockoutService struct {
	repo   LoginAttemptRepository
	config LockoutConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLockoutService creates a new LockoutService
func NewLockoutService(repo LoginAttemptRepository, config LockoutConfig, logger *slog.Logger) *LockoutService {
	return &LockoutService{
		repo:   repo,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// SecondsRemaining returns how long username stays locked; 0 means unlocked
func (s *LockoutService) SecondsRemaining(ctx context.Context, username string) int {
	stats := s.repo.Get(ctx, username)
	return stats.SecondsRemaining(s.now())
}

// RecordFailure counts a failed login and locks the account once the limit
// is reached. It returns the lock length in seconds, or 0.
func (s *LockoutService) RecordFailure(ctx context.Context, username string) int {
	now := s.now()
	stats := s.repo.RecordFailure(ctx, username, now, s.config.Window)
	if stats.FailedCount < s.config.MaxAttempts {
		return 0
	}

	until := now.Add(s.config.Duration)
	s.repo.Lock(ctx, username, until)
	s.logger.Warn("account locked",
		slog.String("username", pkglogger.MaskedUsername(username)),
		slog.Int("failed_attempts", stats.FailedCount),
		slog.Duration("lockout_duration", s.config.Duration))

	locked := stats
	locked.LockedUntil = &until
	return locked.SecondsRemaining(now)
}

// RecordSuccess clears the failure history for username
func (s *LockoutService) RecordSuccess(ctx context.Context, username string) {
	s.repo.Reset(ctx, username)
}

// Cleanup drops expired history; used by the background sweeper
func (s *LockoutService) Cleanup(ctx context.Context) int {
	return s.repo.CleanupExpired(ctx, s.now(), s.config.Window)
}
