package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper is one kind of expired state the cleanup manager removes
type Sweeper interface {
	Name() string
	Sweep(ctx context.Context) int
}

// SweepFunc adapts a function to the Sweeper interface
type SweepFunc struct {
	Label string
	Fn    func(ctx context.Context) int
}

func (s SweepFunc) Name() string                  { return s.Label }
func (s SweepFunc) Sweep(ctx context.Context) int { return s.Fn(ctx) }

// CleanupManager periodically drops lapsed lockouts and expired codes
type CleanupManager struct {
	sweepers []Sweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(logger *slog.Logger, interval time.Duration, sweepers ...Sweeper) *CleanupManager {
	return &CleanupManager{
		sweepers: sweepers,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, s := range cm.sweepers {
		if removed := s.Sweep(cleanupCtx); removed > 0 {
			cm.logger.Info("expired entries removed",
				slog.String("sweeper", s.Name()),
				slog.Int("removed", removed))
		}
	}
}

// Stop signals the cleanup manager to stop. It is safe to call twice.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
