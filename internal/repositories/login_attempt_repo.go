package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/models"
)

// LoginAttemptRepository tracks failed logins per username in memory
type LoginAttemptRepository struct {
	mu    sync.Mutex
	stats map[string]*models.LoginAttemptStats
}

func NewLoginAttemptRepository() *LoginAttemptRepository {
	return &LoginAttemptRepository{stats: make(map[string]*models.LoginAttemptStats)}
}

// Get returns a copy of the stats for username; a zero value when unknown
func (r *LoginAttemptRepository) Get(ctx context.Context, username string) models.LoginAttemptStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	if s, ok := r.stats[key]; ok {
		return copyStats(s)
	}
	return models.LoginAttemptStats{Username: key}
}

// RecordFailure counts a failure. Failures older than window restart the
// count.
func (r *LoginAttemptRepository) RecordFailure(ctx context.Context, username string, now time.Time, window time.Duration) models.LoginAttemptStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	s, ok := r.stats[key]
	if !ok || now.Sub(s.FirstFailure) > window {
		s = &models.LoginAttemptStats{Username: key, FirstFailure: now}
		r.stats[key] = s
	}
	s.FailedCount++
	s.LastFailure = now
	return copyStats(s)
}

// Lock locks username until the given time. The failure count starts over
// once the lock lapses.
func (r *LoginAttemptRepository) Lock(ctx context.Context, username string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(username)
	s, ok := r.stats[key]
	if !ok {
		s = &models.LoginAttemptStats{Username: key}
		r.stats[key] = s
	}
	s.LockedUntil = &until
	s.FailedCount = 0
	s.FirstFailure = until
}

// Reset clears failures and locks after a successful login
func (r *LoginAttemptRepository) Reset(ctx context.Context, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, strings.ToLower(username))
}

// CleanupExpired drops entries whose lock has lapsed and whose window has
// passed. It returns the number removed.
func (r *LoginAttemptRepository) CleanupExpired(ctx context.Context, now time.Time, window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, s := range r.stats {
		if s.IsLocked(now) || now.Sub(s.LastFailure) <= window {
			continue
		}
		delete(r.stats, key)
		removed++
	}
	return removed
}

func copyStats(s *models.LoginAttemptStats) models.LoginAttemptStats {
	out := *s
	if s.LockedUntil != nil {
		until := *s.LockedUntil
		out.LockedUntil = &until
	}
	return out
}
