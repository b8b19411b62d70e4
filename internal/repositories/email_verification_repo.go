package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/models"
)

type challengeKey struct {
	email   string
	purpose string
}

// OTPRepository stores the outstanding code challenge per email and purpose.
// Counters only grow, so a reissued code never repeats an earlier one.
type OTPRepository struct {
	mu         sync.Mutex
	challenges map[challengeKey]*models.OTPChallenge
	counters   map[string]uint64
}

func NewOTPRepository() *OTPRepository {
	return &OTPRepository{
		challenges: make(map[challengeKey]*models.OTPChallenge),
		counters:   make(map[string]uint64),
	}
}

// Issue replaces any outstanding challenge with a new one
func (r *OTPRepository) Issue(ctx context.Context, email, purpose string, expiresAt time.Time) models.OTPChallenge {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[email]++
	c := &models.OTPChallenge{
		Email:     email,
		Purpose:   purpose,
		Counter:   r.counters[email],
		ExpiresAt: expiresAt,
	}
	r.challenges[challengeKey{email, purpose}] = c
	return *c
}

func (r *OTPRepository) Get(ctx context.Context, email, purpose string) (*models.OTPChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.challenges[challengeKey{email, purpose}]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *c
	return &out, nil
}

// MarkUsed consumes the challenge if it still carries counter
func (r *OTPRepository) MarkUsed(ctx context.Context, email, purpose string, counter uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.challenges[challengeKey{email, purpose}]
	if !ok || c.Counter != counter || c.IsUsed() {
		return models.ErrInvalidOTP
	}
	c.UsedAt = &at
	return nil
}

// CleanupExpired removes used and expired challenges
func (r *OTPRepository) CleanupExpired(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, c := range r.challenges {
		if c.IsValid(now) {
			continue
		}
		delete(r.challenges, key)
		removed++
	}
	return removed
}
