package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &models.User{Username: "Alice", Email: "alice@example.com", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("lookups", func(t *testing.T) {
		byName, err := repo.GetByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)

		byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice", byEmail.Username)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = repo.GetByUsername(ctx, "bob")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com"})
		assert.ErrorIs(t, err, models.ErrConflict)
		_, err = repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com"})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("returned copies are detached", func(t *testing.T) {
		u, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		u.PasswordHash = "tampered"

		again, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "h1", again.PasswordHash)
	})

	t.Run("updates", func(t *testing.T) {
		require.NoError(t, repo.MarkEmailVerified(ctx, "alice@example.com"))
		require.NoError(t, repo.UpdatePassword(ctx, created.ID, "h2"))

		u, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, u.EmailVerified)
		assert.Equal(t, "h2", u.PasswordHash)

		assert.ErrorIs(t, repo.MarkEmailVerified(ctx, "nobody@example.com"), models.ErrNotFound)
		assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "h"), models.ErrNotFound)
	})
}

func TestLoginAttemptRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLoginAttemptRepository()
	window := 15 * time.Minute

	s := repo.RecordFailure(ctx, "Alice", t0, window)
	assert.Equal(t, 1, s.FailedCount)
	assert.Equal(t, "alice", s.Username)

	s = repo.RecordFailure(ctx, "alice", t0.Add(time.Minute), window)
	assert.Equal(t, 2, s.FailedCount)

	s = repo.RecordFailure(ctx, "alice", t0.Add(window+2*time.Minute), window)
	assert.Equal(t, 1, s.FailedCount, "failures outside the window start over")

	until := t0.Add(time.Hour)
	repo.Lock(ctx, "ALICE", until)
	s = repo.Get(ctx, "alice")
	assert.True(t, s.IsLocked(t0.Add(30*time.Minute)))
	assert.False(t, s.IsLocked(until))
	assert.Zero(t, s.FailedCount)

	// mutating the copy must not unlock the account
	*s.LockedUntil = t0
	assert.True(t, repo.Get(ctx, "alice").IsLocked(t0.Add(30*time.Minute)))

	s = repo.RecordFailure(ctx, "alice", until.Add(time.Second), window)
	assert.Equal(t, 1, s.FailedCount, "count restarts after the lock")

	repo.Reset(ctx, "Alice")
	assert.Zero(t, repo.Get(ctx, "alice").FailedCount)
	assert.Nil(t, repo.Get(ctx, "alice").LockedUntil)
}

func TestLoginAttemptRepository_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewLoginAttemptRepository()
	window := time.Minute

	repo.RecordFailure(ctx, "stale", t0, window)
	repo.RecordFailure(ctx, "fresh", t0.Add(59*time.Minute+30*time.Second), window)
	repo.RecordFailure(ctx, "locked", t0, window)
	repo.Lock(ctx, "locked", t0.Add(2*time.Hour))

	removed := repo.CleanupExpired(ctx, t0.Add(time.Hour), window)
	assert.Equal(t, 1, removed)
	assert.Zero(t, repo.Get(ctx, "stale").FailedCount)
	assert.Equal(t, 1, repo.Get(ctx, "fresh").FailedCount)
	assert.NotNil(t, repo.Get(ctx, "locked").LockedUntil)
}

func TestOTPRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOTPRepository()
	email := "alice@example.com"

	_, err := repo.Get(ctx, email, models.PurposeVerifyEmail)
	assert.ErrorIs(t, err, models.ErrNotFound)

	first := repo.Issue(ctx, email, models.PurposeVerifyEmail, t0.Add(10*time.Minute))
	second := repo.Issue(ctx, email, models.PurposeResetPassword, t0.Add(10*time.Minute))
	third := repo.Issue(ctx, email, models.PurposeVerifyEmail, t0.Add(10*time.Minute))
	assert.Less(t, first.Counter, second.Counter)
	assert.Less(t, second.Counter, third.Counter, "counters grow across purposes")

	got, err := repo.Get(ctx, email, models.PurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, third.Counter, got.Counter, "reissue replaces the challenge")

	assert.ErrorIs(t, repo.MarkUsed(ctx, email, models.PurposeVerifyEmail, first.Counter, t0), models.ErrInvalidOTP)
	require.NoError(t, repo.MarkUsed(ctx, email, models.PurposeVerifyEmail, third.Counter, t0))
	assert.ErrorIs(t, repo.MarkUsed(ctx, email, models.PurposeVerifyEmail, third.Counter, t0), models.ErrInvalidOTP, "codes are single use")

	removed := repo.CleanupExpired(ctx, t0.Add(time.Minute))
	assert.Equal(t, 1, removed, "only the used challenge goes")

	removed = repo.CleanupExpired(ctx, t0.Add(11*time.Minute))
	assert.Equal(t, 1, removed)
	_, err = repo.Get(ctx, email, models.PurposeResetPassword)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestContentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository()
	repo.Seed(t0)

	t.Run("author stats", func(t *testing.T) {
		empty := repo.AuthorStats(ctx, "nobody")
		assert.NotNil(t, empty.Daily)
		assert.Empty(t, empty.Daily)

		repo.SetAuthorStats("u-1", models.AuthorStats{TotalViews: 10, Daily: []models.DailyStat{{Date: "2025-03-01", Views: 10}}})
		stats := repo.AuthorStats(ctx, "u-1")
		stats.Daily[0].Views = 99
		assert.Equal(t, int64(10), repo.AuthorStats(ctx, "u-1").Daily[0].Views)
	})

	t.Run("moderation", func(t *testing.T) {
		items := repo.PendingItems(ctx)
		require.Len(t, items, 3)
		assert.Equal(t, "mod-1", items[0].ID, "oldest first")

		require.NoError(t, repo.Decide(ctx, "mod-2"))
		assert.Len(t, repo.PendingItems(ctx), 2)
		assert.ErrorIs(t, repo.Decide(ctx, "mod-2"), models.ErrNotFound)
	})

	t.Run("reports", func(t *testing.T) {
		require.Len(t, repo.OpenReports(ctx), 2)
		require.NoError(t, repo.Resolve(ctx, "rep-1"))
		assert.ErrorIs(t, repo.Resolve(ctx, "rep-1"), models.ErrConflict)
		assert.ErrorIs(t, repo.Resolve(ctx, "rep-9"), models.ErrNotFound)
		assert.Len(t, repo.OpenReports(ctx), 1)
	})

	t.Run("rates keep one active per currency", func(t *testing.T) {
		created := repo.CreateRate(ctx, models.RateRequest{Coins: 200, CashAmount: 1.9, Currency: "USD", Active: true}, t0)
		assert.NotEmpty(t, created.ID)

		active := 0
		for _, r := range repo.Rates(ctx) {
			if r.Currency == "USD" && r.Active {
				active++
				assert.Equal(t, created.ID, r.ID)
			}
		}
		assert.Equal(t, 1, active)

		updated, err := repo.UpdateRate(ctx, "rate-eur", models.RateRequest{Coins: 100, CashAmount: 0.95, Currency: "EUR", Active: true}, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, updated.Active)
		assert.Equal(t, t0.Add(time.Hour), updated.UpdatedAt)

		_, err = repo.UpdateRate(ctx, "rate-xxx", models.RateRequest{}, t0)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
