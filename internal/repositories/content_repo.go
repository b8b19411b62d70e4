package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	"github.com/google/uuid"
)

// ContentRepository holds the fixture data behind analytics, moderation,
// reports and conversion rates
type ContentRepository struct {
	mu      sync.RWMutex
	stats   map[string]models.AuthorStats // by author user id
	pending []models.ModerationItem
	reports []models.Report
	rates   []models.ConversionRate
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{stats: make(map[string]models.AuthorStats)}
}

// Seed loads a small, deterministic data set
func (r *ContentRepository) Seed(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = []models.ModerationItem{
		{ID: "mod-1", Title: "The Lantern Road", Author: "wren", Kind: models.KindNovel, SubmittedAt: now.Add(-3 * time.Hour)},
		{ID: "mod-2", Title: "Chapter 12: Ashfall", Author: "wren", Kind: models.KindChapter, SubmittedAt: now.Add(-2 * time.Hour)},
		{ID: "mod-3", Title: "Chapter 3: Tidewater", Author: "okafor", Kind: models.KindChapter, SubmittedAt: now.Add(-time.Hour)},
	}
	r.reports = []models.Report{
		{ID: "rep-1", TargetType: "chapter", TargetID: "ch-88", Reason: "plagiarism", Reporter: "mika", Status: models.ReportOpen, CreatedAt: now.Add(-26 * time.Hour)},
		{ID: "rep-2", TargetType: "comment", TargetID: "cm-301", Reason: "harassment", Reporter: "jules", Status: models.ReportOpen, CreatedAt: now.Add(-5 * time.Hour)},
	}
	r.rates = []models.ConversionRate{
		{ID: "rate-usd", Coins: 100, CashAmount: 1, Currency: "USD", Active: true, UpdatedAt: now},
		{ID: "rate-eur", Coins: 100, CashAmount: 0.92, Currency: "EUR", Active: false, UpdatedAt: now},
	}
}

// SetAuthorStats installs the dashboard figures for an author
func (r *ContentRepository) SetAuthorStats(userID string, stats models.AuthorStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[userID] = stats
}

// AuthorStats returns an author's figures; unknown authors get empty stats
func (r *ContentRepository) AuthorStats(ctx context.Context, userID string) models.AuthorStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats, ok := r.stats[userID]
	if !ok {
		return models.AuthorStats{Daily: []models.DailyStat{}}
	}
	stats.Daily = append([]models.DailyStat{}, stats.Daily...)
	return stats
}

func (r *ContentRepository) PendingItems(ctx context.Context) []models.ModerationItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := append([]models.ModerationItem{}, r.pending...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SubmittedAt.Before(items[j].SubmittedAt) })
	return items
}

// Decide removes a pending item; approve and reject look the same here
func (r *ContentRepository) Decide(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.pending {
		if item.ID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("moderation item %q: %w", id, models.ErrNotFound)
}

// OpenReports lists unresolved reports
func (r *ContentRepository) OpenReports(ctx context.Context) []models.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		if rep.Status == models.ReportOpen {
			out = append(out, rep)
		}
	}
	return out
}

// Resolve closes an open report; a resolved report conflicts
func (r *ContentRepository) Resolve(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reports {
		if r.reports[i].ID != id {
			continue
		}
		if r.reports[i].Status != models.ReportOpen {
			return fmt.Errorf("report %q already resolved: %w", id, models.ErrConflict)
		}
		r.reports[i].Status = models.ReportResolved
		return nil
	}
	return fmt.Errorf("report %q: %w", id, models.ErrNotFound)
}

func (r *ContentRepository) Rates(ctx context.Context) []models.ConversionRate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ConversionRate{}, r.rates...)
}

// CreateRate adds a rate. Only one rate per currency may be active.
func (r *ContentRepository) CreateRate(ctx context.Context, req models.RateRequest, now time.Time) models.ConversionRate {
	r.mu.Lock()
	defer r.mu.Unlock()

	rate := models.ConversionRate{
		ID:         "rate-" + uuid.New().String()[:8],
		Coins:      req.Coins,
		CashAmount: req.CashAmount,
		Currency:   req.Currency,
		Active:     req.Active,
		UpdatedAt:  now,
	}
	if rate.Active {
		r.deactivateLocked(rate.Currency)
	}
	r.rates = append(r.rates, rate)
	return rate
}

func (r *ContentRepository) UpdateRate(ctx context.Context, id string, req models.RateRequest, now time.Time) (models.ConversionRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rates {
		if r.rates[i].ID != id {
			continue
		}
		if req.Active {
			r.deactivateLocked(req.Currency)
		}
		r.rates[i].Coins = req.Coins
		r.rates[i].CashAmount = req.CashAmount
		r.rates[i].Currency = req.Currency
		r.rates[i].Active = req.Active
		r.rates[i].UpdatedAt = now
		return r.rates[i], nil
	}
	return models.ConversionRate{}, fmt.Errorf("conversion rate %q: %w", id, models.ErrNotFound)
}

func (r *ContentRepository) deactivateLocked(currency string) {
	for i := range r.rates {
		if r.rates[i].Currency == currency {
			r.rates[i].Active = false
		}
	}
}
