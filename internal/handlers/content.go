package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/models"
	pkghttp "github.com/BradenHooton/folio/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ContentRepository defines the platform content storage behind the portal
type ContentRepository interface {
	AuthorStats(ctx context.Context, userID string) models.AuthorStats
	PendingItems(ctx context.Context) []models.ModerationItem
	Decide(ctx context.Context, id string) error
	OpenReports(ctx context.Context) []models.Report
	Resolve(ctx context.Context, id string) error
	Rates(ctx context.Context) []models.ConversionRate
	CreateRate(ctx context.Context, req models.RateRequest, now time.Time) models.ConversionRate
	UpdateRate(ctx context.Context, id string, req models.RateRequest, now time.Time) (models.ConversionRate, error)
}

// ContentHandler serves analytics, moderation, reports and conversion rates
type ContentHandler struct {
	repo   ContentRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(repo ContentRepository, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{repo: repo, logger: logger, now: time.Now}
}

// AuthorStats returns the dashboard numbers for the calling author
func (h *ContentHandler) AuthorStats(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, h.repo.AuthorStats(r.Context(), claims.UserID))
}

func (h *ContentHandler) PendingItems(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.repo.PendingItems(r.Context()))
}

func (h *ContentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Decide(r.Context(), id); err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("moderation item approved", slog.String("item_id", id), slog.String("moderator", moderator(r)))
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Approved"})
}

func (h *ContentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.RejectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.repo.Decide(r.Context(), id); err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("moderation item rejected",
		slog.String("item_id", id),
		slog.String("moderator", moderator(r)),
		slog.String("reason", req.Reason))
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Rejected"})
}

func (h *ContentHandler) Reports(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.repo.OpenReports(r.Context()))
}

func (h *ContentHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.ResolveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.repo.Resolve(r.Context(), id); err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("report resolved",
		slog.String("report_id", id),
		slog.String("action", req.Action),
		slog.String("moderator", moderator(r)))
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Report resolved"})
}

func (h *ContentHandler) Rates(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.repo.Rates(r.Context()))
}

func (h *ContentHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	var req models.RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if errs := ValidateRequest(req); len(errs) > 0 {
		pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "validation_failed", errs[0].Message, errs[0].Field)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, h.repo.CreateRate(r.Context(), req, h.now()))
}

func (h *ContentHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.RateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if errs := ValidateRequest(req); len(errs) > 0 {
		pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "validation_failed", errs[0].Message, errs[0].Field)
		return
	}
	rate, err := h.repo.UpdateRate(r.Context(), id, req, h.now())
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, rate)
}

func (h *ContentHandler) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Already resolved")
	default:
		h.logger.Error("content operation failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// pathID reads the {id} route parameter; clients path-escape it
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		pkghttp.WriteBadRequest(w, "Invalid id")
		return "", false
	}
	return id, true
}

func moderator(r *http.Request) string {
	if claims := auth.GetUserFromContext(r); claims != nil {
		return claims.Username
	}
	return ""
}
