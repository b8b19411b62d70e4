package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/folio/internal/handlers"
	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/repositories"
	pkghttp "github.com/BradenHooton/folio/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentHandler(t *testing.T) (*handlers.ContentHandler, *repositories.ContentRepository) {
	t.Helper()
	repo := repositories.NewContentRepository()
	repo.Seed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	return handlers.NewContentHandler(repo, discardLogger()), repo
}

func TestContent_AuthorStats(t *testing.T) {
	h, repo := newContentHandler(t)
	repo.SetAuthorStats("u1", models.AuthorStats{TotalViews: 900, Followers: 12})

	w := httptest.NewRecorder()
	req := handlers.WithAuthContext(httptest.NewRequest(http.MethodGet, "/api/analytics/author", nil), "u1", "alice", models.RoleAuthor)
	h.AuthorStats(w, req)

	var stats models.AuthorStats
	handlers.AssertJSONResponse(t, w, http.StatusOK, &stats)
	assert.Equal(t, int64(900), stats.TotalViews)
	assert.Equal(t, 12, stats.Followers)
}

func TestContent_ApproveAndReject(t *testing.T) {
	h, repo := newContentHandler(t)
	ctx := context.Background()
	before := len(repo.PendingItems(ctx))
	require.Positive(t, before)

	w := httptest.NewRecorder()
	req := handlers.WithChiRouteContext(httptest.NewRequest(http.MethodPost, "/api/moderation/mod-1/approve", nil), map[string]string{"id": "mod-1"})
	h.Approve(w, req)
	handlers.AssertJSONResponse(t, w, http.StatusOK, nil)
	assert.Len(t, repo.PendingItems(ctx), before-1)

	w = httptest.NewRecorder()
	req = handlers.WithChiRouteContext(httptest.NewRequest(http.MethodPost, "/api/moderation/mod-1/approve", nil), map[string]string{"id": "mod-1"})
	h.Approve(w, req)
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")

	w = httptest.NewRecorder()
	req = handlers.WithChiRouteContext(handlers.NewTestRequest(t, http.MethodPost, "/api/moderation/mod-2/reject", models.RejectRequest{}), map[string]string{"id": "mod-2"})
	h.Reject(w, req)
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")

	w = httptest.NewRecorder()
	req = handlers.WithChiRouteContext(handlers.NewTestRequest(t, http.MethodPost, "/api/moderation/mod-2/reject", models.RejectRequest{Reason: "spam"}), map[string]string{"id": "mod-2"})
	h.Reject(w, req)
	handlers.AssertJSONResponse(t, w, http.StatusOK, nil)
	assert.Len(t, repo.PendingItems(ctx), before-2)
}

func TestContent_ResolveReport(t *testing.T) {
	h, _ := newContentHandler(t)

	resolve := func(id, action string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := handlers.NewTestRequest(t, http.MethodPost, "/api/reports/"+id+"/resolve", models.ResolveRequest{Action: action})
		h.ResolveReport(w, handlers.WithChiRouteContext(req, map[string]string{"id": id}))
		return w
	}

	handlers.AssertErrorResponse(t, resolve("rep-1", "ban"), http.StatusBadRequest, "validation_failed")
	handlers.AssertJSONResponse(t, resolve("rep-1", models.ActionDismiss), http.StatusOK, nil)
	handlers.AssertErrorResponse(t, resolve("rep-1", models.ActionDismiss), http.StatusConflict, "conflict")
	handlers.AssertErrorResponse(t, resolve("rep-9", models.ActionWarn), http.StatusNotFound, "not_found")

	w := httptest.NewRecorder()
	h.Reports(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	var open []models.Report
	handlers.AssertJSONResponse(t, w, http.StatusOK, &open)
	for _, r := range open {
		assert.NotEqual(t, "rep-1", r.ID)
	}
}

func TestContent_Rates(t *testing.T) {
	h, _ := newContentHandler(t)

	w := httptest.NewRecorder()
	h.CreateRate(w, handlers.NewTestRequest(t, http.MethodPost, "/api/conversion-rates", models.RateRequest{
		Coins: 100, CashAmount: 0.9, Currency: " usd ", Active: true,
	}))
	var created models.ConversionRate
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &created)
	assert.Equal(t, "USD", created.Currency)
	assert.True(t, created.Active)

	w = httptest.NewRecorder()
	h.Rates(w, httptest.NewRequest(http.MethodGet, "/api/conversion-rates", nil))
	var rates []models.ConversionRate
	handlers.AssertJSONResponse(t, w, http.StatusOK, &rates)
	active := 0
	for _, r := range rates {
		if r.Currency == "USD" && r.Active {
			active++
		}
	}
	assert.Equal(t, 1, active, "one active rate per currency")

	w = httptest.NewRecorder()
	h.CreateRate(w, handlers.NewTestRequest(t, http.MethodPost, "/api/conversion-rates", models.RateRequest{Coins: 0, CashAmount: 1, Currency: "USD"}))
	var resp pkghttp.ErrorResponse
	handlers.AssertJSONResponse(t, w, http.StatusBadRequest, &resp)
	assert.Equal(t, "coins", resp.Details)

	w = httptest.NewRecorder()
	req := handlers.NewTestRequest(t, http.MethodPut, "/api/conversion-rates/nope", models.RateRequest{Coins: 1, CashAmount: 1, Currency: "EUR"})
	h.UpdateRate(w, handlers.WithChiRouteContext(req, map[string]string{"id": "nope"}))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")

	w = httptest.NewRecorder()
	req = handlers.NewTestRequest(t, http.MethodPut, "/api/conversion-rates/rate-eur", models.RateRequest{Coins: 50, CashAmount: 0.4, Currency: "eur", Active: true})
	h.UpdateRate(w, handlers.WithChiRouteContext(req, map[string]string{"id": "rate-eur"}))
	var updated models.ConversionRate
	handlers.AssertJSONResponse(t, w, http.StatusOK, &updated)
	assert.Equal(t, int64(50), updated.Coins)
	assert.Equal(t, "EUR", updated.Currency)
}

func TestContent_EscapedID(t *testing.T) {
	h, _ := newContentHandler(t)
	w := httptest.NewRecorder()
	req := handlers.WithChiRouteContext(httptest.NewRequest(http.MethodPost, "/api/moderation/x/approve", nil), map[string]string{"id": "%zz"})
	h.Approve(w, req)
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}
