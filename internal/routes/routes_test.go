package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/config"
	"github.com/BradenHooton/folio/internal/handlers"
	"github.com/BradenHooton/folio/internal/middleware"
	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tm := auth.NewTokenManager("routes-test-secret-0123456789", time.Minute)

	content := repositories.NewContentRepository()
	content.Seed(time.Now())

	authHandler := handlers.NewAuthHandler(&handlers.MockAuthService{}, &handlers.MockAccountService{},
		config.LockoutModeJSON, auth.CookieConfig{}, logger)
	contentHandler := handlers.NewContentHandler(content, logger)

	r := chi.NewRouter()
	RegisterRoutes(r, authHandler, contentHandler, tm, middleware.RateLimitConfig{RequestsPerMinute: 100})
	return r, tm
}

func tokenFor(t *testing.T, tm *auth.TokenManager, role string) string {
	t.Helper()
	token, _, err := tm.GenerateAccessToken(&models.User{ID: "u-" + role, Username: role, Role: role})
	require.NoError(t, err)
	return token
}

func TestRoutes_RoleGates(t *testing.T) {
	router, tm := newRouter(t)

	tests := []struct {
		method string
		path   string
		role   string
		want   int
	}{
		{http.MethodGet, "/api/moderation/pending", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/moderation/pending", models.RoleReader, http.StatusForbidden},
		{http.MethodGet, "/api/moderation/pending", models.RoleModerator, http.StatusOK},
		{http.MethodGet, "/api/reports", models.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/api/conversion-rates", models.RoleModerator, http.StatusForbidden},
		{http.MethodGet, "/api/conversion-rates", models.RoleAdmin, http.StatusOK},
		{http.MethodGet, "/api/analytics/author", models.RoleAuthor, http.StatusOK},
		{http.MethodGet, "/api/analytics/author", models.RoleModerator, http.StatusForbidden},
		{http.MethodGet, "/api/auth/me", models.RoleReader, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.role, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, tt.role))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoutes_EscapedModerationID(t *testing.T) {
	router, tm := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/moderation/mod%2D1/approve", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.RoleModerator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_PublicAuth(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"x"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", w.Body.String())
}
