package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/BradenHooton/folio/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI records the calls it receives and answers a small fixed surface
type stubAPI struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]string
}

func (s *stubAPI) record(r *http.Request) {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Method + " " + r.URL.EscapedPath()
	s.calls = append(s.calls, key+" auth="+r.Header.Get("Authorization"))
	if s.bodies == nil {
		s.bodies = map[string]string{}
	}
	s.bodies[key] = buf.String()
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) Body(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newStubServer(t *testing.T) (*stubAPI, *httptest.Server) {
	t.Helper()
	stub := &stubAPI{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		if !strings.Contains(stub.Body("POST /api/auth/login"), `"password":"folio-demo-pass"`) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid username or password"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"userId": "u-1", "username": "alice", "accessToken": "opaque-token"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		if r.Header.Get("Authorization") != "Bearer opaque-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Authentication required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": "u-1", "username": "alice", "role": "author"})
	})
	mux.HandleFunc("GET /api/conversion-rates", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "rate-1", "coins": 100, "cashAmount": 0.99, "currency": "USD", "active": true},
		})
	})
	mux.HandleFunc("POST /api/moderation/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Rejected"})
	})
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "If the address is registered, a reset code has been sent"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return stub, srv
}

func setupEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("FOLIO_API_URL", apiURL)
	t.Setenv("FOLIO_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("FOLIO_HINT_DELAY", "0s")
	t.Setenv("FOLIO_REDIRECT_DELAY", "0s")
	t.Setenv("LOG_LEVEL", "error")
}

func runCLI(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI("")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: folio <command>")
	assert.Contains(t, stderr, "moderation")

	code, _, stderr = runCLI("", "publish")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "publish"`)
}

func TestRun_BadFlag(t *testing.T) {
	_, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, _, stderr := runCLI("", "login", "-bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: folio login")
}

func TestRun_WhoamiWithoutSession(t *testing.T) {
	_, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, _, stderr := runCLI("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not signed in")
}

func TestRun_LoginWhoamiLogout(t *testing.T) {
	stub, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, stdout, stderr := runCLI("folio-demo-pass\n", "login", "-u", "alice")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Signed in as alice.")

	code, stdout, _ = runCLI("", "whoami")
	require.Equal(t, 0, code)
	assert.Equal(t, "alice (author)\n", stdout)
	assert.Contains(t, stub.Calls(), "GET /api/auth/me auth=Bearer opaque-token")

	code, stdout, _ = runCLI("", "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed out.")

	code, _, stderr = runCLI("", "whoami", "-offline")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not signed in")
}

func TestRun_LoginRejected(t *testing.T) {
	_, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, _, stderr := runCLI("alice\nwrong-pass\n", "login")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Invalid username or password")

	code, _, _ = runCLI("", "whoami", "-offline")
	assert.Equal(t, 1, code, "a failed login stores nothing")
}

func TestRun_LoginValidation(t *testing.T) {
	stub, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, _, stderr := runCLI("\n\n", "login", "-plain")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "check the highlighted fields")
	assert.Empty(t, stub.Calls(), "invalid input never reaches the server")
}

func TestRun_RatesList(t *testing.T) {
	_, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, stdout, stderr := runCLI("", "rates")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "CURRENCY")
	assert.Contains(t, stdout, "rate-1")
	assert.Contains(t, stdout, "0.99")
	assert.Contains(t, stdout, "yes")
}

func TestRun_ModerationReject(t *testing.T) {
	stub, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, stdout, stderr := runCLI("", "moderation", "reject", "ch-9", "-reason", "spam")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Rejected ch-9.")
	assert.JSONEq(t, `{"reason":"spam"}`, stub.Body("POST /api/moderation/ch-9/reject"))

	code, _, stderr = runCLI("", "moderation", "reject")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "an id is required")

	code, _, _ = runCLI("", "moderation", "shelve")
	assert.Equal(t, 2, code)
}

func TestRun_ForgotPromptsForEmail(t *testing.T) {
	stub, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	code, stdout, stderr := runCLI("Alice@Example.com\n", "forgot")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "If the address is registered")
	assert.JSONEq(t, `{"email":"alice@example.com"}`, stub.Body("POST /api/auth/forgot-password"))
}

func TestRun_RevokedSession(t *testing.T) {
	_, srv := newStubServer(t)
	setupEnv(t, srv.URL)

	store, err := session.NewFileStore(os.Getenv("FOLIO_SESSION_FILE"))
	require.NoError(t, err)
	_, err = session.Save(store, []byte(`{"userId":"u-1","username":"alice","accessToken":"revoked-token"}`))
	require.NoError(t, err)

	code, _, stderr := runCLI("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "your session has expired")

	_, err = session.Load(store)
	assert.ErrorIs(t, err, session.ErrNotFound, "a rejected token clears the session")
}
