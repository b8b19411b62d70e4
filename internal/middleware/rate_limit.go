package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	pkghttp "github.com/BradenHooton/folio/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAuthRateLimit returns the default limit for the public auth endpoints
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 30}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// RateLimitLogin limits login attempts per username regardless of the
// client address. It sits behind RateLimitByIP on the login route.
func RateLimitLogin(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(loginUsernameKey),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// loginUsernameKey keys on the lowercased username in the JSON body. The
// body is restored for the handler.
func loginUsernameKey(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	raw, err := readAllLimited(r)
	if err != nil {
		return "", nil
	}
	r.Body = readCloser{bytes.NewReader(raw)}

	var body struct {
		Username string `json:"username"`
	}
	_ = json.Unmarshal(raw, &body)
	return "user:" + strings.ToLower(strings.TrimSpace(body.Username)), nil
}

// tooManyRequests writes the JSON error; httprate has already set the
// Retry-After and X-RateLimit-* headers
func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Too many requests. Please slow down and try again shortly.")
}
