package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "test-secret-32-characters-long!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOLIO_API_URL", "")
	t.Setenv("FOLIO_SESSION_FILE", "/tmp/folio/session.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Client.APIURL)
	assert.Equal(t, "/tmp/folio/session.json", cfg.Client.SessionFile)
	assert.Equal(t, 15*time.Second, cfg.Client.HTTPTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.HintDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Client.RedirectDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("FOLIO_API_URL", "https://api.folio.example/")
	t.Setenv("FOLIO_SESSION_FILE", "/tmp/s.json")
	t.Setenv("FOLIO_HTTP_TIMEOUT", "3s")
	t.Setenv("FOLIO_HINT_DELAY", "0s")
	t.Setenv("FOLIO_REDIRECT_DELAY", "2s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.folio.example", cfg.Client.APIURL, "trailing slash trimmed")
	assert.Equal(t, 3*time.Second, cfg.Client.HTTPTimeout)
	assert.Equal(t, time.Duration(0), cfg.Client.HintDelay)
	assert.Equal(t, 2*time.Second, cfg.Client.RedirectDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("relative api url", func(t *testing.T) {
		t.Setenv("FOLIO_API_URL", "api/v1")
		_, err := Load()
		assert.ErrorContains(t, err, "FOLIO_API_URL")
	})

	t.Run("invalid duration falls back", func(t *testing.T) {
		t.Setenv("FOLIO_API_URL", "")
		t.Setenv("FOLIO_SESSION_FILE", "/tmp/s.json")
		t.Setenv("FOLIO_HTTP_TIMEOUT", "soon")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, cfg.Client.HTTPTimeout)
	})

	t.Run("zero timeout rejected", func(t *testing.T) {
		t.Setenv("FOLIO_API_URL", "")
		t.Setenv("FOLIO_SESSION_FILE", "/tmp/s.json")
		t.Setenv("FOLIO_HTTP_TIMEOUT", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "FOLIO_HTTP_TIMEOUT")
	})
}

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 30, cfg.AuthRatePerMin)
	assert.Equal(t, 5, cfg.Lockout.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Lockout.Duration)
	assert.Equal(t, LockoutModeJSON, cfg.Lockout.Mode)
	assert.Equal(t, strongSecret, cfg.Auth.OTPSecret, "OTP secret defaults to the JWT secret")
	assert.Empty(t, cfg.Mail.AWSRegion)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 200*time.Millisecond, cfg.Auth.TimingBase)
}

func TestLoadServer_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "0s")
	t.Setenv("LOCKOUT_MAX_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_DURATION", "30s")
	t.Setenv("LOCKOUT_MODE", "PLAIN")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("EMAIL_FROM", "otp@folio.example")
	t.Setenv("OTP_SECRET", "another-secret-value")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "10")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.ReadTimeout, "explicit 0s is honored")
	assert.Equal(t, 3, cfg.Lockout.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Lockout.Duration)
	assert.Equal(t, LockoutModePlain, cfg.Lockout.Mode)
	assert.Equal(t, "eu-west-1", cfg.Mail.AWSRegion)
	assert.Equal(t, "otp@folio.example", cfg.Mail.From)
	assert.Equal(t, "another-secret-value", cfg.Auth.OTPSecret)
	assert.Equal(t, 10, cfg.AuthRatePerMin)
}

func TestLoadServer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET is required"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 16 characters"},
		{"short secret in production", map[string]string{"JWT_SECRET": "sixteen-chars-ok!", "ENV": "production"}, "at least 32 characters"},
		{"bad lockout mode", map[string]string{"JWT_SECRET": strongSecret, "LOCKOUT_MODE": "xml"}, "LOCKOUT_MODE"},
		{"zero attempts", map[string]string{"JWT_SECRET": strongSecret, "LOCKOUT_MAX_ATTEMPTS": "0"}, "LOCKOUT_MAX_ATTEMPTS"},
		{"zero rate", map[string]string{"JWT_SECRET": strongSecret, "AUTH_RATE_LIMIT_PER_MINUTE": "0"}, "AUTH_RATE_LIMIT_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadServer()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateJWTSecret_WeakValues(t *testing.T) {
	assert.NoError(t, validateJWTSecret(strongSecret, "development"))
	assert.Error(t, validateJWTSecret("changeme", "development"))
}

func TestParseAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseAllowedOrigins("production"))
	assert.Contains(t, parseAllowedOrigins("development"), "http://localhost:5173")
}
