package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/folio/internal/session"
	"github.com/joho/godotenv"
)

// Config is the folio client configuration
type Config struct {
	Client ClientConfig
	Log    LogConfig
}

type ClientConfig struct {
	APIURL        string
	SessionFile   string
	HTTPTimeout   time.Duration
	HintDelay     time.Duration
	RedirectDelay time.Duration
}

type LogConfig struct {
	Level string
	Env   string
}

// ServerConfig configures the devbackend
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	AuthRatePerMin int
	Auth           AuthConfig
	Lockout        LockoutConfig
	Mail           MailConfig
}

type AuthConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	OTPSecret         string
	OTPExpiry         time.Duration
	BcryptCost        int
	TimingBase        time.Duration // failed logins take at least this long
	TimingJitter      time.Duration
}

// LockoutMode selects how the devbackend reports a locked account
type LockoutMode string

const (
	LockoutModeJSON  LockoutMode = "json"
	LockoutModePlain LockoutMode = "plain"
)

type LockoutConfig struct {
	MaxAttempts     int
	Window          time.Duration
	Duration        time.Duration
	Mode            LockoutMode
	CleanupInterval time.Duration
}

type MailConfig struct {
	AWSRegion string
	From      string
}

// Load reads the client configuration from the environment and .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiURL := strings.TrimRight(getEnv("FOLIO_API_URL", "http://localhost:8080"), "/")
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("FOLIO_API_URL must be an absolute URL (got %q)", apiURL)
	}

	sessionFile := getEnv("FOLIO_SESSION_FILE", "")
	if sessionFile == "" {
		sessionFile, err = session.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locating session file: %w", err)
		}
	}

	cfg := &Config{
		Client: ClientConfig{
			APIURL:        apiURL,
			SessionFile:   sessionFile,
			HTTPTimeout:   getEnvAsDuration("FOLIO_HTTP_TIMEOUT", 15*time.Second),
			HintDelay:     getEnvAsDuration("FOLIO_HINT_DELAY", 100*time.Millisecond),
			RedirectDelay: getEnvAsDuration("FOLIO_REDIRECT_DELAY", 800*time.Millisecond),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("ENV", "development"),
		},
	}

	if cfg.Client.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("FOLIO_HTTP_TIMEOUT must be positive")
	}

	return cfg, nil
}

// LoadServer reads the devbackend configuration
func LoadServer() (*ServerConfig, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	mode := LockoutMode(strings.ToLower(getEnv("LOCKOUT_MODE", string(LockoutModeJSON))))
	if mode != LockoutModeJSON && mode != LockoutModePlain {
		return nil, fmt.Errorf("LOCKOUT_MODE must be %q or %q (got %q)", LockoutModeJSON, LockoutModePlain, mode)
	}

	cfg := &ServerConfig{
		Port:           getEnv("PORT", "8080"),
		Env:            env,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		AllowedOrigins: parseAllowedOrigins(env),
		AuthRatePerMin: getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 30),
		Auth: AuthConfig{
			JWTSecret:         jwtSecret,
			AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			OTPSecret:         getEnv("OTP_SECRET", jwtSecret),
			OTPExpiry:         getEnvAsDuration("OTP_EXPIRY", 10*time.Minute),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			TimingBase:        getEnvAsDuration("LOGIN_TIMING_BASE", 200*time.Millisecond),
			TimingJitter:      getEnvAsDuration("LOGIN_TIMING_JITTER", 50*time.Millisecond),
		},
		Lockout: LockoutConfig{
			MaxAttempts:     getEnvAsInt("LOCKOUT_MAX_ATTEMPTS", 5),
			Window:          getEnvAsDuration("LOCKOUT_WINDOW", 15*time.Minute),
			Duration:        getEnvAsDuration("LOCKOUT_DURATION", 60*time.Second),
			Mode:            mode,
			CleanupInterval: getEnvAsDuration("LOCKOUT_CLEANUP_INTERVAL", time.Minute),
		},
		Mail: MailConfig{
			AWSRegion: getEnv("AWS_REGION", ""),
			From:      getEnv("EMAIL_FROM", "no-reply@folio.local"),
		},
	}

	if cfg.Lockout.MaxAttempts < 1 {
		return nil, fmt.Errorf("LOCKOUT_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.AuthRatePerMin < 1 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT_PER_MINUTE must be at least 1")
	}

	// Validate JWT secret strength
	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
