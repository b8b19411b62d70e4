package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/background"
	"github.com/BradenHooton/folio/internal/config"
	"github.com/BradenHooton/folio/internal/handlers"
	middlewareCustom "github.com/BradenHooton/folio/internal/middleware"
	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/repositories"
	"github.com/BradenHooton/folio/internal/routes"
	"github.com/BradenHooton/folio/internal/services"
	pkgauth "github.com/BradenHooton/folio/pkg/auth"
	pkghttp "github.com/BradenHooton/folio/pkg/http"
	pkglogger "github.com/BradenHooton/folio/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// demoAccounts are seeded on start so the client has someone to log in as
var demoAccounts = []struct {
	username string
	role     string
}{
	{"alice", models.RoleAuthor},
	{"mod", models.RoleModerator},
	{"admin", models.RoleAdmin},
	{"reader", models.RoleReader},
}

// demoPassword is shared by every seeded account
const demoPassword = "folio-demo-pass"

type app struct {
	handler http.Handler
	cleanup *background.CleanupManager
	users   *repositories.UserRepository
}

// newApp wires repositories, services, handlers and the router
func newApp(ctx context.Context, cfg *config.ServerConfig, mailer services.EmailService, logger *slog.Logger) (*app, error) {
	userRepo := repositories.NewUserRepository()
	attemptRepo := repositories.NewLoginAttemptRepository()
	otpRepo := repositories.NewOTPRepository()
	contentRepo := repositories.NewContentRepository()
	contentRepo.Seed(time.Now())

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	otpManager, err := auth.NewOTPManager(cfg.Auth.OTPSecret)
	if err != nil {
		return nil, err
	}

	auditLogger := pkglogger.NewAuditLogger(logger)
	hasher := pkgauth.NewHasher(cfg.Auth.BcryptCost)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		Base:   cfg.Auth.TimingBase,
		Jitter: cfg.Auth.TimingJitter,
	})

	lockoutService := services.NewLockoutService(attemptRepo, services.LockoutConfig{
		MaxAttempts: cfg.Lockout.MaxAttempts,
		Window:      cfg.Lockout.Window,
		Duration:    cfg.Lockout.Duration,
	}, logger)
	authService := services.NewAuthService(userRepo, tokenManager, lockoutService, timingDelay, hasher, logger, auditLogger)
	accountService := services.NewAccountService(userRepo, otpRepo, otpManager, mailer, lockoutService, hasher,
		cfg.Auth.OTPExpiry, logger, auditLogger)

	if err := seedAccounts(ctx, userRepo, contentRepo, hasher, logger); err != nil {
		return nil, err
	}

	cookieConfig := auth.CookieConfig{Secure: cfg.Env == "production", SameSite: "lax"}
	authHandler := handlers.NewAuthHandler(authService, accountService, cfg.Lockout.Mode, cookieConfig, logger)
	contentHandler := handlers.NewContentHandler(contentRepo, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, contentHandler, tokenManager,
		middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.AuthRatePerMin})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	cleanup := background.NewCleanupManager(logger, cfg.Lockout.CleanupInterval,
		background.SweepFunc{Label: "login_attempts", Fn: lockoutService.Cleanup},
		background.SweepFunc{Label: "otp_challenges", Fn: func(ctx context.Context) int {
			return otpRepo.CleanupExpired(ctx, time.Now())
		}},
	)

	return &app{handler: router, cleanup: cleanup, users: userRepo}, nil
}

// seedAccounts creates the verified demo accounts and alice's dashboard
func seedAccounts(ctx context.Context, users *repositories.UserRepository, content *repositories.ContentRepository, hasher *pkgauth.Hasher, logger *slog.Logger) error {
	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	for _, acct := range demoAccounts {
		u, err := users.Create(ctx, &models.User{
			Username:      acct.username,
			Email:         acct.username + "@folio.local",
			PasswordHash:  hash,
			Role:          acct.role,
			EmailVerified: true,
		})
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", acct.username, err)
		}
		if acct.role == models.RoleAuthor {
			content.SetAuthorStats(u.ID, demoStats(time.Now()))
		}
	}

	logger.Info("demo accounts seeded", slog.Int("count", len(demoAccounts)))
	return nil
}

func demoStats(now time.Time) models.AuthorStats {
	stats := models.AuthorStats{TotalChapters: 42, Followers: 318}
	for i := 6; i >= 0; i-- {
		day := models.DailyStat{
			Date:  now.AddDate(0, 0, -i).Format("2006-01-02"),
			Views: int64(1200 + 150*(6-i)),
			Coins: int64(40 + 5*(6-i)),
		}
		stats.TotalViews += day.Views
		stats.TotalCoins += day.Coins
		stats.Daily = append(stats.Daily, day)
	}
	return stats
}
