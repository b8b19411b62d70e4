package routes

import (
	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/handlers"
	"github.com/BradenHooton/folio/internal/middleware"
	"github.com/BradenHooton/folio/internal/models"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	tokenManager *auth.TokenManager,
	rateLimitConfig middleware.RateLimitConfig,
) {
	router.Route("/api", func(r chi.Router) {
		// Public routes - no authentication required
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimitConfig))

			r.With(middleware.RateLimitLogin(rateLimitConfig)).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/register", authHandler.Register)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/resend-otp", authHandler.ResendOTP)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// Protected routes - authentication required
		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(tokenManager))

			r.Get("/auth/me", authHandler.Me)

			r.With(auth.RequireRole(models.RoleAuthor, models.RoleAdmin)).
				Get("/analytics/author", contentHandler.AuthorStats)

			// Moderation desk
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleModerator, models.RoleAdmin))
				r.Get("/moderation/pending", contentHandler.PendingItems)
				r.Post("/moderation/{id}/approve", contentHandler.Approve)
				r.Post("/moderation/{id}/reject", contentHandler.Reject)
				r.Get("/reports", contentHandler.Reports)
				r.Post("/reports/{id}/resolve", contentHandler.ResolveReport)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin))
				r.Get("/conversion-rates", contentHandler.Rates)
				r.Post("/conversion-rates", contentHandler.CreateRate)
				r.Put("/conversion-rates/{id}", contentHandler.UpdateRate)
			})
		})
	})
}
