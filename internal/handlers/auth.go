package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/folio/internal/auth"
	"github.com/BradenHooton/folio/internal/config"
	"github.com/BradenHooton/folio/internal/models"
	"github.com/BradenHooton/folio/internal/services"
	pkgauth "github.com/BradenHooton/folio/pkg/auth"
	pkghttp "github.com/BradenHooton/folio/pkg/http"
)

// Login failure bodies. Clients show these verbatim, so they are plain text.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgLocked             = "Account is temporarily locked due to too many failed login attempts. Please try again later."
	msgEmailNotVerified   = "Please verify your email address before logging in"
)

// AuthServiceInterface defines the interface for login
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

// AccountServiceInterface defines the interface for account lifecycle
type AccountServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service     AuthServiceInterface
	accounts    AccountServiceInterface
	lockoutMode config.LockoutMode
	cookie      auth.CookieConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	service AuthServiceInterface,
	accounts AccountServiceInterface,
	lockoutMode config.LockoutMode,
	cookie auth.CookieConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:     service,
		accounts:    accounts,
		lockoutMode: lockoutMode,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required" label:"Username"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Login handles user login. Failures are plain text; a lockout is a 423
// JSON body in json mode and a 401 text body in plain mode.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := ValidateRequest(req); len(errs) > 0 {
		pkghttp.WriteText(w, http.StatusBadRequest, errs[0].Message)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var locked *services.LockedError
		switch {
		case errors.As(err, &locked):
			h.writeLocked(w, locked.SecondsRemaining)
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteText(w, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteText(w, http.StatusForbidden, msgEmailNotVerified)
		default:
			h.logger.Error("login failed", slog.Any("error", err))
			pkghttp.WriteText(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	auth.SetSessionCookie(w, result.Response.AccessToken, result.ExpiresAt, h.cookie)
	pkghttp.WriteJSON(w, http.StatusOK, result.Response)
}

func (h *AuthHandler) writeLocked(w http.ResponseWriter, seconds int) {
	if h.lockoutMode == config.LockoutModePlain {
		pkghttp.WriteText(w, http.StatusUnauthorized, msgLocked)
		return
	}
	pkghttp.WriteLocked(w, msgLocked, seconds)
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookie)
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Me returns the identity carried by the caller's token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"id":       claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// Register creates an account and mails a verification code
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		var pwErr *pkgauth.PasswordValidationError
		switch {
		case errors.As(err, &pwErr):
			pkghttp.WriteBadRequest(w, "Password "+strings.Join(pwErr.Errors, "; "))
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "Username or email is already registered")
		default:
			h.logger.Error("registration failed", slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, models.MessageResponse{
		Message: "Account created. Check your email for a verification code.",
	})
}

// VerifyOTP confirms an email address
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.writeCodeError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Email verified. You can now log in."})
}

// ResendOTP mails a fresh verification code. The reply never says whether
// the address is registered.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.ResendOTP(r.Context(), req.Email); err != nil {
		h.logger.Error("resend code failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{
		Message: "If the address is awaiting verification, a new code is on its way.",
	})
}

// ForgotPassword mails a password reset code
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		h.logger.Error("forgot password failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{
		Message: "If the address has an account, a reset code is on its way.",
	})
}

// ResetPassword sets a new password using a reset code
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req); err != nil {
		var pwErr *pkgauth.PasswordValidationError
		if errors.As(err, &pwErr) {
			pkghttp.WriteBadRequest(w, "New password "+strings.Join(pwErr.Errors, "; "))
			return
		}
		h.writeCodeError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password updated. You can now log in."})
}

func (h *AuthHandler) writeCodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidOTP) {
		pkghttp.WriteBadRequest(w, "The code is invalid or has expired")
		return
	}
	h.logger.Error("code check failed", slog.Any("error", err))
	pkghttp.WriteInternalError(w, "Internal server error")
}
