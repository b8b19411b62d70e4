package portal

import (
	"context"
	"net/http"
	"strings"

	"github.com/BradenHooton/folio/internal/models"
)

// AccountService drives registration, email verification and password reset
type AccountService struct {
	api API
}

func NewAccountService(api API) *AccountService {
	return &AccountService{api: api}
}

// Register creates an account; the server mails a code to verify the email
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return "", err
	}
	return s.post(ctx, "/api/auth/register", req)
}

// VerifyOTP confirms the emailed code
func (s *AccountService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validate(req); err != nil {
		return "", err
	}
	return s.post(ctx, "/api/auth/verify-otp", req)
}

// ResendOTP asks for a fresh verification code
func (s *AccountService) ResendOTP(ctx context.Context, email string) (string, error) {
	req := models.EmailRequest{Email: normalizeEmail(email)}
	if err := validate(req); err != nil {
		return "", err
	}
	return s.post(ctx, "/api/auth/resend-otp", req)
}

// ForgotPassword starts a reset; the server answers the same way whether or
// not the address is registered
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (string, error) {
	req := models.EmailRequest{Email: normalizeEmail(email)}
	if err := validate(req); err != nil {
		return "", err
	}
	return s.post(ctx, "/api/auth/forgot-password", req)
}

// ResetPassword sets a new password using the emailed code
func (s *AccountService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validate(req); err != nil {
		return "", err
	}
	return s.post(ctx, "/api/auth/reset-password", req)
}

func (s *AccountService) post(ctx context.Context, path string, req any) (string, error) {
	var resp models.MessageResponse
	if err := s.api.Do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
