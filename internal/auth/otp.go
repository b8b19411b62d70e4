package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// OTPManager derives the six-digit email codes. Each address gets its own
// HOTP secret derived from the server secret, and each issued challenge
// advances the counter, so codes are never stored.
type OTPManager struct {
	serverSecret []byte
}

var otpOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func NewOTPManager(serverSecret string) (*OTPManager, error) {
	if len(serverSecret) < 16 {
		return nil, fmt.Errorf("OTP secret must be at least 16 characters, got %d", len(serverSecret))
	}
	return &OTPManager{serverSecret: []byte(serverSecret)}, nil
}

// secretFor returns the base32 HOTP secret for an email and purpose
func (m *OTPManager) secretFor(email, purpose string) string {
	mac := hmac.New(sha256.New, m.serverSecret)
	mac.Write([]byte(purpose + ":" + email))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
}

// Code generates the code for counter
func (m *OTPManager) Code(email, purpose string, counter uint64) (string, error) {
	code, err := hotp.GenerateCodeCustom(m.secretFor(email, purpose), counter, otpOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return code, nil
}

// Validate checks code against exactly counter; there is no look-ahead
func (m *OTPManager) Validate(email, purpose, code string, counter uint64) bool {
	ok, err := hotp.ValidateCustom(code, counter, m.secretFor(email, purpose), otpOpts)
	return err == nil && ok
}
