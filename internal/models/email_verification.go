package models

import (
	"time"
)

// OTP purposes
const (
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
)

// OTPChallenge is an outstanding emailed code. The code itself is never
// stored; it is regenerated from the per-user secret and Counter.
type OTPChallenge struct {
	Email     string
	Purpose   string
	Counter   uint64
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// IsExpired checks if the challenge has expired
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsUsed checks if the code has already been used
func (c *OTPChallenge) IsUsed() bool {
	return c.UsedAt != nil
}

// IsValid checks if the challenge is still valid (not expired and not used)
func (c *OTPChallenge) IsValid(now time.Time) bool {
	return !c.IsExpired(now) && !c.IsUsed()
}
