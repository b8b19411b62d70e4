package login

import "errors"

// Sentinel errors for every way a login attempt can end without success
var (
	ErrValidation         = errors.New("credentials failed validation")
	ErrLockedOut          = errors.New("account is temporarily locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNetwork            = errors.New("login request could not be completed")
	ErrBlocked            = errors.New("submission blocked")
	ErrSessionPersist     = errors.New("session could not be saved")
)

// User-facing messages
const (
	MessageSuccess            = "Login successful! Redirecting..."
	MessageLocked             = "Account is temporarily locked due to too many failed login attempts. Please try again later."
	MessageInvalidCredentials = "Invalid username or password"
	MessageNetwork            = "Unable to connect to the server. Please check your connection and try again."
	MessageSessionPersist     = "Login succeeded but your session could not be saved. Please try again."
)

// lockedMarker is matched against plain-text failure bodies from backends
// that report a lock without the structured 423 body
const lockedMarker = "Account is temporarily locked"

const defaultLockoutSeconds = 60
