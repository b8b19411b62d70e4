package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client cares about
type Claims struct {
	Type     string `json:"type,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a JWT without verifying its signature. The client
// cannot verify tokens; the claims are only used for display and expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims, nil
}
