package models

import "github.com/golang-jwt/jwt/v5"

const TokenTypeAccess = "access"

// TokenClaims are the devbackend's access-token claims
type TokenClaims struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
