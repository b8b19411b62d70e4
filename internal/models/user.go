package models

import (
	"time"
)

const (
	RoleReader    = "reader"
	RoleAuthor    = "author"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	Role          string // reader, author, moderator or admin
	EmailVerified bool
	CreatedAt     time.Time
}

// LoginResponse is the body of a successful login. The whole object is
// persisted client-side as the session user.
type LoginResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

// NewLoginResponse builds the login body for u
func NewLoginResponse(u *User, accessToken string) LoginResponse {
	return LoginResponse{
		ID:          u.ID,
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		AccessToken: accessToken,
	}
}

// CanModerate reports whether the role may act on the moderation and report queues
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
