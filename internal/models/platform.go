package models

import "time"

// DailyStat is one day of an author's traffic
type DailyStat struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
	Coins int64  `json:"coins"`
}

// AuthorStats is the author analytics dashboard payload
type AuthorStats struct {
	TotalViews    int64       `json:"totalViews"`
	TotalChapters int         `json:"totalChapters"`
	TotalCoins    int64       `json:"totalCoins"`
	Followers     int         `json:"followers"`
	Daily         []DailyStat `json:"daily"`
}

// Moderation item kinds
const (
	KindNovel   = "novel"
	KindChapter = "chapter"
)

// ModerationItem is content waiting for a moderator decision
type ModerationItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Kind        string    `json:"kind"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (m ModerationItem) Key() string { return m.ID }

// Report statuses and resolutions
const (
	ReportOpen     = "open"
	ReportResolved = "resolved"

	ActionDismiss = "dismiss"
	ActionRemove  = "remove"
	ActionWarn    = "warn"
)

// Report is a user-filed content violation report
type Report struct {
	ID         string    `json:"id"`
	TargetType string    `json:"targetType"`
	TargetID   string    `json:"targetId"`
	Reason     string    `json:"reason"`
	Reporter   string    `json:"reporter"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r Report) Key() string { return r.ID }

// ConversionRate converts platform coins to cash for author payouts
type ConversionRate struct {
	ID         string    `json:"id"`
	Coins      int64     `json:"coins"`
	CashAmount float64   `json:"cashAmount"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c ConversionRate) Key() string { return c.ID }

// Request bodies shared by the client and the devbackend

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32" label:"Username"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=6,max=128" label:"Password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric" label:"Code"`
}

// EmailRequest carries only an address: resend-otp and forgot-password
type EmailRequest struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email" label:"Email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric" label:"Code"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=128" label:"New password"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500" label:"Reason"`
}

type ResolveRequest struct {
	Action string `json:"action" validate:"required,oneof=dismiss remove warn" label:"Action"`
}

type RateRequest struct {
	Coins      int64   `json:"coins" validate:"gt=0" label:"Coins"`
	CashAmount float64 `json:"cashAmount" validate:"gt=0" label:"Cash amount"`
	Currency   string  `json:"currency" validate:"required,len=3,alpha,uppercase" label:"Currency"`
	Active     bool    `json:"active"`
}

// MessageResponse is the generic acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}
