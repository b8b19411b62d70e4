package services

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SentCode is one code captured by RecordingEmailService
type SentCode struct {
	Email     string
	Purpose   string
	Code      string
	ExpiresAt time.Time
}

// RecordingEmailService keeps every code it is asked to send
type RecordingEmailService struct {
	mu   sync.Mutex
	sent []SentCode
	Err  error
}

func (r *RecordingEmailService) SendCode(ctx context.Context, email, purpose, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, SentCode{Email: email, Purpose: purpose, Code: code, ExpiresAt: expiresAt})
	return nil
}

// Sent returns a copy of the captured codes
func (r *RecordingEmailService) Sent() []SentCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentCode(nil), r.sent...)
}

// Last returns the most recent code for email, or ""
func (r *RecordingEmailService) Last(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Email == email {
			return r.sent[i].Code
		}
	}
	return ""
}

// MockSESClient implements SESAPI for testing
type MockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	Inputs        []*ses.SendEmailInput
}

func (m *MockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.Inputs = append(m.Inputs, params)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}
