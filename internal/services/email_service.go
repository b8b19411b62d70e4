package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	pkglogger "github.com/BradenHooton/folio/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService delivers one-time codes
type EmailService interface {
	SendCode(ctx context.Context, email, purpose, code string, expiresAt time.Time) error
}

// SESAPI is the part of the SES client the mailer uses
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// AWSSESEmailService sends codes using AWS SES
type AWSSESEmailService struct {
	sesClient   SESAPI
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService loads the default AWS config for region
func NewAWSSESEmailService(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESEmailServiceWithClient(ses.NewFromConfig(cfg), fromAddress, logger), nil
}

func NewSESEmailServiceWithClient(client SESAPI, fromAddress string, logger *slog.Logger) *AWSSESEmailService {
	return &AWSSESEmailService{
		sesClient:   client,
		fromAddress: fromAddress,
		logger:      logger,
	}
}

func (s *AWSSESEmailService) SendCode(ctx context.Context, email, purpose, code string, expiresAt time.Time) error {
	subject, intro := codeCopy(purpose)
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())

	textBody := fmt.Sprintf(`%s

Your folio code is: %s

It expires in %d minutes. If you did not ask for this code you can ignore this email.
`, intro, code, minutes)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send code via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("code email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("purpose", purpose),
		slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}

// LogEmailService writes codes to the log instead of mailing them. It is
// the devbackend default when no AWS region is configured.
// In production the code itself is redacted.
type LogEmailService struct {
	logger *slog.Logger
	env    string
}

func NewLogEmailService(logger *slog.Logger, env string) *LogEmailService {
	return &LogEmailService{logger: logger, env: env}
}

func (s *LogEmailService) SendCode(ctx context.Context, email, purpose, code string, expiresAt time.Time) error {
	s.logger.Info("one-time code issued",
		pkglogger.RedactedAttr("email", email, s.env),
		slog.String("purpose", purpose),
		pkglogger.RedactedAttr("code", code, s.env),
		slog.Time("expires_at", expiresAt))
	return nil
}

func codeCopy(purpose string) (subject, intro string) {
	if purpose == models.PurposeResetPassword {
		return "Reset your folio password", "Someone asked to reset the password on your folio account."
	}
	return "Verify your folio email", "Welcome to folio! Confirm your email address to finish signing up."
}
