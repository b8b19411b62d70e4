package login

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/folio/internal/apiclient"
	"github.com/BradenHooton/folio/pkg/logger"
)

// Transport issues the login request. *apiclient.Client satisfies it.
type Transport interface {
	Send(ctx context.Context, method, path string, body any) (*apiclient.Response, error)
}

// CredentialHintSink receives the credentials after a successful login so a
// password manager can offer to save them. Announce is fire-and-forget.
type CredentialHintSink interface {
	Announce(username, password string)
}

// Navigator performs the full reload to another route after login
type Navigator interface {
	HardRedirect(path string)
}

// HintSinkFunc adapts a function to CredentialHintSink
type HintSinkFunc func(username, password string)

func (f HintSinkFunc) Announce(username, password string) { f(username, password) }

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) HardRedirect(path string) { f(path) }

// LogHintSink only records that credentials became available to save
type LogHintSink struct {
	Logger *slog.Logger
}

func (s LogHintSink) Announce(username, _ string) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("credentials available to save", slog.String("username", logger.MaskedUsername(username)))
}

type nopNavigator struct{}

func (nopNavigator) HardRedirect(string) {}
