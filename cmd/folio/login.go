package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BradenHooton/folio/internal/apiclient"
	"github.com/BradenHooton/folio/internal/login"
	"github.com/BradenHooton/folio/internal/session"
	"github.com/BradenHooton/folio/internal/tui"
)

func (c *cli) loginConfig() login.Config {
	cfg := login.DefaultConfig()
	cfg.HintDelay = c.cfg.Client.HintDelay
	cfg.RedirectDelay = c.cfg.Client.RedirectDelay
	return cfg
}

func runLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("login", "[-u username] [-plain]")
	username := fs.String("u", "", "username")
	plain := fs.Bool("plain", false, "prompt on plain lines instead of the interactive form")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	_, interactive := terminalFd(c.stdin)
	if *plain || !interactive {
		return c.loginPlain(ctx, *username)
	}
	return c.loginTUI(ctx, *username)
}

// loginPlain runs one attempt from prompted values and waits for the
// post-login redirect
func (c *cli) loginPlain(ctx context.Context, username string) error {
	p := newPrompter(c.stdin, c.stderr)
	username, err := p.valueOr(username, "Username")
	if err != nil {
		return err
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}

	redirected := make(chan string, 1)
	ctrl := login.NewController(c.client, c.store,
		login.WithConfig(c.loginConfig()),
		login.WithLogger(c.logger),
		login.WithHintSink(login.LogHintSink{Logger: c.logger}),
		login.WithNavigator(login.NavigatorFunc(func(path string) {
			select {
			case redirected <- path:
			default:
			}
		})),
	)
	defer ctrl.Close()

	ctrl.SetField(login.FieldUsername, username)
	ctrl.SetField(login.FieldPassword, password)
	res := ctrl.Submit(ctx)

	switch res.Outcome {
	case login.OutcomeSuccess:
	case login.OutcomeValidationFailed:
		for _, msg := range []string{res.Errors.Username, res.Errors.Password} {
			if msg != "" {
				fmt.Fprintln(c.stderr, msg)
			}
		}
		return errors.New("check the highlighted fields")
	case login.OutcomeLockedOut:
		return fmt.Errorf("%s (%ds)", res.Message, res.Seconds)
	default:
		return errors.New(res.Message)
	}

	select {
	case <-redirected:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.cfg.Client.RedirectDelay + time.Second):
	}
	c.printSignedIn()
	return nil
}

// loginTUI runs the interactive form until it redirects or is cancelled
func (c *cli) loginTUI(ctx context.Context, username string) error {
	bridge := tui.NewBridge()
	// the form owns the terminal, so the controller's logs are dropped
	quiet := slog.New(slog.NewJSONHandler(io.Discard, nil))

	ctrl := login.NewController(c.client, c.store,
		login.WithConfig(c.loginConfig()),
		login.WithLogger(quiet),
		login.WithHintSink(login.LogHintSink{Logger: quiet}),
		login.WithNavigator(bridge),
		login.WithOnChange(bridge.OnChange),
	)
	defer ctrl.Close()

	model := tui.NewModel(ctx, ctrl)
	if username != "" {
		model = model.WithUsername(username)
	}

	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(c.stdin),
		tea.WithOutput(c.stdout),
	)
	bridge.Start(prog.Send)
	final, err := prog.Run()
	bridge.Stop()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	m, ok := final.(tui.Model)
	if !ok || m.Canceled() || m.Redirected() == "" {
		return errors.New("login cancelled")
	}
	c.printSignedIn()
	return nil
}

func (c *cli) printSignedIn() {
	rec, err := session.Load(c.store)
	if err != nil {
		fmt.Fprintln(c.stdout, "Signed in.")
		return
	}
	fmt.Fprintf(c.stdout, "Signed in as %s.\n", rec.DisplayName())
}

func runLogout(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("logout", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// the server only clears its cookie; a failure here must not keep the
	// local session alive
	if err := c.client.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		c.logger.Debug("logout request failed", slog.Any("error", err))
	}
	if err := session.Clear(c.store); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Signed out.")
	return nil
}

func runWhoami(ctx context.Context, c *cli, args []string) error {
	fs := c.newFlagSet("whoami", "[-offline]")
	offline := fs.Bool("offline", false, "only read the stored session")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	rec, err := session.Load(c.store)
	if errors.Is(err, session.ErrNotFound) || (err == nil && !rec.Authenticated(time.Now())) {
		return errors.New("not signed in")
	}
	if err != nil {
		return err
	}

	role := ""
	if claims, err := session.ParseClaims(rec.AccessToken); err == nil {
		role = claims.Role
	}

	if !*offline {
		var me struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		if err := c.client.Get(ctx, "/api/auth/me", &me); err != nil {
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
				_ = session.Clear(c.store)
			}
			return err
		}
		role = me.Role
	}

	if role != "" {
		fmt.Fprintf(c.stdout, "%s (%s)\n", rec.DisplayName(), role)
	} else {
		fmt.Fprintln(c.stdout, rec.DisplayName())
	}
	return nil
}
