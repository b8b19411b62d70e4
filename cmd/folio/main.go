// Command folio is the terminal front-end for the folio web-novel platform:
// sign in, manage the account, and work the author and moderation desks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/BradenHooton/folio/internal/apiclient"
	"github.com/BradenHooton/folio/internal/config"
	"github.com/BradenHooton/folio/internal/session"
	pkglogger "github.com/BradenHooton/folio/pkg/logger"
)

// errUsage marks a bad invocation; the usage text has already been printed
var errUsage = errors.New("usage")

// cli carries everything a subcommand needs
type cli struct {
	cfg    *config.Config
	store  session.Store
	client *apiclient.Client
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":      {"sign in (interactive form, or -plain for a line prompt)", runLogin},
	"logout":     {"end the session and forget the stored token", runLogout},
	"whoami":     {"show the signed-in user", runWhoami},
	"register":   {"create an account", runRegister},
	"verify":     {"confirm an email address with the code you were sent", runVerify},
	"resend":     {"send a new verification code", runResend},
	"forgot":     {"send a password reset code", runForgot},
	"reset":      {"set a new password with a reset code", runReset},
	"stats":      {"show your author dashboard", runStats},
	"moderation": {"list, approve or reject pending content", runModeration},
	"reports":    {"list or resolve content reports", runReports},
	"rates":      {"list, create or update coin conversion rates", runRates},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "folio: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: pkglogger.ParseLevel(cfg.Log.Level)}))

	store, err := session.NewFileStore(cfg.Client.SessionFile)
	if err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 1
	}

	client, err := apiclient.New(cfg.Client.APIURL, store, cfg.Client.HTTPTimeout, apiclient.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "folio: %v\n", err)
		return 1
	}

	c := &cli{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if err := cmd.run(ctx, c, args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "folio %s: %s\n", args[0], describe(err))
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: folio <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-11s %s\n", name, commands[name].summary)
	}
}

// describe turns an error into the line shown to the user
func describe(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 401 {
		return "your session has expired; run `folio login`"
	}
	return apiclient.Message(err)
}

// newFlagSet returns a subcommand flag set that reports errors instead of exiting
func (c *cli) newFlagSet(name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintf(c.stderr, "usage: folio %s %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags reports a bad flag as a usage error; the flag set has already
// printed its usage
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
