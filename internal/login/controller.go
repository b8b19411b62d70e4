package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/apiclient"
	"github.com/BradenHooton/folio/internal/session"
	"github.com/BradenHooton/folio/pkg/logger"
)

// Config holds the controller's routes and delays
type Config struct {
	LoginPath     string
	HomePath      string
	HintDelay     time.Duration
	RedirectDelay time.Duration
}

// DefaultConfig returns the production routes and delays
func DefaultConfig() Config {
	return Config{
		LoginPath:     "/api/auth/login",
		HomePath:      "/",
		HintDelay:     100 * time.Millisecond,
		RedirectDelay: 800 * time.Millisecond,
	}
}

// Controller owns the login form: input, validation, submission, lockout
// countdown and the post-login hint and redirect. It is safe for concurrent
// use; at most one login request is in flight at a time.
type Controller struct {
	transport Transport
	store     session.Store
	hints     CredentialHintSink
	nav       Navigator
	clock     Clock
	logger    *slog.Logger
	audit     *logger.AuditLogger
	cfg       Config

	mu             sync.Mutex
	input          Credentials
	passwordReader func() string
	errors         ValidationErrors
	message        string
	kind           MessageKind
	state          State
	busy           bool
	closed         bool
	pending        []Timer
	onChange       func(View)

	countdown *Countdown
}

// Option configures a Controller
type Option func(*Controller)

func WithConfig(cfg Config) Option { return func(c *Controller) { c.cfg = cfg } }

func WithClock(clock Clock) Option { return func(c *Controller) { c.clock = clock } }

func WithHintSink(sink CredentialHintSink) Option { return func(c *Controller) { c.hints = sink } }

func WithNavigator(nav Navigator) Option { return func(c *Controller) { c.nav = nav } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithOnChange registers the observer notified with a fresh View after
// every state change. It is called without the controller's lock held.
func WithOnChange(fn func(View)) Option { return func(c *Controller) { c.onChange = fn } }

// WithPasswordReader sets a live source for the password, consulted at
// submit time. A non-empty value wins over the last SetField value; this
// covers inputs filled in without change events.
func WithPasswordReader(fn func() string) Option {
	return func(c *Controller) { c.passwordReader = fn }
}

// NewController creates a controller bound to a transport and session store
func NewController(transport Transport, store session.Store, opts ...Option) *Controller {
	c := &Controller{
		transport: transport,
		store:     store,
		hints:     LogHintSink{},
		nav:       nopNavigator{},
		clock:     SystemClock(),
		logger:    slog.Default(),
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.audit = logger.NewAuditLogger(c.logger)
	c.countdown = NewCountdown(c.clock, func(int) { c.notify() })
	return c
}

// SetField records a keystroke: it updates the input, clears that field's
// error and clears the status message
func (c *Controller) SetField(field Field, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch field {
	case FieldUsername:
		c.input.Username = value
	case FieldPassword:
		c.input.Password = value
	default:
		c.mu.Unlock()
		return
	}
	c.errors.clear(field)
	c.message = ""
	c.kind = MessageNone
	c.mu.Unlock()

	c.notify()
}

// SubmitNative handles the hidden native form's submit event: its values
// replace the input and the submission goes through Submit, so no second
// request is ever sent.
func (c *Controller) SubmitNative(ctx context.Context, form url.Values) Result {
	c.mu.Lock()
	if !c.closed {
		if form.Has(string(FieldUsername)) {
			c.input.Username = form.Get(string(FieldUsername))
		}
		if form.Has(string(FieldPassword)) {
			c.input.Password = form.Get(string(FieldPassword))
		}
	}
	c.mu.Unlock()

	return c.Submit(ctx)
}

// Submit runs one login attempt. It is a no-op returning OutcomeBlocked
// while a lockout is counting down, while another attempt is in flight, or
// after success.
func (c *Controller) Submit(ctx context.Context) Result {
	live := c.livePassword()

	c.mu.Lock()
	if c.closed || c.busy || c.state == StateRedirecting || c.countdown.Active() {
		c.mu.Unlock()
		return Result{Outcome: OutcomeBlocked, Message: c.View().Message, Err: ErrBlocked}
	}

	c.state = StateValidating
	creds := c.credentialsLocked(live)
	errs := Validate(creds)
	c.errors = errs
	c.message = ""
	c.kind = MessageNone

	if !errs.Valid() {
		c.state = StateIdle
		c.mu.Unlock()
		c.notify()
		return Result{Outcome: OutcomeValidationFailed, Errors: errs, Err: ErrValidation}
	}

	c.busy = true
	c.state = StateSubmitting
	c.mu.Unlock()
	c.notify()

	res := c.attempt(ctx, creds)
	c.logOutcome(creds.Username, res)

	c.mu.Lock()
	if c.closed {
		// torn down while the request was in flight
		c.mu.Unlock()
		return res
	}
	c.busy = false
	c.applyLocked(res, creds)
	c.mu.Unlock()

	c.notify()
	return res
}

// attempt performs the request and interprets every response shape
func (c *Controller) attempt(ctx context.Context, creds Credentials) Result {
	resp, err := c.transport.Send(ctx, http.MethodPost, c.cfg.LoginPath, creds)
	if err != nil {
		return networkResult(err)
	}

	if !resp.OK() {
		return interpretFailure(resp)
	}

	rec, err := session.Save(c.store, resp.Body)
	if err != nil {
		if errors.Is(err, session.ErrInvalidPayload) {
			return networkResult(fmt.Errorf("decoding login response: %w", err))
		}
		c.logger.Error("failed to persist session", slog.Any("error", err))
		return Result{
			Outcome: OutcomeSessionError,
			Message: MessageSessionPersist,
			Err:     fmt.Errorf("%w: %v", ErrSessionPersist, err),
		}
	}

	return Result{Outcome: OutcomeSuccess, User: rec.User, Message: MessageSuccess}
}

// applyLocked moves the state machine to the post-attempt state
func (c *Controller) applyLocked(res Result, creds Credentials) {
	c.message = res.Message
	c.state = StateIdle

	switch res.Outcome {
	case OutcomeSuccess:
		c.kind = MessageInfo
		c.state = StateRedirecting
		c.pending = append(c.pending,
			c.clock.AfterFunc(c.cfg.HintDelay, func() { c.announce(creds) }),
			c.clock.AfterFunc(c.cfg.RedirectDelay, c.redirect),
		)
	case OutcomeLockedOut:
		c.kind = MessageLockout
		c.countdown.Start(res.Seconds)
	default:
		c.kind = MessageError
	}
}

func (c *Controller) announce(creds Credentials) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("credential hint failed", slog.Any("panic", r))
		}
	}()
	c.hints.Announce(creds.Username, creds.Password)
}

func (c *Controller) redirect() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	c.nav.HardRedirect(c.cfg.HomePath)
}

// Close tears the controller down: the countdown and any pending hint or
// redirect are cancelled and later completions no longer touch state
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	c.countdown.Stop()
	for _, t := range pending {
		t.Stop()
	}
}

// View returns a snapshot for rendering
func (c *Controller) View() View {
	remaining := c.countdown.Remaining()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:            c.state,
		Username:         c.input.Username,
		Errors:           c.errors,
		Message:          c.message,
		Kind:             c.kind,
		Busy:             c.busy,
		SecondsRemaining: remaining,
		InputsDisabled:   c.busy,
	}

	switch {
	case c.busy:
		v.SubmitLabel = "Logging in..."
	case remaining > 0:
		v.SubmitLabel = fmt.Sprintf("Login in %ds", remaining)
	default:
		v.SubmitLabel = "Login"
	}
	v.SubmitDisabled = c.busy || remaining > 0 || c.state == StateRedirecting

	if remaining > 0 {
		v.Message = fmt.Sprintf("%s (%ds)", MessageLocked, remaining)
		v.Kind = MessageLockout
	}
	return v
}

// State returns the current state machine position
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SecondsRemaining returns the lockout time left
func (c *Controller) SecondsRemaining() int {
	return c.countdown.Remaining()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	closed := c.closed
	c.mu.Unlock()

	if fn == nil || closed {
		return
	}
	fn(c.View())
}

// livePassword reads the password at submit time so autofilled values that
// never produced a change event are still submitted. It runs without the
// lock held; the reader may call back into the controller.
func (c *Controller) livePassword() string {
	if c.passwordReader == nil {
		return ""
	}
	return c.passwordReader()
}

func (c *Controller) credentialsLocked(live string) Credentials {
	if live != "" {
		c.input.Password = live
	}
	return c.input
}

func (c *Controller) logOutcome(username string, res Result) {
	event := logger.AuditEvent{
		EventType: "login",
		Username:  username,
		Success:   res.Outcome == OutcomeSuccess,
	}
	if !event.Success {
		event.FailureReason = res.Outcome.String()
	}
	if res.Outcome == OutcomeLockedOut {
		event.Metadata = map[string]string{"seconds_remaining": strconv.Itoa(res.Seconds)}
	}
	c.audit.LogAuthAttempt(event)
}

func networkResult(err error) Result {
	return Result{
		Outcome: OutcomeNetworkError,
		Message: MessageNetwork,
		Err:     fmt.Errorf("%w: %v", ErrNetwork, err),
	}
}

func lockedResult(seconds int) Result {
	return Result{
		Outcome: OutcomeLockedOut,
		Seconds: seconds,
		Message: MessageLocked,
		Err:     fmt.Errorf("%w: %ds remaining", ErrLockedOut, seconds),
	}
}

// interpretFailure maps a non-2xx response to a result. A 423 with a JSON
// body carries the lockout length; any other failure body is plain text,
// where the lock marker still means a fixed 60s lockout.
func interpretFailure(resp *apiclient.Response) Result {
	if resp.Status == http.StatusLocked && resp.IsJSON() {
		return lockedResult(lockoutSeconds(resp.Body))
	}

	text := strings.TrimSpace(string(resp.Body))
	if strings.Contains(text, lockedMarker) {
		return lockedResult(defaultLockoutSeconds)
	}
	if text == "" {
		text = MessageInvalidCredentials
	}
	return Result{
		Outcome: OutcomeInvalidCredentials,
		Message: text,
		Err:     fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.Status),
	}
}

// lockoutSeconds reads secondsRemaining as a positive integer. Numbers and
// numeric strings are accepted and truncated; anything else is 60.
func lockoutSeconds(body []byte) int {
	var payload struct {
		SecondsRemaining any `json:"secondsRemaining"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return defaultLockoutSeconds
	}

	var f float64
	switch v := payload.SecondsRemaining.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return defaultLockoutSeconds
		}
		f = parsed
	default:
		return defaultLockoutSeconds
	}

	if math.IsNaN(f) || math.IsInf(f, -1) {
		return defaultLockoutSeconds
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	seconds := int(f)
	if seconds <= 0 {
		return defaultLockoutSeconds
	}
	return seconds
}
