package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/folio/internal/login"
	"github.com/BradenHooton/folio/internal/session"
)

func newTestModel(t *testing.T, transport *login.MockTransport, clock *login.FakeClock, opts ...login.Option) Model {
	t.Helper()
	base := []login.Option{
		login.WithClock(clock),
		login.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		login.WithHintSink(&login.RecordingHintSink{}),
	}
	ctrl := login.NewController(transport, session.NewMemoryStore(), append(base, opts...)...)
	t.Cleanup(ctrl.Close)
	return NewModel(context.Background(), ctrl)
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.Update(msg)
	}
	return next.(Model), cmd
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestModel_TypingUpdatesController(t *testing.T) {
	m := newTestModel(t, &login.MockTransport{}, login.NewFakeClock())

	m, _ = press(t, m, typeText("alice"), tab, typeText("secret1"))

	assert.Equal(t, "alice", m.view.Username)
	assert.Equal(t, 1, m.focus)
	assert.Equal(t, "secret1", m.inputs[1].Value())
	assert.NotContains(t, m.View(), "secret1", "password is masked")
}

func TestModel_WithUsername(t *testing.T) {
	m := newTestModel(t, &login.MockTransport{}, login.NewFakeClock()).WithUsername("alice")

	assert.Equal(t, "alice", m.inputs[0].Value())
	assert.Equal(t, "alice", m.view.Username)
	assert.Equal(t, 1, m.focus, "password field takes focus")

	m, _ = press(t, m, typeText("secret1"))
	assert.Equal(t, "secret1", m.inputs[1].Value())
}

func TestModel_SubmitValidationErrors(t *testing.T) {
	transport := &login.MockTransport{}
	m := newTestModel(t, transport, login.NewFakeClock())

	m, _ = press(t, m, typeText("al"), tab, typeText("123"))
	m, cmd := press(t, m, enter)
	require.NotNil(t, cmd)

	m, _ = press(t, m, cmd())

	out := m.View()
	assert.Contains(t, out, "Username must be at least 3 characters")
	assert.Contains(t, out, "Password must be at least 6 characters")
	assert.Equal(t, 0, transport.Calls())
	require.NotNil(t, m.LastResult())
	assert.Equal(t, login.OutcomeValidationFailed, m.LastResult().Outcome)
}

func TestModel_EnterOnUsernameMovesFocus(t *testing.T) {
	transport := &login.MockTransport{}
	m := newTestModel(t, transport, login.NewFakeClock())

	m, cmd := press(t, m, typeText("alice"), enter)
	assert.Equal(t, 1, m.focus)
	if cmd != nil {
		_, isResult := cmd().(ResultMsg)
		assert.False(t, isResult)
	}
	assert.Equal(t, 0, transport.Calls())
}

func TestModel_LockoutCountdownInButton(t *testing.T) {
	transport := &login.MockTransport{SendFunc: login.RespondWith(423, "application/json", `{"secondsRemaining":30}`)}
	clock := login.NewFakeClock()
	m := newTestModel(t, transport, clock)

	m, _ = press(t, m, typeText("alice"), tab, typeText("secret1"))
	m, cmd := press(t, m, enter)
	m, _ = press(t, m, cmd())

	out := m.View()
	assert.Contains(t, out, "( Login in 30s )")
	assert.Contains(t, out, "temporarily locked due to too many failed login attempts. Please try again later. (30s)")

	_, cmd = press(t, m, enter)
	assert.Nil(t, cmd, "enter is ignored while locked out")

	clock.Advance(time.Second)
	m, _ = press(t, m, ViewMsg{View: m.ctrl.View()})
	assert.Contains(t, m.View(), "( Login in 29s )")
}

func TestModel_SuccessQuitsOnRedirect(t *testing.T) {
	transport := &login.MockTransport{SendFunc: login.RespondWith(200, "application/json", `{"id":"u1"}`)}
	m := newTestModel(t, transport, login.NewFakeClock())

	m, _ = press(t, m, typeText("alice"), tab, typeText("secret1"))
	m, cmd := press(t, m, enter)
	m, _ = press(t, m, cmd())
	assert.Contains(t, m.View(), "Login successful! Redirecting...")

	m, cmd = press(t, m, RedirectMsg{Path: "/"})
	assert.Equal(t, "/", m.Redirected())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EscCancels(t *testing.T) {
	m := newTestModel(t, &login.MockTransport{}, login.NewFakeClock())
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.Canceled())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBridge_DeliversLatestView(t *testing.T) {
	var mu sync.Mutex
	var got []tea.Msg
	received := make(chan struct{}, 8)

	b := NewBridge()
	t.Cleanup(b.Stop)
	b.Start(func(msg tea.Msg) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
		received <- struct{}{}
	})

	b.OnChange(login.View{SecondsRemaining: 3})
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("view not forwarded")
	}

	b.HardRedirect("/")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, ViewMsg{View: login.View{SecondsRemaining: 3}}, got[0])
	assert.Equal(t, RedirectMsg{Path: "/"}, got[1])
}

func TestBridge_OnChangeNeverBlocks(t *testing.T) {
	b := NewBridge()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.OnChange(login.View{SecondsRemaining: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnChange blocked without a running program")
	}
}
