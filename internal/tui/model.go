// Package tui is the terminal login form. It renders controller views and
// forwards keystrokes; every decision stays in the login controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BradenHooton/folio/internal/login"
)

// ViewMsg delivers a controller snapshot
type ViewMsg struct{ View login.View }

// ResultMsg is the outcome of a submission run off the UI goroutine
type ResultMsg struct{ Result login.Result }

// RedirectMsg ends the form after a successful login
type RedirectMsg struct{ Path string }

var fields = [...]login.Field{login.FieldUsername, login.FieldPassword}

type Model struct {
	ctx    context.Context
	ctrl   *login.Controller
	inputs [len(fields)]textinput.Model
	focus  int

	view       login.View
	last       *login.Result
	redirected string
	canceled   bool
}

func NewModel(ctx context.Context, ctrl *login.Controller) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Prompt = "> "
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		inputs: [len(fields)]textinput.Model{username, password},
		view:   ctrl.View(),
	}
}

// WithUsername pre-fills the username and moves focus to the password
func (m Model) WithUsername(username string) Model {
	m.inputs[0].SetValue(username)
	m.ctrl.SetField(login.FieldUsername, username)
	m.setFocus(1)
	m.view = m.ctrl.View()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ViewMsg:
		m.view = msg.View
		return m, nil

	case ResultMsg:
		m.last = &msg.Result
		m.view = m.ctrl.View()
		return m, nil

	case RedirectMsg:
		m.redirected = msg.Path
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "tab", "down":
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus(m.focus - 1)
			return m, cmd
		case "enter":
			if m.focus == 0 {
				cmd := m.setFocus(1)
				return m, cmd
			}
			return m, m.submit()
		}
	}

	if m.view.InputsDisabled {
		return m, nil
	}
	cmd := m.updateInput(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// submit runs the attempt off the UI goroutine; the controller rejects it
// on its own while locked out or busy
func (m *Model) submit() tea.Cmd {
	if m.view.SubmitDisabled {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return ResultMsg{Result: ctrl.Submit(ctx)}
	}
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.ctrl.SetField(fields[m.focus], after)
		m.view = m.ctrl.View()
	}
	return cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("folio · sign in\n\n")
	for i, f := range fields {
		label := "Username"
		if f == login.FieldPassword {
			label = "Password"
		}
		b.WriteString(label + "\n")
		b.WriteString(m.inputs[i].View() + "\n")
		if e := m.view.Errors.Get(f); e != "" {
			b.WriteString("  ! " + e + "\n")
		}
		b.WriteString("\n")
	}

	button := fmt.Sprintf("[ %s ]", m.view.SubmitLabel)
	if m.view.SubmitDisabled {
		button = fmt.Sprintf("( %s )", m.view.SubmitLabel)
	}
	b.WriteString(button + "\n")

	if m.view.Message != "" {
		prefix := ""
		switch m.view.Kind {
		case login.MessageError:
			prefix = "✗ "
		case login.MessageLockout:
			prefix = "⏳ "
		case login.MessageInfo:
			prefix = "✓ "
		}
		b.WriteString("\n" + prefix + m.view.Message + "\n")
	}

	b.WriteString("\ntab: next field · enter: submit · esc: quit\n")
	return b.String()
}

// Redirected is the route the controller sent the user to, or ""
func (m Model) Redirected() string { return m.redirected }

// Canceled reports whether the user quit the form
func (m Model) Canceled() bool { return m.canceled }

// LastResult is the most recent submission outcome
func (m Model) LastResult() *login.Result { return m.last }
