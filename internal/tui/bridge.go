package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BradenHooton/folio/internal/login"
)

// Bridge carries controller callbacks into a running program. Views are
// latest-wins: OnChange never blocks, so it is safe to call from inside
// Update, and the program always ends up with the newest snapshot.
type Bridge struct {
	mu     sync.Mutex
	latest *login.View
	signal chan struct{}
	done   chan struct{}
	send   func(tea.Msg)
	once   sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// OnChange is the controller's observer
func (b *Bridge) OnChange(v login.View) {
	b.mu.Lock()
	b.latest = &v
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// HardRedirect implements login.Navigator by ending the program
func (b *Bridge) HardRedirect(path string) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(RedirectMsg{Path: path})
	}
}

// Start forwards views through send (usually (*tea.Program).Send) until Stop
func (b *Bridge) Start(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-b.done:
				return
			case <-b.signal:
				b.mu.Lock()
				v := b.latest
				b.latest = nil
				b.mu.Unlock()
				if v != nil {
					send(ViewMsg{View: *v})
				}
			}
		}
	}()
}

func (b *Bridge) Stop() {
	b.once.Do(func() { close(b.done) })
}
