package login

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/apiclient"
)

// FakeClock is a manually advanced Clock for tests
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	due     time.Duration
	period  time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewFakeClock() *FakeClock { return &FakeClock{} }

func (fc *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	return fc.add(d, 0, f)
}

func (fc *FakeClock) Every(d time.Duration, f func()) Timer {
	return fc.add(d, d, f)
}

func (fc *FakeClock) add(d, period time.Duration, f func()) *fakeTimer {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.seq++
	t := &fakeTimer{clock: fc, due: fc.now + d, period: period, seq: fc.seq, f: f}
	fc.timers = append(fc.timers, t)
	return t
}

// Advance moves time forward, firing due timers in order. Callbacks run on
// the caller's goroutine without the clock's lock held.
func (fc *FakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	target := fc.now + d
	fc.mu.Unlock()

	for {
		fc.mu.Lock()
		next := fc.nextDueLocked(target)
		if next == nil {
			fc.now = target
			fc.mu.Unlock()
			return
		}
		fc.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.stopped = true
		}
		f := next.f
		fc.mu.Unlock()

		f()
	}
}

func (fc *FakeClock) nextDueLocked(target time.Duration) *fakeTimer {
	live := fc.timers[:0]
	for _, t := range fc.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	fc.timers = live

	sort.SliceStable(fc.timers, func(i, j int) bool {
		if fc.timers[i].due != fc.timers[j].due {
			return fc.timers[i].due < fc.timers[j].due
		}
		return fc.timers[i].seq < fc.timers[j].seq
	})
	if len(fc.timers) == 0 || fc.timers[0].due > target {
		return nil
	}
	return fc.timers[0]
}

// Pending returns the number of timers that have not fired or been stopped
func (fc *FakeClock) Pending() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, t := range fc.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// RecordingHintSink records announced credentials
type RecordingHintSink struct {
	mu    sync.Mutex
	Calls []Credentials
}

func (s *RecordingHintSink) Announce(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Credentials{Username: username, Password: password})
}

func (s *RecordingHintSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// RecordingNavigator records redirect targets
type RecordingNavigator struct {
	mu    sync.Mutex
	Paths []string
}

func (n *RecordingNavigator) HardRedirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Paths = append(n.Paths, path)
}

func (n *RecordingNavigator) Redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Paths...)
}

// MockTransport implements Transport for testing
type MockTransport struct {
	mu       sync.Mutex
	SendFunc func(ctx context.Context, method, path string, body any) (*apiclient.Response, error)
	Requests []Credentials
}

func (m *MockTransport) Send(ctx context.Context, method, path string, body any) (*apiclient.Response, error) {
	m.mu.Lock()
	if creds, ok := body.(Credentials); ok {
		m.Requests = append(m.Requests, creds)
	}
	fn := m.SendFunc
	m.mu.Unlock()

	if fn == nil {
		return &apiclient.Response{Status: 200, ContentType: "application/json", Body: []byte(`{}`)}, nil
	}
	return fn(ctx, method, path, body)
}

// Calls returns how many requests were sent
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// RespondWith returns a SendFunc answering every request with one response
func RespondWith(status int, contentType, body string) func(context.Context, string, string, any) (*apiclient.Response, error) {
	return func(context.Context, string, string, any) (*apiclient.Response, error) {
		return &apiclient.Response{Status: status, ContentType: contentType, Body: []byte(body)}, nil
	}
}
