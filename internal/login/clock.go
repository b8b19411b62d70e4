package login

import (
	"sync"
	"time"
)

// Timer is a cancellable scheduled task
type Timer interface {
	// Stop cancels future runs and reports whether this call stopped it
	Stop() bool
}

// Clock schedules the controller's delayed and repeating work
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// SystemClock is the wall-clock Clock
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Every(d time.Duration, f func()) Timer {
	t := &repeatingTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

type repeatingTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *repeatingTimer) run(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			f()
		}
	}
}

func (t *repeatingTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
