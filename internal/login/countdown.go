package login

import (
	"sync"
	"time"
)

// Countdown counts a lockout down once per second. The repeating timer
// exists only while the remaining time is positive.
type Countdown struct {
	mu        sync.Mutex
	clock     Clock
	remaining int
	timer     Timer
	gen       uint64
	onTick    func(remaining int)
}

// NewCountdown creates an idle countdown. onTick runs after every decrement,
// outside the countdown's lock.
func NewCountdown(clock Clock, onTick func(remaining int)) *Countdown {
	return &Countdown{clock: clock, onTick: onTick}
}

// Start replaces any running countdown with one of seconds. Non-positive
// values stop the countdown.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if seconds <= 0 {
		c.remaining = 0
		return
	}

	c.remaining = seconds
	gen := c.gen
	c.timer = c.clock.Every(time.Second, func() { c.tick(gen) })
}

// Remaining returns the seconds left, 0 when idle
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether a lockout is running
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}

// Stop cancels the countdown and resets it to zero
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.remaining = 0
}

func (c *Countdown) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// ticks scheduled by an older timer are ignored from here on
	c.gen++
}

func (c *Countdown) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.remaining == 0 {
		c.mu.Unlock()
		return
	}

	c.remaining--
	remaining := c.remaining
	if remaining == 0 {
		c.stopLocked()
	}
	onTick := c.onTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}
