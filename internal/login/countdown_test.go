package login

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_TicksDownToZeroAndStops(t *testing.T) {
	clock := NewFakeClock()
	var seen []int
	cd := NewCountdown(clock, func(r int) { seen = append(seen, r) })

	cd.Start(3)
	assert.Equal(t, 3, cd.Remaining())
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 2, cd.Remaining())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, cd.Remaining())
	assert.Equal(t, []int{2, 1, 0}, seen)
	assert.Equal(t, 0, clock.Pending(), "timer must be cancelled at zero")

	clock.Advance(10 * time.Second)
	assert.Equal(t, []int{2, 1, 0}, seen, "no ticks after zero")
}

func TestCountdown_Monotonic(t *testing.T) {
	clock := NewFakeClock()
	prev := 45
	cd := NewCountdown(clock, func(r int) {
		assert.Equal(t, prev-1, r)
		prev = r
	})

	cd.Start(45)
	for i := 0; i < 60; i++ {
		clock.Advance(time.Second)
	}
	assert.Equal(t, 0, prev)
}

func TestCountdown_RestartReplacesTimer(t *testing.T) {
	clock := NewFakeClock()
	cd := NewCountdown(clock, nil)

	cd.Start(5)
	clock.Advance(2 * time.Second)
	cd.Start(10)

	assert.Equal(t, 10, cd.Remaining())
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 9, cd.Remaining(), "only the new timer ticks")
}

func TestCountdown_StopAndNonPositiveStart(t *testing.T) {
	clock := NewFakeClock()
	cd := NewCountdown(clock, nil)

	cd.Start(5)
	cd.Stop()
	assert.Equal(t, 0, cd.Remaining())
	assert.Equal(t, 0, clock.Pending())

	cd.Start(0)
	assert.False(t, cd.Active())
	assert.Equal(t, 0, clock.Pending())

	cd.Start(-3)
	assert.False(t, cd.Active())
}

func TestSystemClock_EveryStops(t *testing.T) {
	ticks := make(chan struct{}, 16)
	timer := SystemClock().Every(5*time.Millisecond, func() { ticks <- struct{}{} })

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
}
