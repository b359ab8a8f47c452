package clock_test

import (
	"testing"
	"time"

	"github.com/warp/logistics-engine/clock"
)

func TestClock_Tick_AdvancesByFixedStep(t *testing.T) {
	// GIVEN: a 10 Hz clock
	// WHEN: ticking 25 times
	// THEN: simulated time is exactly 2.5s
	c := clock.New(10)
	c.Advance(25)

	if got := c.Now(); got != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", got)
	}
	if got := c.TickCount(); got != 25 {
		t.Errorf("expected 25 ticks, got %d", got)
	}
}

func TestClock_Subscribers_InvokedInRegistrationOrder(t *testing.T) {
	// GIVEN: three subscribers
	// WHEN: one tick fires
	// THEN: they run in the order they subscribed
	c := clock.New(10)
	var order []int
	c.Subscribe(func() { order = append(order, 1) })
	c.Subscribe(func() { order = append(order, 2) })
	c.Subscribe(func() { order = append(order, 3) })

	c.Tick()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", order)
	}
}

func TestClock_Unsubscribe(t *testing.T) {
	c := clock.New(10)
	calls := 0
	cancel := c.Subscribe(func() { calls++ })
	c.Tick()
	cancel()
	c.Tick()

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestClock_Paused_FreezesTime(t *testing.T) {
	c := clock.New(10)
	c.Advance(5)
	c.SetPaused(true)
	c.Advance(5)

	if got := c.Now(); got != 500*time.Millisecond {
		t.Errorf("expected time frozen at 0.5s, got %v", got)
	}
}

func TestClock_Delta_MatchesTickAdvance(t *testing.T) {
	// GIVEN: a 10 Hz clock
	// WHEN: scaled, paused and back at 1x
	// THEN: Delta always equals what the next Tick adds to Now
	c := clock.New(10)

	if got := c.Delta(); got != 100*time.Millisecond {
		t.Errorf("expected 100ms at 1x, got %v", got)
	}

	c.SetTimeScale(2.0)
	if got := c.Delta(); got != 200*time.Millisecond {
		t.Errorf("expected 200ms at 2x, got %v", got)
	}
	before := c.Now()
	c.Tick()
	if advanced := c.Now() - before; advanced != 200*time.Millisecond {
		t.Errorf("expected tick to advance 200ms, got %v", advanced)
	}

	c.SetPaused(true)
	if got := c.Delta(); got != 0 {
		t.Errorf("expected zero delta while paused, got %v", got)
	}
}

func TestClock_TimeScale_StretchesStep(t *testing.T) {
	// GIVEN: a 10 Hz clock at double speed
	// WHEN: ticking 10 times
	// THEN: two simulated seconds have passed
	c := clock.New(10)
	c.SetTimeScale(2.0)
	c.Advance(10)

	if got := c.Now(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
}
