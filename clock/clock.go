/*
Package clock provides the fixed-step simulated clock driving the engine.

PURPOSE:
  Every component of the scheduler (dispatcher, task engine, automation
  policies, carrier movement) runs off the same tick. The clock advances
  simulated time by a fixed step each tick and fans the tick out to
  subscribers in registration order, so callers control the execution
  order of the whole simulation by the order in which they subscribe.

SIMULATED TIME:
  Now() is elapsed simulated time, not wall time. Every TTL, cooldown,
  retry interval and timeout in the engine is compared against Now().
  Pausing the clock freezes Now(); TimeScale stretches or compresses it.

DRIVING THE CLOCK:
  Tests call Tick() (or Advance(n)) directly for deterministic stepping.
  The demo binary calls Run(), which drives ticks from a real-time
  time.Ticker until Stop() is called.

USAGE:
  clk := clock.New(10) // 10 Hz
  cancel := clk.Subscribe(dispatcher.OnTick)
  clk.Advance(50)      // 5 simulated seconds
  cancel()

SEE ALSO:
  - logistics/dispatcher.go: the main tick consumer
  - tasks/manager.go: ticks all running task chains
*/
package clock

import (
	"log"
	"sync"
	"time"
)

// =============================================================================
// CLOCK - Fixed-step simulated time source
// =============================================================================

type Clock struct {
	ticksPerSecond int
	step           time.Duration // simulated time per tick at 1x

	now       time.Duration
	tickCount uint64
	paused    bool
	timeScale float64

	subs   []*subscription
	nextID int

	// Run/Stop state. The tick itself is single-threaded; the mutex only
	// guards the real-time driver lifecycle.
	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

type subscription struct {
	id int
	fn func()
}

// New creates a clock ticking at the given frequency. The observed
// simulation default is 10 Hz.
func New(ticksPerSecond int) *Clock {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 10
	}
	return &Clock{
		ticksPerSecond: ticksPerSecond,
		step:           time.Second / time.Duration(ticksPerSecond),
		timeScale:      1.0,
	}
}

// Now returns elapsed simulated time.
func (c *Clock) Now() time.Duration { return c.now }

// TickCount returns the number of ticks fired so far.
func (c *Clock) TickCount() uint64 { return c.tickCount }

// Step returns the simulated time advanced per tick at 1x scale.
func (c *Clock) Step() time.Duration { return c.step }

// Delta returns the simulated time the current tick advances: zero
// while paused, the step scaled by the time scale otherwise. Subscribers
// integrating motion or production over a tick must use this, not
// Step(), so their progress stays consistent with Now().
func (c *Clock) Delta() time.Duration {
	if c.paused {
		return 0
	}
	return time.Duration(float64(c.step) * c.timeScale)
}

func (c *Clock) SetPaused(paused bool) { c.paused = paused }
func (c *Clock) Paused() bool          { return c.paused }
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// Subscribe registers fn to be invoked on every tick, after all previously
// registered subscribers. The returned function unsubscribes.
func (c *Clock) Subscribe(fn func()) func() {
	c.nextID++
	sub := &subscription{id: c.nextID, fn: fn}
	c.subs = append(c.subs, sub)
	return func() {
		for i, s := range c.subs {
			if s.id == sub.id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Tick advances simulated time by one step and notifies subscribers.
// A paused clock still notifies (components may poll pause-independent
// state) but time does not advance.
func (c *Clock) Tick() {
	if !c.paused {
		c.now += time.Duration(float64(c.step) * c.timeScale)
	}
	c.tickCount++
	for _, s := range c.subs {
		s.fn()
	}
}

// Advance fires n ticks. Test helper, also used by headless batch runs.
func (c *Clock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// =============================================================================
// REAL-TIME DRIVER - Used by the demo binary
// =============================================================================

// Run drives Tick() from a real-time ticker until Stop is called.
func (c *Clock) Run() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(time.Second / time.Duration(c.ticksPerSecond))
	c.stop = make(chan struct{})
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ticker.C:
				c.Tick()
			case <-c.stop:
				return
			}
		}
	}()

	log.Printf("[Clock] Running at %d Hz", c.ticksPerSecond)
}

// Stop halts the real-time driver and waits for the tick loop to exit.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stop)
	c.wg.Wait()
	c.ticker = nil
	log.Println("[Clock] Stopped")
}
