/*
Package tasks provides the task engine and the atomic task library.

PURPOSE:
  A Task is one unit of executable, interruptible work for a carrier. The
  dispatcher composes atomic tasks into a Sequence (one carrier's full
  round trip: move, reserved pickup, move, reserved deliver, release) and
  hands the sequence to the Manager, which assigns it to an idle carrier
  and polls it every tick.

LIFECYCLE:
  Pending -> Running   Init(ctx) binds the carrier context and starts work.
  Running -> Success   the task's goal is met.
  Running -> Failed    the task cannot complete.
  Running -> Canceled  Cancel() was called; also Pending -> Canceled for
                       steps that never started.

  Tick() does work only while Running. A task that must wait (a move in
  progress, a pickup polling for stock) simply returns from Tick without
  changing state and is polled again next tick; nothing blocks the tick
  thread.

ERROR MODEL:
  Failure is a status, not an error value: the chain above reacts to the
  status and the dispatcher applies cooldown/rollback policy. Side effects
  already committed by earlier steps of a chain are never compensated
  automatically (a picked-up load stays on the carrier if the delivery
  later fails). That is accepted behavior, preserved deliberately.
*/
package tasks

import (
	"github.com/warp/logistics-engine/clock"
	"github.com/warp/logistics-engine/economy"
)

// =============================================================================
// STATUS
// =============================================================================

type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusFailed
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCanceled
}

// =============================================================================
// TASK
// =============================================================================

type Task interface {
	Priority() int
	Status() Status

	// Init binds the execution context and transitions Pending -> Running.
	Init(ctx *Context)

	// Tick performs one slice of work. No-op unless Running.
	Tick()

	// Cancel transitions a Pending or Running task to Canceled.
	Cancel()
}

// Context is the execution environment handed to a task chain: the
// carrier doing the work, its movement capability, the facility registry
// and the simulated clock.
type Context struct {
	Registry *economy.Registry
	Carrier  *economy.Carrier
	Mover    economy.Movement
	Clock    *clock.Clock
}

// =============================================================================
// BASE - common state machine plumbing embedded by every task
// =============================================================================

type base struct {
	priority int
	status   Status
	ctx      *Context
}

func (b *base) Priority() int  { return b.priority }
func (b *base) Status() Status { return b.status }

// begin is called from each task's Init.
func (b *base) begin(ctx *Context) {
	b.ctx = ctx
	b.status = StatusRunning
}

func (b *base) succeed() { b.status = StatusSuccess }
func (b *base) fail()    { b.status = StatusFailed }

// Cancel covers atomic tasks; Sequence overrides it to propagate downward.
func (b *base) Cancel() {
	if b.status == StatusPending || b.status == StatusRunning {
		b.status = StatusCanceled
	}
}
