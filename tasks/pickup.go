/*
pickup.go - Pickup task with insufficiency policies

PURPOSE:
  Takes goods from a facility into the carrier's carry ledger. Works
  against either the Storage or the Producer role of the source facility,
  resolved from the capability bundle.

POLICIES (what to do when the source cannot cover the requested amount):
  PickupExact:       fail immediately.
  PickupTakeAll:     withdraw whatever is available right now (at least
                     1 unit), fail only when nothing is available.
  PickupWait:        poll at a fixed retry interval; fail when the overall
                     timeout elapses without the full amount appearing.

PRODUCER SOURCES:
  Producers expose no stock query, so TakeAll probes descending amounts
  (n, n-1, ... 1) until one TryCollect succeeds.
*/
package tasks

import (
	"log"
	"time"

	"github.com/warp/logistics-engine/economy"
)

type PickupPolicy int

const (
	PickupExact PickupPolicy = iota
	PickupTakeAll
	PickupWait
)

const (
	defaultRetryInterval = 1 * time.Second
	defaultPickupTimeout = 15 * time.Second
)

type Pickup struct {
	base
	from   *economy.Facility
	kind   economy.ResourceKind
	amount int
	policy PickupPolicy

	retryInterval time.Duration
	timeout       time.Duration
	startAt       time.Duration
	lastTry       time.Duration
	tried         bool
}

func NewPickup(from *economy.Facility, kind economy.ResourceKind, amount int, policy PickupPolicy) *Pickup {
	return &Pickup{
		from:          from,
		kind:          kind,
		amount:        amount,
		policy:        policy,
		retryInterval: defaultRetryInterval,
		timeout:       defaultPickupTimeout,
	}
}

// WithRetry overrides the wait policy's retry interval and timeout.
func (t *Pickup) WithRetry(interval, timeout time.Duration) *Pickup {
	if interval > 0 {
		t.retryInterval = interval
	}
	if timeout > 0 {
		t.timeout = timeout
	}
	return t
}

func (t *Pickup) Init(ctx *Context) {
	t.begin(ctx)
	if t.from == nil || t.amount <= 0 {
		log.Printf("[Pickup] invalid source or amount <= 0")
		t.fail()
		return
	}
	t.startAt = ctx.Clock.Now()
	t.tried = false
}

func (t *Pickup) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Carrier == nil {
		t.fail()
		return
	}

	now := t.ctx.Clock.Now()
	if t.policy == PickupWait {
		if now-t.startAt > t.timeout {
			log.Printf("[Pickup] wait timed out: %s x%d", t.kind, t.amount)
			t.fail()
			return
		}
		if t.tried && now-t.lastTry < t.retryInterval {
			return
		}
	}
	t.lastTry = now
	t.tried = true

	carry := t.ctx.Carrier.Inventory()

	if s := t.from.Storage; s != nil {
		if s.TryWithdraw(t.kind, t.amount) {
			carry.Deposit(t.kind, t.amount)
			t.succeed()
			return
		}
		switch t.policy {
		case PickupExact:
			t.fail()
		case PickupTakeAll:
			have := s.Get(t.kind)
			if have > 0 && s.TryWithdraw(t.kind, have) {
				carry.Deposit(t.kind, have)
				t.succeed()
			} else {
				t.fail()
			}
		case PickupWait:
			// keep polling
		}
		return
	}

	if p := t.from.Producer; p != nil {
		if p.TryCollect(t.kind, t.amount) {
			carry.Deposit(t.kind, t.amount)
			t.succeed()
			return
		}
		switch t.policy {
		case PickupExact:
			t.fail()
		case PickupTakeAll:
			for take := t.amount - 1; take >= 1; take-- {
				if p.TryCollect(t.kind, take) {
					carry.Deposit(t.kind, take)
					t.succeed()
					return
				}
			}
			t.fail()
		case PickupWait:
			// keep polling
		}
		return
	}

	log.Printf("[Pickup] facility %s exposes neither Storage nor Producer", t.from.ID)
	t.fail()
}
