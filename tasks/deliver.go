/*
deliver.go - Deliver task

PURPOSE:
  Moves goods from the carrier's carry ledger into a target facility.
  Prefers the Consumer role (it can refuse) and falls back to Storage.
  The carry ledger is debited first; if the target rejects the delivery
  the debit is rolled back, so the carrier keeps the goods and the task
  fails.

POLICIES:
  DeliverExact:   the carrier must hold at least the requested amount.
  DeliverCarried: deliver min(amount, carried); fail only when the
                  carrier holds none of the kind.
*/
package tasks

import (
	"log"

	"github.com/warp/logistics-engine/economy"
)

type DeliverPolicy int

const (
	DeliverExact DeliverPolicy = iota
	DeliverCarried
)

type Deliver struct {
	base
	to     *economy.Facility
	kind   economy.ResourceKind
	amount int
	policy DeliverPolicy
}

func NewDeliver(to *economy.Facility, kind economy.ResourceKind, amount int, policy DeliverPolicy) *Deliver {
	return &Deliver{to: to, kind: kind, amount: amount, policy: policy}
}

func (t *Deliver) Init(ctx *Context) {
	t.begin(ctx)
	if t.to == nil || t.amount <= 0 {
		t.fail()
	}
}

func (t *Deliver) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Carrier == nil {
		t.fail()
		return
	}
	carry := t.ctx.Carrier.Inventory()

	amount := t.amount
	if t.policy == DeliverCarried {
		carried := carry.Get(t.kind)
		if carried <= 0 {
			log.Printf("[Deliver] carrying no %s", t.kind)
			t.fail()
			return
		}
		if carried < amount {
			amount = carried
		}
	}

	if !carry.Withdraw(t.kind, amount) {
		log.Printf("[Deliver] carrier short of %s x%d", t.kind, amount)
		t.fail()
		return
	}

	if c := t.to.Consumer; c != nil {
		if !c.CanAccept(t.kind, amount) || !c.TryAccept(t.kind, amount) {
			carry.Deposit(t.kind, amount) // target refused, keep the goods
			t.fail()
			return
		}
		t.succeed()
		return
	}

	if s := t.to.Storage; s != nil {
		s.Deposit(t.kind, amount)
		t.succeed()
		return
	}

	carry.Deposit(t.kind, amount)
	log.Printf("[Deliver] facility %s exposes neither Consumer nor Storage", t.to.ID)
	t.fail()
}
