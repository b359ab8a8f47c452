/*
reserved.go - Reservation-settling pickup and delivery

PURPOSE:
  Same shape as Pickup/Deliver but settled against the reservation ledger
  instead of the raw capability, which guarantees the carrier only ever
  claims units that were reserved for this specific request. The optional
  OnConsumed callback reports how much of the reservation was actually
  settled, so the dispatcher can roll back exactly the unconsumed
  remainder when the reservation expires.
*/
package tasks

import (
	"log"

	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/reserve"
)

// =============================================================================
// RESERVED PICKUP - settle a stock reservation
// =============================================================================

type ReservedPickup struct {
	base
	res    *reserve.Ledger
	from   economy.Storage
	kind   economy.ResourceKind
	amount int

	// OnConsumed is invoked with the settled amount on success.
	OnConsumed func(n int)
}

func NewReservedPickup(res *reserve.Ledger, from economy.Storage, kind economy.ResourceKind, amount int) *ReservedPickup {
	return &ReservedPickup{res: res, from: from, kind: kind, amount: amount}
}

func (t *ReservedPickup) Init(ctx *Context) { t.begin(ctx) }

func (t *ReservedPickup) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Carrier == nil || t.res == nil || t.from == nil {
		log.Printf("[ReservedPickup] invalid context")
		t.fail()
		return
	}

	if !t.res.ConsumeReservedStock(t.from, t.kind, t.amount) {
		log.Printf("[ReservedPickup] could not settle stock reservation: %s x%d", t.kind, t.amount)
		t.fail()
		return
	}

	t.ctx.Carrier.Inventory().Deposit(t.kind, t.amount)
	if t.OnConsumed != nil {
		t.OnConsumed(t.amount)
	}
	t.succeed()
}

// =============================================================================
// RESERVED DELIVER - settle a space reservation
// =============================================================================

type ReservedDeliver struct {
	base
	res    *reserve.Ledger
	to     economy.Storage
	kind   economy.ResourceKind
	amount int // upper bound; actual delivery is min(amount, carried)

	OnConsumed func(n int)
}

func NewReservedDeliver(res *reserve.Ledger, to economy.Storage, kind economy.ResourceKind, amount int) *ReservedDeliver {
	return &ReservedDeliver{res: res, to: to, kind: kind, amount: amount}
}

func (t *ReservedDeliver) Init(ctx *Context) { t.begin(ctx) }

func (t *ReservedDeliver) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Carrier == nil || t.res == nil || t.to == nil {
		log.Printf("[ReservedDeliver] invalid context")
		t.fail()
		return
	}
	carry := t.ctx.Carrier.Inventory()

	carried := carry.Get(t.kind)
	if carried <= 0 {
		log.Printf("[ReservedDeliver] carrying no %s", t.kind)
		t.fail()
		return
	}
	deliver := t.amount
	if carried < deliver {
		deliver = carried
	}

	if !carry.Withdraw(t.kind, deliver) {
		t.fail()
		return
	}
	if !t.res.ConsumeReservedSpace(t.to, t.kind, deliver) {
		carry.Deposit(t.kind, deliver) // roll back, carrier keeps the goods
		log.Printf("[ReservedDeliver] could not settle space reservation: %s x%d", t.kind, deliver)
		t.fail()
		return
	}

	if t.OnConsumed != nil {
		t.OnConsumed(deliver)
	}
	t.succeed()
}
