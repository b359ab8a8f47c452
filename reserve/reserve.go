/*
Package reserve tracks soft reservations against storage facilities.

PURPOSE:
  The Ledger here is the concurrency-control discipline of the scheduler.
  Multiple task chains are logically in flight at once (interleaved per
  tick); without reservations two carriers could be dispatched for the
  same units of stock, or two deliveries promised the same unit of free
  space. A reservation is a provisional claim created at assignment time
  and destroyed either by consumption (the carrier physically picks up or
  delivers) or by expiry rollback in the dispatcher.

CRITICAL INVARIANTS:
  1. reservedStock(s,k) <= actualStock(s,k) at all times.
  2. reservedSpace(s,k) + actualStock(s,k) <= capacity(s,k) at all times.
  3. Reserve never grants more than requested nor more than available.
  4. Unreserve is floored at zero: releasing more than is reserved is
     idempotent, never a negative reservation.

CONSUMPTION:
  ConsumeReservedStock / ConsumeReservedSpace settle a reservation against
  the real ledger atomically: verify the reservation covers the amount,
  decrement it, then perform the physical withdrawal or deposit. If the
  physical operation is refused the reservation is restored, so failure
  leaves no mutation.

SEE ALSO:
  - logistics/dispatcher.go: creates reservations and rolls back expired ones
  - tasks/reserved.go: consumes reservations at pickup/delivery time
*/
package reserve

import "github.com/warp/logistics-engine/economy"

// =============================================================================
// RESERVATION LEDGER
// =============================================================================

type key struct {
	storage economy.Storage
	kind    economy.ResourceKind
}

// Ledger tracks reserved stock and reserved space per (storage, kind),
// independent of the storages' real ledgers.
type Ledger struct {
	stock map[key]int
	space map[key]int
}

func NewLedger() *Ledger {
	return &Ledger{
		stock: make(map[key]int),
		space: make(map[key]int),
	}
}

// =============================================================================
// STOCK RESERVATIONS - promises to a future pickup
// =============================================================================

// ReservedStock returns the units currently promised to future pickups.
func (l *Ledger) ReservedStock(s economy.Storage, k economy.ResourceKind) int {
	return l.stock[key{s, k}]
}

// AvailableStock returns actual stock minus reserved stock, floored at 0.
func (l *Ledger) AvailableStock(s economy.Storage, k economy.ResourceKind) int {
	avail := s.Get(k) - l.ReservedStock(s, k)
	if avail < 0 {
		return 0
	}
	return avail
}

// ReserveStock reserves min(want, available) units and returns how many
// were reserved; 0 if nothing is available.
func (l *Ledger) ReserveStock(s economy.Storage, k economy.ResourceKind, want int) int {
	can := l.AvailableStock(s, k)
	take := want
	if take > can {
		take = can
	}
	if take <= 0 {
		return 0
	}
	l.stock[key{s, k}] += take
	return take
}

// UnreserveStock releases up to amount reserved units. Floored at zero.
func (l *Ledger) UnreserveStock(s economy.Storage, k economy.ResourceKind, amount int) {
	kk := key{s, k}
	cur := l.stock[kk] - amount
	if cur <= 0 {
		delete(l.stock, kk)
		return
	}
	l.stock[kk] = cur
}

// ConsumeReservedStock settles amount reserved units by withdrawing them
// from the storage's real ledger. Fails without mutation when the
// reservation or the physical stock is insufficient.
func (l *Ledger) ConsumeReservedStock(s economy.Storage, k economy.ResourceKind, amount int) bool {
	kk := key{s, k}
	cur := l.stock[kk]
	if cur < amount {
		return false
	}
	if !s.TryWithdraw(k, amount) {
		return false
	}
	if cur == amount {
		delete(l.stock, kk)
	} else {
		l.stock[kk] = cur - amount
	}
	return true
}

// =============================================================================
// SPACE RESERVATIONS - promises to a future delivery
// =============================================================================

// ReservedSpace returns the units of free capacity promised to future
// deliveries.
func (l *Ledger) ReservedSpace(s economy.Storage, k economy.ResourceKind) int {
	return l.space[key{s, k}]
}

// AvailableSpace returns capacity - (stock + reserved space), floored at 0.
func (l *Ledger) AvailableSpace(s economy.Storage, k economy.ResourceKind) int {
	avail := s.Capacity(k) - (s.Get(k) + l.ReservedSpace(s, k))
	if avail < 0 {
		return 0
	}
	return avail
}

// ReserveSpace reserves min(want, available) units of free space and
// returns how many were reserved; 0 if nothing is available.
func (l *Ledger) ReserveSpace(s economy.Storage, k economy.ResourceKind, want int) int {
	can := l.AvailableSpace(s, k)
	take := want
	if take > can {
		take = can
	}
	if take <= 0 {
		return 0
	}
	l.space[key{s, k}] += take
	return take
}

// UnreserveSpace releases up to amount reserved units of space.
func (l *Ledger) UnreserveSpace(s economy.Storage, k economy.ResourceKind, amount int) {
	kk := key{s, k}
	cur := l.space[kk] - amount
	if cur <= 0 {
		delete(l.space, kk)
		return
	}
	l.space[kk] = cur
}

// ConsumeReservedSpace settles amount reserved units of space by
// performing the real deposit. Fails without mutation when the
// reservation is insufficient.
func (l *Ledger) ConsumeReservedSpace(s economy.Storage, k economy.ResourceKind, amount int) bool {
	kk := key{s, k}
	cur := l.space[kk]
	if cur < amount {
		return false
	}
	if cur == amount {
		delete(l.space, kk)
	} else {
		l.space[kk] = cur - amount
	}
	s.Deposit(k, amount)
	return true
}
