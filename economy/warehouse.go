/*
warehouse.go - Bulk storage facility

PURPOSE:
  A Warehouse is a Ledger plus a capacity, exposing the Storage contract.
  An inactive warehouse (under construction, destroyed) rejects pickups
  and silently drops deliveries, matching the observed building lifecycle.

CAPACITY POLICY:
  Capacity was observed to be enforced per resource kind, which means a
  warehouse's total volume is effectively unbounded across kinds. Whether
  that is intentional is an open question, so the policy is configurable:

    CapacityPerKind (default): every kind independently gets the full
      capacity. Observed behavior.
    CapacityShared: all kinds share one capacity. Capacity(kind) reports
      total capacity minus stock of the other kinds, so the reservation
      arithmetic capacity - (stock + reservedSpace) yields the remaining
      shared space without special-casing.
*/
package economy

// CapacityMode selects how a warehouse's capacity is enforced.
type CapacityMode int

const (
	CapacityPerKind CapacityMode = iota
	CapacityShared
)

type Warehouse struct {
	id       FacilityID
	pos      Point
	capacity int
	mode     CapacityMode
	active   bool
	inv      *Ledger
}

func NewWarehouse(id FacilityID, pos Point, capacity int) *Warehouse {
	return &Warehouse{
		id:       id,
		pos:      pos,
		capacity: capacity,
		mode:     CapacityPerKind,
		active:   true,
		inv:      NewLedger(),
	}
}

// SetCapacityMode switches between per-kind and shared capacity.
func (w *Warehouse) SetCapacityMode(mode CapacityMode) { w.mode = mode }

// SetActive toggles whether the warehouse participates in the economy.
func (w *Warehouse) SetActive(active bool) { w.active = active }

func (w *Warehouse) ID() FacilityID     { return w.id }
func (w *Warehouse) Pos() Point         { return w.pos }
func (w *Warehouse) Inventory() *Ledger { return w.inv }

// Facility returns the registry entry for this warehouse.
func (w *Warehouse) Facility() *Facility {
	return &Facility{ID: w.id, Pos: w.pos, Storage: w}
}

// =============================================================================
// STORAGE CONTRACT
// =============================================================================

func (w *Warehouse) Capacity(kind ResourceKind) int {
	if w.mode == CapacityShared {
		other := w.inv.Total() - w.inv.Get(kind)
		cap := w.capacity - other
		if cap < 0 {
			cap = 0
		}
		return cap
	}
	return w.capacity
}

func (w *Warehouse) Get(kind ResourceKind) int { return w.inv.Get(kind) }

func (w *Warehouse) TryWithdraw(kind ResourceKind, amount int) bool {
	if !w.active {
		return false
	}
	return w.inv.Withdraw(kind, amount)
}

func (w *Warehouse) Deposit(kind ResourceKind, amount int) {
	if !w.active {
		return
	}
	w.inv.Deposit(kind, amount)
}
