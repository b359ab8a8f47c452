/*
ledger.go - Quantity-per-kind store owned by a facility or carrier

PURPOSE:
  The Ledger is the physical stock of a single owner: a warehouse's bulk
  buffer, a production facility's input or output buffer, or a carrier's
  carry space. It is the source of truth for what actually exists; the
  reservation ledger (package reserve) only layers promises on top of it.

CRITICAL INVARIANTS:
  1. Quantities are never negative.
  2. Withdraw is all-or-nothing: insufficient stock fails with no mutation.
  3. A Ledger is owned by exactly one entity and is never shared by
     reference between entities. Moving goods means withdrawing from one
     ledger and depositing into another.

CONCURRENCY:
  The simulation is single-threaded and cooperative; ledgers are mutated
  only on the tick goroutine and carry no locks. Anything that needs to
  read them concurrently (the HTTP monitor) reads a published snapshot
  instead.

SEE ALSO:
  - reserve/reserve.go: soft reservations against Storage ledgers
*/
package economy

// Ledger maps resource kinds to non-negative quantities.
type Ledger struct {
	stock map[ResourceKind]int
}

func NewLedger() *Ledger {
	return &Ledger{stock: make(map[ResourceKind]int)}
}

// Get returns the stored quantity, 0 if absent.
func (l *Ledger) Get(kind ResourceKind) int { return l.stock[kind] }

// Deposit adds amount units. Non-positive amounts are ignored.
func (l *Ledger) Deposit(kind ResourceKind, amount int) {
	if amount <= 0 {
		return
	}
	l.stock[kind] += amount
}

// Withdraw removes amount units. Returns false (no mutation) if the
// ledger holds fewer than amount. There is no partial withdrawal.
func (l *Ledger) Withdraw(kind ResourceKind, amount int) bool {
	if amount <= 0 {
		return true
	}
	cur := l.stock[kind]
	if cur < amount {
		return false
	}
	l.stock[kind] = cur - amount
	return true
}

// Total returns the summed quantity across all kinds. Used by warehouses
// with a shared capacity policy.
func (l *Ledger) Total() int {
	total := 0
	for _, v := range l.stock {
		total += v
	}
	return total
}

// Snapshot returns a copy of the non-zero quantities.
func (l *Ledger) Snapshot() map[ResourceKind]int {
	out := make(map[ResourceKind]int, len(l.stock))
	for k, v := range l.stock {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
