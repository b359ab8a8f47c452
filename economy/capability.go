/*
capability.go - The contracts a facility can expose to the scheduler

PURPOSE:
  The scheduler never depends on concrete building types. A facility
  exposes up to three roles: Storage (bulk buffer with capacity),
  Producer (yields finished goods), Consumer (accepts input goods).
  Which roles a facility has is resolved once at registration (see
  facility.go), not re-checked per call.

  Movement is the fourth contract: the core issues a destination and
  polls for completion; path computation and locomotion are external.
*/
package economy

// Storage is a bulk buffer with per-kind capacity.
type Storage interface {
	// Capacity returns the capacity for the given kind. With a shared
	// capacity policy this is the total minus stock of other kinds, so
	// capacity - stock(kind) is always the remaining free space.
	Capacity(kind ResourceKind) int

	// Get returns the stored quantity.
	Get(kind ResourceKind) int

	// TryWithdraw removes amount units; false (no mutation) if
	// insufficient or the facility is inactive.
	TryWithdraw(kind ResourceKind, amount int) bool

	// Deposit adds amount units. Deposit does not enforce capacity; space
	// reservations are the overcommit discipline (see package reserve).
	Deposit(kind ResourceKind, amount int)
}

// Producer yields finished goods from an internal output buffer.
type Producer interface {
	// TryCollect pulls amount units of finished goods; false if the
	// output buffer holds fewer. Producers expose no stock query.
	TryCollect(kind ResourceKind, amount int) bool
}

// Consumer accepts input goods into an internal input buffer.
type Consumer interface {
	CanAccept(kind ResourceKind, amount int) bool
	TryAccept(kind ResourceKind, amount int) bool
}

// Movement is the locomotion contract a carrier exposes to tasks.
type Movement interface {
	MoveTo(target Point)
	IsMoving() bool
}
