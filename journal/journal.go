/*
Package journal is the append-only record of logistics activity.

PURPOSE:
  Every request lifecycle transition (enqueued, assigned, fulfilled,
  failed, expired, rolled back) is appended here as an immutable event.
  The journal is observability, not persistence of simulation state: the
  engine never reads its own state back from it. It exists so the monitor
  and operators can always explain how the economy got where it is.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: no update, no delete.
  2. IDEMPOTENT: same idempotency key = same event, duplicates rejected.
  3. NON-FATAL: a journal write failure is logged and the simulation
     carries on; the journal is never load-bearing.

IMPLEMENTATIONS:
  - journal.Memory (this package): in-memory, for tests and demos.
  - journal/sqlite: SQLite-backed, WAL mode.
*/
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/warp/logistics-engine/economy"
)

// =============================================================================
// EVENT
// =============================================================================

type EventType string

const (
	EventEnqueued   EventType = "enqueued"
	EventAssigned   EventType = "assigned"
	EventFulfilled  EventType = "fulfilled"
	EventFailed     EventType = "failed"
	EventExpired    EventType = "expired"
	EventRolledBack EventType = "rolled_back"
	EventCanceled   EventType = "canceled"
)

// Event is one immutable journal entry.
type Event struct {
	ID        string
	RequestID string
	Type      EventType
	Kind      economy.ResourceKind
	Quantity  int
	Facility  string // supplier/receiver when known

	// SimTime is the simulated clock reading; RecordedAt is wall time.
	SimTime    time.Duration
	RecordedAt time.Time

	IdempotencyKey string
}

// Journal stores events. Append-only.
type Journal interface {
	// Append records an event. Fails if the idempotency key exists.
	Append(ctx context.Context, e Event) error

	// Recent returns up to n most recent events, newest first.
	Recent(ctx context.Context, n int) ([]Event, error)
}

var (
	// ErrDuplicateIdempotencyKey is returned when an event with the same
	// idempotency key was already journaled. Expected on retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
