/*
request.go - Logistics request lifecycle types

PURPOSE:
  A LogisticsRequest is a demand for resource movement: pull raw material
  from a storage into a consumer, or push finished goods from a producer
  into a storage. Requests carry a priority, a minimum dispatch batch, a
  time-to-live, and - once the dispatcher commits to them - the soft
  reservation that protects their stock or space until the carrier
  arrives.

STATE MACHINE:
  Pending -> Reserved -> Assigned -> Fulfilled
                |            |
                |            +-> (reservation expiry) -> Pending (requeue)
                |            +-> Failed (retry cap exceeded / chain failed)
                +-> (assignment aborted) -> Pending
  Pending -> Canceled (TTL expiry while still queued)

SEE ALSO:
  - queue.go: priority ordering
  - dispatcher.go: all transitions happen there
*/
package logistics

import (
	"time"

	"github.com/google/uuid"

	"github.com/warp/logistics-engine/economy"
)

// =============================================================================
// REQUEST
// =============================================================================

type RequestKind int

const (
	PullInput  RequestKind = iota // storage -> consumer
	PushOutput                    // producer -> storage
)

func (k RequestKind) String() string {
	if k == PullInput {
		return "pull_input"
	}
	return "push_output"
}

type RequestState int

const (
	StatePending RequestState = iota
	StateReserved
	StateAssigned
	StateFulfilled
	StateFailed
	StateCanceled
)

func (s RequestState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReserved:
		return "reserved"
	case StateAssigned:
		return "assigned"
	case StateFulfilled:
		return "fulfilled"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type Request struct {
	ID       string
	Kind     RequestKind
	Resource economy.ResourceKind
	Quantity int
	MinBatch int
	Priority int

	// Requester identity: Consumer for PullInput, Producer for PushOutput.
	Consumer *economy.Facility
	Producer *economy.Facility

	CreatedAt time.Duration // simulated time of (re-)enqueue
	TTL       time.Duration

	State RequestState

	// Reservation currently held, decremented as tasks consume it so
	// expiry rollback releases exactly the unconsumed remainder.
	ReservedFrom    economy.Storage
	ReservedAmount  int
	ReservedTo      economy.Storage
	ReservedSpace   int
	ReserveExpireAt time.Duration

	// Retries counts reservation-expiry requeues.
	Retries int
}

// NewPullRequest creates a demand to haul resource into the consumer.
func NewPullRequest(consumer *economy.Facility, kind economy.ResourceKind, quantity int) *Request {
	return &Request{
		ID:       uuid.NewString(),
		Kind:     PullInput,
		Resource: kind,
		Quantity: quantity,
		Consumer: consumer,
	}
}

// NewPushRequest creates a demand to haul the producer's output away.
func NewPushRequest(producer *economy.Facility, kind economy.ResourceKind, quantity int) *Request {
	return &Request{
		ID:       uuid.NewString(),
		Kind:     PushOutput,
		Resource: kind,
		Quantity: quantity,
		Producer: producer,
	}
}

// RequesterKey is the identity cooldowns are keyed by.
func (r *Request) RequesterKey() economy.FacilityID {
	if r.Kind == PullInput && r.Consumer != nil {
		return r.Consumer.ID
	}
	if r.Kind == PushOutput && r.Producer != nil {
		return r.Producer.ID
	}
	return economy.FacilityID(r.ID)
}

// requesterPos is the scheduling point used for nearest-candidate search.
func (r *Request) requesterPos() economy.Point {
	if r.Kind == PullInput && r.Consumer != nil {
		return r.Consumer.Pos
	}
	if r.Kind == PushOutput && r.Producer != nil {
		return r.Producer.Pos
	}
	return economy.Point{}
}

// clearReservation drops reservation bookkeeping after rollback.
func (r *Request) clearReservation() {
	r.ReservedFrom = nil
	r.ReservedAmount = 0
	r.ReservedTo = nil
	r.ReservedSpace = 0
}
