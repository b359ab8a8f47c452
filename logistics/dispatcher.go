/*
dispatcher.go - Request dispatcher

PURPOSE:
  The dispatcher is the matchmaker of the economy. Each tick it expires
  stale requests, rolls back overdue reservations, reaps finished task
  chains and then assigns a bounded number of queued requests: for each
  one it picks the nearest viable storage, places a soft reservation and
  emits a carrier task chain to settle it.

PER-TICK ORDER:
  1. Expire pending requests past their TTL.
  2. Roll back reservations past their deadline, requeue or fail.
  3. Reap terminal chains (failure rollback, requeue or fail).
  4. Assign up to ChainsPerTick queued requests.
  5. Publish a snapshot for the HTTP monitor.

THREADING:
  Everything above runs on the tick thread. The only concurrent access
  is Snapshot(), which copies the last published snapshot under a read
  lock. Engine state itself is never touched off the tick thread.

SEE ALSO:
  - reserve/reserve.go: the reservation ledger this dispatcher drives
  - tasks/sequence.go: the chains it emits
  - autopilot.go: the closed loops that feed it requests
*/
package logistics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/logistics-engine/clock"
	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/journal"
	"github.com/warp/logistics-engine/reserve"
	"github.com/warp/logistics-engine/tasks"
)

// =============================================================================
// DISPATCHER
// =============================================================================

type cooldownKey struct {
	requester economy.FacilityID
	kind      economy.ResourceKind
}

type Dispatcher struct {
	registry *economy.Registry
	reserve  *reserve.Ledger
	tasks    *tasks.Manager
	clock    *clock.Clock
	journal  journal.Journal
	tuning   Tuning
	stats    *Stats

	queue     requestQueue
	inFlight  map[string]*Request
	chains    map[string]*tasks.Sequence
	lingering []*Request // fulfilled with an unconsumed remainder
	cooldowns map[cooldownKey]time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewDispatcher(reg *economy.Registry, res *reserve.Ledger, tm *tasks.Manager, clk *clock.Clock, jnl journal.Journal, tuning Tuning) *Dispatcher {
	tuning.fillDefaults()
	return &Dispatcher{
		registry:  reg,
		reserve:   res,
		tasks:     tm,
		clock:     clk,
		journal:   jnl,
		tuning:    tuning,
		stats:     &Stats{},
		inFlight:  make(map[string]*Request),
		chains:    make(map[string]*tasks.Sequence),
		cooldowns: make(map[cooldownKey]time.Duration),
	}
}

func (d *Dispatcher) Stats() *Stats   { return d.stats }
func (d *Dispatcher) Tuning() Tuning  { return d.tuning }
func (d *Dispatcher) PendingLen() int { return d.queue.Len() }
func (d *Dispatcher) InFlightLen() int {
	return len(d.inFlight)
}

// =============================================================================
// ENQUEUE / CANCEL - the public request surface
// =============================================================================

// Enqueue accepts a request into the pending queue. Rejections are
// invalid input only; a cooled-down requester's request still queues
// and simply waits out the window in assign.
func (d *Dispatcher) Enqueue(r *Request) error {
	if r == nil {
		return ErrNoRequester
	}
	if r.Kind == PullInput && r.Consumer == nil || r.Kind == PushOutput && r.Producer == nil {
		return ErrNoRequester
	}
	if r.Quantity <= 0 {
		return ErrBadQuantity
	}

	now := d.clock.Now()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.MinBatch <= 0 {
		r.MinBatch = d.tuning.DefaultMinBatch
	}
	if r.TTL <= 0 {
		r.TTL = d.tuning.RequestTTL
	}
	r.CreatedAt = now
	r.State = StatePending

	d.queue.Push(r)
	d.stats.recordEnqueued()
	d.journalEvent(journal.EventEnqueued, r, "")
	return nil
}

// Cancel withdraws a request, queued or in flight. Reservations held by
// an in-flight request are rolled back; side effects already committed
// by its chain stay committed.
func (d *Dispatcher) Cancel(id string) error {
	if d.queue.Remove(id) {
		d.stats.recordCanceled()
		return nil
	}
	r, ok := d.inFlight[id]
	if !ok {
		return ErrUnknownRequest
	}
	if ch := d.chains[id]; ch != nil {
		ch.Cancel()
	}
	d.rollbackReservation(r)
	r.State = StateCanceled
	delete(d.inFlight, id)
	delete(d.chains, id)
	d.stats.recordCanceled()
	d.journalEvent(journal.EventCanceled, r, "")
	return nil
}

// HasOpenRequest reports whether the requester already has a queued or
// in-flight request for the resource. Closed loops use it to avoid
// stacking duplicate requests tick after tick.
func (d *Dispatcher) HasOpenRequest(requester economy.FacilityID, kind economy.ResourceKind) bool {
	found := false
	d.queue.Each(func(r *Request) {
		if r.RequesterKey() == requester && r.Resource == kind {
			found = true
		}
	})
	if found {
		return true
	}
	for _, r := range d.inFlight {
		if r.RequesterKey() == requester && r.Resource == kind {
			return true
		}
	}
	return false
}

// =============================================================================
// TICK - the scheduling loop
// =============================================================================

func (d *Dispatcher) OnTick() {
	now := d.clock.Now()
	d.expirePending(now)
	d.expireReservations(now)
	d.reapChains()
	d.assign(now)
	d.publishSnapshot(now)
}

// expirePending cancels queued requests that outlived their TTL.
func (d *Dispatcher) expirePending(now time.Duration) {
	var keep []*Request
	expired := 0
	d.queue.Each(func(r *Request) {
		if now-r.CreatedAt > r.TTL {
			r.State = StateCanceled
			d.stats.recordExpired()
			d.stats.recordCanceled()
			d.journalEvent(journal.EventExpired, r, "")
			expired++
			return
		}
		keep = append(keep, r)
	})
	if expired > 0 {
		d.queue.items = keep
	}
}

// expireReservations rolls back overdue reservations, both on in-flight
// requests (requeue or fail) and on fulfilled requests that left a
// remainder behind.
func (d *Dispatcher) expireReservations(now time.Duration) {
	for id, r := range d.inFlight {
		if now <= r.ReserveExpireAt {
			continue
		}
		log.Printf("[Dispatcher] reservation expired for %s (%s x%d), rolling back", r.ID, r.Resource, r.Quantity)
		if ch := d.chains[id]; ch != nil {
			ch.Cancel()
		}
		delete(d.inFlight, id)
		delete(d.chains, id)
		d.retryOrFail(r, now)
	}

	var linger []*Request
	for _, r := range d.lingering {
		if now > r.ReserveExpireAt {
			d.rollbackReservation(r)
			d.journalEvent(journal.EventRolledBack, r, "")
			continue
		}
		linger = append(linger, r)
	}
	d.lingering = linger
}

// reapChains handles chains that terminated on their own. Fulfillment
// is reported by the chain's final Notify step, so anything still in
// flight with a terminal chain either failed or was canceled. A failed
// chain does not roll back here: the request keeps its remaining
// reservation until the reservation deadline, when the expiry sweep
// rolls it back and requeues or fails it.
func (d *Dispatcher) reapChains() {
	for id, ch := range d.chains {
		if !ch.Status().Terminal() {
			continue
		}
		r, ok := d.inFlight[id]
		delete(d.chains, id)
		if !ok {
			continue
		}
		if ch.Status() == tasks.StatusSuccess {
			// Chain finished but Notify never fired; settle it here.
			delete(d.inFlight, id)
			d.fulfill(r)
			continue
		}
		d.startCooldown(r, d.clock.Now())
		log.Printf("[Dispatcher] chain for %s ended %s, holding reservation until deadline", r.ID, ch.Status())
	}
}

// retryOrFail rolls back the request's reservation, then requeues it
// with a fresh TTL or fails it when the retry cap is hit. Final failure
// restarts the requester's cooldown so its next request waits out the
// window before assignment.
func (d *Dispatcher) retryOrFail(r *Request, now time.Duration) {
	d.rollbackReservation(r)
	r.Retries++
	if d.tuning.MaxReserveRetries > 0 && r.Retries > d.tuning.MaxReserveRetries {
		r.State = StateFailed
		d.startCooldown(r, now)
		d.stats.recordFailed()
		d.journalEvent(journal.EventFailed, r, "")
		return
	}
	r.State = StatePending
	r.CreatedAt = now
	d.queue.Push(r)
	d.stats.recordRequeued()
	d.journalEvent(journal.EventRolledBack, r, "")
}

// rollbackReservation releases whatever the request still holds.
func (d *Dispatcher) rollbackReservation(r *Request) {
	if r.ReservedFrom != nil && r.ReservedAmount > 0 {
		d.reserve.UnreserveStock(r.ReservedFrom, r.Resource, r.ReservedAmount)
	}
	if r.ReservedTo != nil && r.ReservedSpace > 0 {
		d.reserve.UnreserveSpace(r.ReservedTo, r.Resource, r.ReservedSpace)
	}
	r.clearReservation()
}

// startCooldown opens the requester's per-resource cooldown window.
// Assignment skips the requester's pending requests until it closes.
// A zero cooldown disables the window entirely.
func (d *Dispatcher) startCooldown(r *Request, now time.Duration) {
	if d.tuning.RequestCooldown <= 0 {
		return
	}
	d.cooldowns[cooldownKey{r.RequesterKey(), r.Resource}] = now + d.tuning.RequestCooldown
}

func (d *Dispatcher) inCooldown(r *Request, now time.Duration) bool {
	ck := cooldownKey{r.RequesterKey(), r.Resource}
	until, ok := d.cooldowns[ck]
	if !ok {
		return false
	}
	if now >= until {
		delete(d.cooldowns, ck)
		return false
	}
	return true
}

// =============================================================================
// ASSIGNMENT - reservation plus chain emission
// =============================================================================

// assign pops queued requests in priority order and tries to dispatch
// each, up to the per-tick chain budget. Requests that cannot be served
// this tick (requester cooldown, no candidate, resource cap) go back to
// the queue head.
func (d *Dispatcher) assign(now time.Duration) {
	var deferred []*Request
	emitted := 0
	for emitted < d.tuning.ChainsPerTick {
		r := d.queue.Pop()
		if r == nil {
			break
		}
		if d.inCooldown(r, now) {
			deferred = append(deferred, r)
			continue
		}
		if d.inFlightFor(r.Resource) >= d.tuning.MaxConcurrentPerResource {
			deferred = append(deferred, r)
			continue
		}
		if !d.tryAssign(r, now) {
			deferred = append(deferred, r)
			continue
		}
		emitted++
	}
	d.queue.requeueFront(deferred)
}

func (d *Dispatcher) inFlightFor(kind economy.ResourceKind) int {
	n := 0
	for _, r := range d.inFlight {
		if r.Resource == kind {
			n++
		}
	}
	return n
}

func (d *Dispatcher) tryAssign(r *Request, now time.Duration) bool {
	if r.Kind == PullInput {
		return d.assignPull(r, now)
	}
	return d.assignPush(r, now)
}

// batchFloor is the smallest dispatch worth sending: the request's
// minimum batch, at least one unit.
func (r *Request) batchFloor() int {
	if r.MinBatch < 1 {
		return 1
	}
	return r.MinBatch
}

// reserveTarget is the amount a dispatch aims to haul: the requested
// quantity, rounded up to the minimum batch.
func (r *Request) reserveTarget() int {
	if r.Quantity < r.MinBatch {
		return r.MinBatch
	}
	return r.Quantity
}

// assignPull reserves stock at the nearest storage that can cover the
// batch floor and emits: move, reserved pickup, move, deliver, notify.
func (d *Dispatcher) assignPull(r *Request, now time.Duration) bool {
	floor := r.batchFloor()
	src := d.registry.NearestStorage(r.requesterPos(), func(f *economy.Facility) bool {
		return d.reservable(f.Storage, r.Resource) >= floor
	})
	if src == nil {
		return false
	}

	want := r.reserveTarget()
	if can := d.reservable(src.Storage, r.Resource); want > can {
		want = can
	}
	got := d.reserve.ReserveStock(src.Storage, r.Resource, want)
	if got < floor {
		d.reserve.UnreserveStock(src.Storage, r.Resource, got)
		return false
	}

	r.State = StateReserved
	r.ReservedFrom = src.Storage
	r.ReservedAmount = got
	r.ReserveExpireAt = now + d.tuning.ReserveTTL

	pickup := tasks.NewReservedPickup(d.reserve, src.Storage, r.Resource, got)
	pickup.OnConsumed = func(n int) { r.ReservedAmount -= n }

	chain := tasks.NewSequence(
		tasks.NewMove(src.Pos),
		pickup,
		tasks.NewMove(r.Consumer.Pos),
		tasks.NewDeliver(r.Consumer, r.Resource, got, tasks.DeliverCarried),
		tasks.NewNotify(func() { d.complete(r.ID) }),
	)
	d.emit(r, chain, string(src.ID), got)
	return true
}

// assignPush reserves space at the nearest storage, then emits: move to
// producer, take-all pickup, move, reserved deliver, notify.
func (d *Dispatcher) assignPush(r *Request, now time.Duration) bool {
	floor := r.batchFloor()
	dst := d.registry.NearestStorage(r.requesterPos(), func(f *economy.Facility) bool {
		return d.reserve.AvailableSpace(f.Storage, r.Resource) >= floor
	})
	if dst == nil {
		return false
	}

	want := r.reserveTarget()
	if can := d.reserve.AvailableSpace(dst.Storage, r.Resource); want > can {
		want = can
	}
	got := d.reserve.ReserveSpace(dst.Storage, r.Resource, want)
	if got < floor {
		d.reserve.UnreserveSpace(dst.Storage, r.Resource, got)
		return false
	}

	r.State = StateReserved
	r.ReservedTo = dst.Storage
	r.ReservedSpace = got
	r.ReserveExpireAt = now + d.tuning.ReserveTTL

	deliver := tasks.NewReservedDeliver(d.reserve, dst.Storage, r.Resource, got)
	deliver.OnConsumed = func(n int) { r.ReservedSpace -= n }

	chain := tasks.NewSequence(
		tasks.NewMove(r.Producer.Pos),
		tasks.NewPickup(r.Producer, r.Resource, got, tasks.PickupTakeAll),
		tasks.NewMove(dst.Pos),
		deliver,
		tasks.NewNotify(func() { d.complete(r.ID) }),
	)
	d.emit(r, chain, string(dst.ID), got)
	return true
}

// reservable is available stock less the per-warehouse keep floor.
func (d *Dispatcher) reservable(s economy.Storage, kind economy.ResourceKind) int {
	n := d.reserve.AvailableStock(s, kind) - d.tuning.MinKeepPerWarehouse
	if n < 0 {
		return 0
	}
	return n
}

func (d *Dispatcher) emit(r *Request, chain *tasks.Sequence, facility string, amount int) {
	chain.SetPriority(r.Priority)
	r.State = StateAssigned
	d.inFlight[r.ID] = r
	d.chains[r.ID] = chain
	d.tasks.Enqueue(chain)
	d.journalEventN(journal.EventAssigned, r, facility, amount)
}

// =============================================================================
// COMPLETION
// =============================================================================

// complete is fired by a chain's Notify step, on the tick thread. The
// request leaves the in-flight set; any unconsumed remainder of its
// reservation stays held until the reservation deadline.
func (d *Dispatcher) complete(id string) {
	r, ok := d.inFlight[id]
	if !ok {
		return
	}
	delete(d.inFlight, id)
	delete(d.chains, id)
	d.fulfill(r)
}

func (d *Dispatcher) fulfill(r *Request) {
	r.State = StateFulfilled
	d.stats.recordFulfilled(d.clock.Now() - r.CreatedAt)
	d.journalEvent(journal.EventFulfilled, r, "")
	if r.ReservedAmount > 0 || r.ReservedSpace > 0 {
		d.lingering = append(d.lingering, r)
	}
}

// =============================================================================
// JOURNAL - non-fatal event writes
// =============================================================================

func (d *Dispatcher) journalEvent(t journal.EventType, r *Request, facility string) {
	d.journalEventN(t, r, facility, r.Quantity)
}

func (d *Dispatcher) journalEventN(t journal.EventType, r *Request, facility string, amount int) {
	if d.journal == nil {
		return
	}
	e := journal.Event{
		ID:             uuid.NewString(),
		RequestID:      r.ID,
		Type:           t,
		Kind:           r.Resource,
		Quantity:       amount,
		Facility:       facility,
		SimTime:        d.clock.Now(),
		RecordedAt:     time.Now(),
		IdempotencyKey: fmt.Sprintf("%s:%s:%d", r.ID, t, r.Retries),
	}
	if err := d.journal.Append(context.Background(), e); err != nil && !errors.Is(err, journal.ErrDuplicateIdempotencyKey) {
		log.Printf("[Dispatcher] journal append failed: %v", err)
	}
}
