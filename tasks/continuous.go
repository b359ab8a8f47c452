/*
continuous.go - Multi-facility continuous pickup/deliver loops

PURPOSE:
  Sweep goods across several storage facilities one unit at a time, used
  for bulk rebalancing outside the reserved dispatch path. Both tasks are
  three-phase state machines:

    SelectFacility -> MoveTo -> TransferLoop

  TransferLoop moves one unit per operation, throttled by a minimum
  interval. Each selection ranks the storage facilities by distance from
  the carrier's current position and picks the nearest eligible one, so
  when the current facility is depleted (pickup) or full (deliver) the
  sweep continues from wherever the carrier stands. The whole task is
  bounded by a time budget.

TERMINATION:
  ContinuousPickup succeeds when the carry goal is met; fails on timeout
  or when every candidate is out of stock.
  ContinuousDeliver succeeds when the carried amount reaches zero; fails
  on timeout or when every candidate is full.
*/
package tasks

import (
	"log"
	"sort"
	"time"

	"github.com/warp/logistics-engine/economy"
)

type loopPhase int

const (
	phaseSelect loopPhase = iota
	phaseMove
	phaseTransfer
)

const (
	defaultUnitInterval = 150 * time.Millisecond
	defaultTimeBudget   = 20 * time.Second
)

// sortedStorages returns the registry's storage facilities ordered by
// squared distance from pos, nearest first.
func sortedStorages(reg *economy.Registry, pos economy.Point) []*economy.Facility {
	list := reg.Storages()
	sort.Slice(list, func(i, j int) bool {
		return list[i].Pos.DistSq(pos) < list[j].Pos.DistSq(pos)
	})
	return list
}

// =============================================================================
// CONTINUOUS PICKUP
// =============================================================================

type ContinuousPickup struct {
	base
	kind      economy.ResourceKind
	carryGoal int

	unitInterval time.Duration
	timeBudget   time.Duration

	candidates []*economy.Facility
	current    int
	phase      loopPhase
	startAt    time.Duration
	lastOp     time.Duration
	didOp      bool
}

func NewContinuousPickup(kind economy.ResourceKind, carryGoal int) *ContinuousPickup {
	if carryGoal < 1 {
		carryGoal = 1
	}
	return &ContinuousPickup{
		kind:         kind,
		carryGoal:    carryGoal,
		unitInterval: defaultUnitInterval,
		timeBudget:   defaultTimeBudget,
	}
}

// WithTiming overrides the per-unit interval and the overall time budget.
func (t *ContinuousPickup) WithTiming(unitInterval, timeBudget time.Duration) *ContinuousPickup {
	if unitInterval > 0 {
		t.unitInterval = unitInterval
	}
	if timeBudget > 0 {
		t.timeBudget = timeBudget
	}
	return t
}

func (t *ContinuousPickup) Init(ctx *Context) {
	t.begin(ctx)
	if ctx == nil || ctx.Carrier == nil || ctx.Mover == nil || ctx.Registry == nil {
		t.fail()
		return
	}
	if len(ctx.Registry.Storages()) == 0 {
		log.Printf("[PickupLoop] no storage facilities registered")
		t.fail()
		return
	}
	t.startAt = ctx.Clock.Now()
	t.phase = phaseSelect
	t.didOp = false
}

func (t *ContinuousPickup) Tick() {
	if t.status != StatusRunning {
		return
	}
	now := t.ctx.Clock.Now()
	if now-t.startAt > t.timeBudget {
		log.Printf("[PickupLoop] time budget exhausted, carrying %d", t.ctx.Carrier.Inventory().Get(t.kind))
		t.fail()
		return
	}
	if t.ctx.Carrier.Inventory().Get(t.kind) >= t.carryGoal {
		t.succeed()
		return
	}

	switch t.phase {
	case phaseSelect:
		if !t.selectNearestWithStock() {
			log.Printf("[PickupLoop] every storage out of %s", t.kind)
			t.fail()
			return
		}
		t.phase = phaseMove
		t.ctx.Mover.MoveTo(t.candidates[t.current].Pos)

	case phaseMove:
		if !t.ctx.Mover.IsMoving() {
			t.phase = phaseTransfer
		}

	case phaseTransfer:
		if t.didOp && now-t.lastOp < t.unitInterval {
			return
		}
		t.lastOp = now
		t.didOp = true

		s := t.candidates[t.current].Storage
		if s.Get(t.kind) <= 0 || !s.TryWithdraw(t.kind, 1) {
			t.phase = phaseSelect
			return
		}
		t.ctx.Carrier.Inventory().Deposit(t.kind, 1)
	}
}

// selectNearestWithStock re-ranks the candidates by distance from the
// carrier's current position and picks the nearest one with stock. A
// just-depleted facility drops out via the stock check.
func (t *ContinuousPickup) selectNearestWithStock() bool {
	t.candidates = sortedStorages(t.ctx.Registry, t.ctx.Carrier.Pos())
	for i, f := range t.candidates {
		if f.Storage.Get(t.kind) > 0 {
			t.current = i
			return true
		}
	}
	return false
}

// =============================================================================
// CONTINUOUS DELIVER
// =============================================================================

type ContinuousDeliver struct {
	base
	kind economy.ResourceKind

	unitInterval time.Duration
	timeBudget   time.Duration

	candidates []*economy.Facility
	current    int
	phase      loopPhase
	startAt    time.Duration
	lastOp     time.Duration
	didOp      bool
}

func NewContinuousDeliver(kind economy.ResourceKind) *ContinuousDeliver {
	return &ContinuousDeliver{
		kind:         kind,
		unitInterval: defaultUnitInterval,
		timeBudget:   defaultTimeBudget,
	}
}

func (t *ContinuousDeliver) WithTiming(unitInterval, timeBudget time.Duration) *ContinuousDeliver {
	if unitInterval > 0 {
		t.unitInterval = unitInterval
	}
	if timeBudget > 0 {
		t.timeBudget = timeBudget
	}
	return t
}

func (t *ContinuousDeliver) Init(ctx *Context) {
	t.begin(ctx)
	if ctx == nil || ctx.Carrier == nil || ctx.Mover == nil || ctx.Registry == nil {
		t.fail()
		return
	}
	if ctx.Carrier.Inventory().Get(t.kind) <= 0 {
		log.Printf("[DeliverLoop] carrying no %s, nothing to do", t.kind)
		t.fail()
		return
	}
	if len(ctx.Registry.Storages()) == 0 {
		t.fail()
		return
	}
	t.startAt = ctx.Clock.Now()
	t.phase = phaseSelect
	t.didOp = false
}

func (t *ContinuousDeliver) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Carrier.Inventory().Get(t.kind) <= 0 {
		t.succeed()
		return
	}
	now := t.ctx.Clock.Now()
	if now-t.startAt > t.timeBudget {
		log.Printf("[DeliverLoop] time budget exhausted, still carrying %d", t.ctx.Carrier.Inventory().Get(t.kind))
		t.fail()
		return
	}

	switch t.phase {
	case phaseSelect:
		if !t.selectNearestWithSpace() {
			log.Printf("[DeliverLoop] every storage full for %s", t.kind)
			t.fail()
			return
		}
		t.phase = phaseMove
		t.ctx.Mover.MoveTo(t.candidates[t.current].Pos)

	case phaseMove:
		if !t.ctx.Mover.IsMoving() {
			t.phase = phaseTransfer
		}

	case phaseTransfer:
		if t.didOp && now-t.lastOp < t.unitInterval {
			return
		}
		t.lastOp = now
		t.didOp = true

		s := t.candidates[t.current].Storage
		if s.Get(t.kind) >= s.Capacity(t.kind) {
			t.phase = phaseSelect
			return
		}
		if !t.ctx.Carrier.Inventory().Withdraw(t.kind, 1) {
			t.fail()
			return
		}
		s.Deposit(t.kind, 1)
	}
}

func (t *ContinuousDeliver) selectNearestWithSpace() bool {
	t.candidates = sortedStorages(t.ctx.Registry, t.ctx.Carrier.Pos())
	for i, f := range t.candidates {
		s := f.Storage
		if s.Get(t.kind) < s.Capacity(t.kind) {
			t.current = i
			return true
		}
	}
	return false
}
