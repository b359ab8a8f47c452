/*
production.go - Production facility (Producer + Consumer)

PURPOSE:
  A production facility transforms inputs into outputs on a fixed cycle.
  It exposes Consumer (the scheduler delivers raw materials into its input
  buffer) and Producer (the scheduler collects finished goods from its
  output buffer). The production cycle itself is support machinery for the
  demo and tests; the scheduler core only ever touches the two contracts.

CYCLE:
  Every Tick(dt) accumulates simulated seconds. When a full cycle has
  elapsed and the input buffer holds every recipe input, the inputs are
  consumed and the outputs deposited. Missing inputs leave the accumulated
  time in place, so production resumes as soon as materials arrive.
*/
package economy

import "time"

// Stack is a quantity of one resource kind, used by recipes.
type Stack struct {
	Kind   ResourceKind
	Amount int
}

// Recipe describes one production transformation.
type Recipe struct {
	Inputs  []Stack
	Outputs []Stack
	Cycle   time.Duration
}

type ProductionFacility struct {
	id     FacilityID
	pos    Point
	recipe Recipe

	inputInv  *Ledger
	outputInv *Ledger

	active bool
	paused bool
	acc    time.Duration
}

func NewProductionFacility(id FacilityID, pos Point, recipe Recipe) *ProductionFacility {
	if recipe.Cycle <= 0 {
		recipe.Cycle = 5 * time.Second
	}
	return &ProductionFacility{
		id:        id,
		pos:       pos,
		recipe:    recipe,
		inputInv:  NewLedger(),
		outputInv: NewLedger(),
		active:    true,
	}
}

func (p *ProductionFacility) ID() FacilityID     { return p.id }
func (p *ProductionFacility) Pos() Point         { return p.pos }
func (p *ProductionFacility) Recipe() Recipe     { return p.recipe }
func (p *ProductionFacility) InputInv() *Ledger  { return p.inputInv }
func (p *ProductionFacility) OutputInv() *Ledger { return p.outputInv }
func (p *ProductionFacility) SetActive(on bool)  { p.active = on }
func (p *ProductionFacility) SetPaused(on bool)  { p.paused = on }

// Facility returns the registry entry: a production facility is both a
// Producer and a Consumer, never a Storage.
func (p *ProductionFacility) Facility() *Facility {
	return &Facility{ID: p.id, Pos: p.pos, Producer: p, Consumer: p}
}

// Tick advances the production cycle by dt of simulated time.
func (p *ProductionFacility) Tick(dt time.Duration) {
	if !p.active || p.paused {
		return
	}
	p.acc += dt
	if p.acc < p.recipe.Cycle {
		return
	}

	for _, in := range p.recipe.Inputs {
		if p.inputInv.Get(in.Kind) < in.Amount {
			return // keep accumulated time, resume when inputs arrive
		}
	}
	for _, in := range p.recipe.Inputs {
		p.inputInv.Withdraw(in.Kind, in.Amount)
	}
	for _, out := range p.recipe.Outputs {
		p.outputInv.Deposit(out.Kind, out.Amount)
	}
	p.acc = 0
}

// =============================================================================
// CONSUMER CONTRACT - raw materials in
// =============================================================================

func (p *ProductionFacility) CanAccept(kind ResourceKind, amount int) bool {
	return p.active
}

func (p *ProductionFacility) TryAccept(kind ResourceKind, amount int) bool {
	if !p.CanAccept(kind, amount) {
		return false
	}
	p.inputInv.Deposit(kind, amount)
	return true
}

// =============================================================================
// PRODUCER CONTRACT - finished goods out
// =============================================================================

func (p *ProductionFacility) TryCollect(kind ResourceKind, amount int) bool {
	if !p.active {
		return false
	}
	return p.outputInv.Withdraw(kind, amount)
}
