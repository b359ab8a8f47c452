/*
autopilot.go - Closed-loop request generation

PURPOSE:
  A ClosedLoop watches one production facility and keeps it fed and
  drained without any manual requests: it pulls each recipe input back
  up toward a target level and pushes finished output to storage once a
  batch has accumulated. The open-request check keeps the loop from
  stacking duplicates while an earlier request is still open.
*/
package logistics

import (
	"log"
	"time"

	"github.com/warp/logistics-engine/clock"
	"github.com/warp/logistics-engine/economy"
)

type ClosedLoop struct {
	dispatcher *Dispatcher
	clock      *clock.Clock
	prod       *economy.ProductionFacility
	facility   *economy.Facility

	inputTarget   int           // desired input stock per recipe input kind
	outputBatch   int           // push once output reaches this
	checkInterval time.Duration // how often to evaluate
	priority      int

	lastCheck time.Duration
	checked   bool
}

func NewClosedLoop(d *Dispatcher, clk *clock.Clock, prod *economy.ProductionFacility) *ClosedLoop {
	return &ClosedLoop{
		dispatcher:    d,
		clock:         clk,
		prod:          prod,
		facility:      prod.Facility(),
		inputTarget:   6,
		outputBatch:   5,
		checkInterval: 2 * time.Second,
	}
}

// WithLevels overrides the input target and output batch size.
func (l *ClosedLoop) WithLevels(inputTarget, outputBatch int) *ClosedLoop {
	if inputTarget > 0 {
		l.inputTarget = inputTarget
	}
	if outputBatch > 0 {
		l.outputBatch = outputBatch
	}
	return l
}

// WithPriority sets the priority of the requests this loop emits.
func (l *ClosedLoop) WithPriority(p int) *ClosedLoop {
	l.priority = p
	return l
}

func (l *ClosedLoop) OnTick() {
	now := l.clock.Now()
	if l.checked && now-l.lastCheck < l.checkInterval {
		return
	}
	l.lastCheck = now
	l.checked = true

	recipe := l.prod.Recipe()
	for _, in := range recipe.Inputs {
		l.pullInput(in.Kind)
	}
	for _, out := range recipe.Outputs {
		l.pushOutput(out.Kind)
	}
}

func (l *ClosedLoop) pullInput(kind economy.ResourceKind) {
	have := l.prod.InputInv().Get(kind)
	if have >= l.inputTarget {
		return
	}
	if l.dispatcher.HasOpenRequest(l.facility.ID, kind) {
		return
	}
	r := NewPullRequest(l.facility, kind, l.inputTarget-have)
	r.Priority = l.priority
	l.submit(r)
}

func (l *ClosedLoop) pushOutput(kind economy.ResourceKind) {
	have := l.prod.OutputInv().Get(kind)
	if have < l.outputBatch {
		return
	}
	if l.dispatcher.HasOpenRequest(l.facility.ID, kind) {
		return
	}
	r := NewPushRequest(l.facility, kind, have)
	r.Priority = l.priority
	l.submit(r)
}

func (l *ClosedLoop) submit(r *Request) {
	if err := l.dispatcher.Enqueue(r); err != nil {
		log.Printf("[ClosedLoop] %s: enqueue rejected: %v", l.facility.ID, err)
	}
}
