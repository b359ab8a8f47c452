package tasks

import "github.com/warp/logistics-engine/economy"

// Move sends the carrier to a target point and waits for arrival. Fails
// immediately when no movement capability is bound to the context.
type Move struct {
	base
	target economy.Point
}

func NewMove(target economy.Point) *Move {
	return &Move{target: target}
}

func (t *Move) Init(ctx *Context) {
	t.begin(ctx)
	if ctx == nil || ctx.Mover == nil {
		t.fail()
		return
	}
	ctx.Mover.MoveTo(t.target)
}

func (t *Move) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.ctx.Mover == nil {
		t.fail()
		return
	}
	if !t.ctx.Mover.IsMoving() {
		t.succeed()
	}
}
