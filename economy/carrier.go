/*
carrier.go - Mobile carrier agent

PURPOSE:
  A carrier owns a personal Ledger (its carry space) and a Movement
  implementation. Tasks withdraw from and deposit into the carry ledger;
  the Move task issues destinations and polls IsMoving.

  Locomotion here is deliberately simple: straight-line travel at a fixed
  speed, advanced once per tick. Real pathfinding is outside the core; the
  scheduler only consumes the Movement contract.
*/
package economy

import (
	"math"
	"time"
)

type Carrier struct {
	id    string
	pos   Point
	speed float64 // units per simulated second

	target    Point
	moving    bool
	tolerance float64

	inv *Ledger
}

func NewCarrier(id string, pos Point, speed float64) *Carrier {
	if speed <= 0 {
		speed = 2
	}
	return &Carrier{
		id:        id,
		pos:       pos,
		speed:     speed,
		tolerance: 0.2,
		inv:       NewLedger(),
	}
}

func (c *Carrier) ID() string         { return c.id }
func (c *Carrier) Pos() Point         { return c.pos }
func (c *Carrier) Inventory() *Ledger { return c.inv }

// =============================================================================
// MOVEMENT CONTRACT
// =============================================================================

func (c *Carrier) MoveTo(target Point) {
	c.target = target
	c.moving = c.pos.DistSq(target) > c.tolerance*c.tolerance
}

func (c *Carrier) IsMoving() bool { return c.moving }

// Tick advances the carrier toward its target by dt of simulated time.
func (c *Carrier) Tick(dt time.Duration) {
	if !c.moving {
		return
	}
	dx := c.target.X - c.pos.X
	dy := c.target.Y - c.pos.Y
	distSq := dx*dx + dy*dy
	step := c.speed * dt.Seconds()

	if distSq <= step*step || distSq <= c.tolerance*c.tolerance {
		c.pos = c.target
		c.moving = false
		return
	}
	dist := math.Sqrt(distSq)
	c.pos.X += dx / dist * step
	c.pos.Y += dy / dist * step
}
