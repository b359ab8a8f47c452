/*
sequence.go - Ordered composite of tasks

PURPOSE:
  A Sequence chains atomic steps into one carrier round trip. The cursor
  advances only when the current step reports Success. Any step that
  reports Failed or Canceled terminates the whole chain: every remaining
  not-yet-completed step is canceled synchronously and the sequence itself
  reports Failed. There is no automatic compensation of side effects
  already applied by earlier steps.
*/
package tasks

import "log"

type Sequence struct {
	base
	steps []Task
	index int
}

// NewSequence creates a sequence over the given steps. Nil steps are
// dropped. An empty sequence succeeds immediately on Init.
func NewSequence(steps ...Task) *Sequence {
	s := &Sequence{index: -1}
	for _, step := range steps {
		if step != nil {
			s.steps = append(s.steps, step)
		}
	}
	return s
}

// SetPriority sets the queue priority for the whole chain.
func (s *Sequence) SetPriority(priority int) { s.priority = priority }

// Len returns the number of steps.
func (s *Sequence) Len() int { return len(s.steps) }

func (s *Sequence) Init(ctx *Context) {
	s.begin(ctx)
	if len(s.steps) == 0 {
		s.succeed()
		return
	}
	s.index = 0
	s.steps[0].Init(ctx)
}

func (s *Sequence) Tick() {
	if s.status != StatusRunning {
		return
	}
	if s.index < 0 || s.index >= len(s.steps) {
		return
	}

	cur := s.steps[s.index]
	if cur.Status() == StatusRunning {
		cur.Tick()
		return
	}

	if cur.Status() == StatusSuccess {
		s.index++
		if s.index >= len(s.steps) {
			s.succeed()
			return
		}
		s.steps[s.index].Init(s.ctx)
		return
	}

	// Failed or canceled step: cancel the remainder, fail the chain.
	log.Printf("[Sequence] step %d/%d %s, aborting chain", s.index+1, len(s.steps), cur.Status())
	for i := s.index; i < len(s.steps); i++ {
		s.steps[i].Cancel()
	}
	s.fail()
}

// Cancel cancels the sequence and every not-yet-completed step.
func (s *Sequence) Cancel() {
	if s.status != StatusPending && s.status != StatusRunning {
		return
	}
	s.status = StatusCanceled
	for _, step := range s.steps {
		step.Cancel()
	}
}
