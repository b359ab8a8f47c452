/*
manager.go - Task queue and per-tick execution

PURPOSE:
  The Manager owns the pool of carriers and the priority queue of pending
  task chains. Each tick it hands the highest-priority pending chain to an
  idle carrier, ticks every running chain, and retires finished ones.
  Ordering among equal priorities is FIFO (stable sort).

  Carriers are registered as workers, each with its own Context; a worker
  executes at most one chain at a time, which preserves the one carrier =
  one round trip model.
*/
package tasks

import "sort"

type worker struct {
	ctx     *Context
	current Task
}

type Manager struct {
	queue   []Task
	workers []*worker
}

func NewManager() *Manager {
	return &Manager{}
}

// AddWorker registers a carrier context as an execution slot.
func (m *Manager) AddWorker(ctx *Context) {
	m.workers = append(m.workers, &worker{ctx: ctx})
}

// Enqueue adds a task chain to the pending queue.
func (m *Manager) Enqueue(t Task) {
	if t == nil {
		return
	}
	m.queue = append(m.queue, t)
	sort.SliceStable(m.queue, func(i, j int) bool {
		return m.queue[i].Priority() > m.queue[j].Priority()
	})
}

// QueueLen returns the number of chains waiting for a carrier.
func (m *Manager) QueueLen() int { return len(m.queue) }

// ActiveCount returns the number of chains currently executing.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, w := range m.workers {
		if w.current != nil {
			n++
		}
	}
	return n
}

// OnTick assigns pending chains to idle workers, then advances every
// running chain by one tick.
func (m *Manager) OnTick() {
	for _, w := range m.workers {
		if w.current != nil {
			continue
		}
		next := m.pop()
		if next == nil {
			break
		}
		next.Init(w.ctx)
		w.current = next
	}

	for _, w := range m.workers {
		if w.current == nil {
			continue
		}
		if w.current.Status() == StatusRunning {
			w.current.Tick()
		}
		if w.current.Status().Terminal() {
			w.current = nil
		}
	}
}

// pop removes and returns the head of the queue, skipping chains that
// were canceled while still queued.
func (m *Manager) pop() Task {
	for len(m.queue) > 0 {
		t := m.queue[0]
		m.queue = m.queue[1:]
		if t.Status() == StatusPending {
			return t
		}
	}
	return nil
}
