package journal

import (
	"context"
	"sync"
)

// =============================================================================
// MEMORY JOURNAL - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	events      []Event
	idempotency map[string]bool
}

func NewMemory() *Memory {
	return &Memory{idempotency: make(map[string]bool)}
}

// Append adds a single event. Append-only.
func (m *Memory) Append(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.IdempotencyKey != "" && m.idempotency[e.IdempotencyKey] {
		return ErrDuplicateIdempotencyKey
	}
	m.events = append(m.events, e)
	if e.IdempotencyKey != "" {
		m.idempotency[e.IdempotencyKey] = true
	}
	return nil
}

// Recent returns up to n most recent events, newest first.
func (m *Memory) Recent(_ context.Context, n int) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 || n > len(m.events) {
		n = len(m.events)
	}
	out := make([]Event, 0, n)
	for i := len(m.events) - 1; i >= len(m.events)-n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

// Len returns the number of journaled events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
