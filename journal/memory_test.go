package journal_test

import (
	"context"
	"testing"

	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/journal"
)

func event(id, reqID, key string) journal.Event {
	return journal.Event{
		ID:             id,
		RequestID:      reqID,
		Type:           journal.EventEnqueued,
		Kind:           economy.Wood,
		Quantity:       5,
		IdempotencyKey: key,
	}
}

func TestMemory_AppendAndRecent_NewestFirst(t *testing.T) {
	// GIVEN: three appended events
	// WHEN: reading the two most recent
	// THEN: they come back newest first
	m := journal.NewMemory()
	ctx := context.Background()
	for _, id := range []string{"e1", "e2", "e3"} {
		if err := m.Append(ctx, event(id, "r1", id+"-key")); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	got, err := m.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "e3" || got[1].ID != "e2" {
		t.Errorf("expected [e3 e2], got %v", got)
	}
}

func TestMemory_DuplicateIdempotencyKeyRejected(t *testing.T) {
	// GIVEN: an appended event
	// WHEN: appending another with the same idempotency key
	// THEN: the duplicate is rejected and not stored
	m := journal.NewMemory()
	ctx := context.Background()
	if err := m.Append(ctx, event("e1", "r1", "same")); err != nil {
		t.Fatal(err)
	}

	err := m.Append(ctx, event("e2", "r1", "same"))
	if err != journal.ErrDuplicateIdempotencyKey {
		t.Fatalf("expected ErrDuplicateIdempotencyKey, got %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 event stored, got %d", m.Len())
	}
}

func TestMemory_EmptyKeyNeverConflicts(t *testing.T) {
	m := journal.NewMemory()
	ctx := context.Background()
	if err := m.Append(ctx, event("e1", "r1", "")); err != nil {
		t.Fatal(err)
	}
	if err := m.Append(ctx, event("e2", "r1", "")); err != nil {
		t.Fatalf("empty keys must not conflict: %v", err)
	}
}
