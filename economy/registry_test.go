package economy_test

import (
	"fmt"
	"testing"

	"github.com/warp/logistics-engine/economy"
)

func storageAt(id string, x, y float64, kind economy.ResourceKind, stock int) *economy.Facility {
	w := economy.NewWarehouse(economy.FacilityID(id), economy.Point{X: x, Y: y}, 100)
	if stock > 0 {
		w.Inventory().Deposit(kind, stock)
	}
	return w.Facility()
}

func TestRegistry_Register_RejectsDuplicateID(t *testing.T) {
	// GIVEN: a registered facility
	// WHEN: registering another with the same ID
	// THEN: registration fails
	r := economy.NewRegistry(8)
	if err := r.Register(storageAt("w1", 0, 0, economy.Wood, 0)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(storageAt("w1", 5, 5, economy.Wood, 0)); err == nil {
		t.Fatal("expected duplicate ID to be rejected")
	}
}

func TestRegistry_NearestStorage_PicksClosestAccepted(t *testing.T) {
	// GIVEN: a near storage without stock and a far storage with stock
	// WHEN: searching for a storage that has wood
	// THEN: the far one wins because the near one is filtered out
	r := economy.NewRegistry(8)
	near := storageAt("near", 1, 0, economy.Wood, 0)
	far := storageAt("far", 20, 0, economy.Wood, 10)
	if err := r.Register(near); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(far); err != nil {
		t.Fatal(err)
	}

	got := r.NearestStorage(economy.Point{}, func(f *economy.Facility) bool {
		return f.Storage.Get(economy.Wood) > 0
	})
	if got == nil || got.ID != "far" {
		t.Fatalf("expected far, got %v", got)
	}
}

func TestRegistry_NearestStorage_NoCandidate(t *testing.T) {
	// GIVEN: storages that all fail the predicate
	// WHEN: searching
	// THEN: nil is returned
	r := economy.NewRegistry(8)
	if err := r.Register(storageAt("w1", 1, 1, economy.Wood, 0)); err != nil {
		t.Fatal(err)
	}

	got := r.NearestStorage(economy.Point{}, func(f *economy.Facility) bool { return false })
	if got != nil {
		t.Fatalf("expected nil, got %s", got.ID)
	}
}

func TestRegistry_NearestStorage_GridPathMatchesFlatScan(t *testing.T) {
	// GIVEN: enough facilities to trigger the ring search (> 16)
	// WHEN: querying the nearest stocked storage
	// THEN: the result is the true nearest one
	r := economy.NewRegistry(4)
	for i := 0; i < 24; i++ {
		f := storageAt(fmt.Sprintf("w%d", i), float64(i*3), float64(i%5), economy.Wood, 5)
		if err := r.Register(f); err != nil {
			t.Fatal(err)
		}
	}
	if r.Len() != 24 {
		t.Fatalf("expected 24 facilities, got %d", r.Len())
	}

	from := economy.Point{X: 31, Y: 2}
	got := r.NearestStorage(from, nil)
	if got == nil {
		t.Fatal("expected a result")
	}

	// Brute-force reference.
	var best *economy.Facility
	bestD2 := 0.0
	r.Each(func(f *economy.Facility) {
		d2 := f.Pos.DistSq(from)
		if best == nil || d2 < bestD2 {
			best, bestD2 = f, d2
		}
	})
	if got.ID != best.ID {
		t.Errorf("ring search returned %s, brute force says %s", got.ID, best.ID)
	}
}

func TestRegistry_Remove_UnknownID(t *testing.T) {
	r := economy.NewRegistry(8)
	if err := r.Remove("ghost"); err == nil {
		t.Fatal("expected error removing unknown facility")
	}
}

func TestRegistry_Remove_ExcludesFromSearch(t *testing.T) {
	// GIVEN: two storages
	// WHEN: the nearest is removed
	// THEN: search falls through to the other
	r := economy.NewRegistry(8)
	if err := r.Register(storageAt("a", 1, 0, economy.Wood, 5)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(storageAt("b", 9, 0, economy.Wood, 5)); err != nil {
		t.Fatal(err)
	}
	if err := r.Remove("a"); err != nil {
		t.Fatal(err)
	}

	got := r.NearestStorage(economy.Point{}, nil)
	if got == nil || got.ID != "b" {
		t.Fatalf("expected b, got %v", got)
	}
}
