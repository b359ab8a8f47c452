package tasks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/logistics-engine/economy"
	"github.com/warp/logistics-engine/reserve"
	"github.com/warp/logistics-engine/tasks"
)

func warehouseWith(kind economy.ResourceKind, stock int) *economy.Warehouse {
	w := economy.NewWarehouse("wh", economy.Point{}, 100)
	w.Inventory().Deposit(kind, stock)
	return w
}

// =============================================================================
// PICKUP
// =============================================================================

func TestPickup_Exact_SucceedsWhenCovered(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Wood, 10)
	p := tasks.NewPickup(w.Facility(), economy.Wood, 4, tasks.PickupExact)

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, p.Status())
	assert.Equal(t, 4, ctx.Carrier.Inventory().Get(economy.Wood))
	assert.Equal(t, 6, w.Get(economy.Wood))
}

func TestPickup_Exact_FailsOnShortfall(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Wood, 3)
	p := tasks.NewPickup(w.Facility(), economy.Wood, 4, tasks.PickupExact)

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusFailed, p.Status())
	assert.Equal(t, 0, ctx.Carrier.Inventory().Get(economy.Wood))
	assert.Equal(t, 3, w.Get(economy.Wood))
}

func TestPickup_TakeAll_TakesWhatIsThere(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Wheat, 3)
	p := tasks.NewPickup(w.Facility(), economy.Wheat, 8, tasks.PickupTakeAll)

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, p.Status())
	assert.Equal(t, 3, ctx.Carrier.Inventory().Get(economy.Wheat))
}

func TestPickup_TakeAll_FailsOnEmpty(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Wheat, 0)
	p := tasks.NewPickup(w.Facility(), economy.Wheat, 8, tasks.PickupTakeAll)

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusFailed, p.Status())
}

func TestPickup_TakeAll_ProbesProducerDescending(t *testing.T) {
	// A producer exposes no stock query, so take-all probes n, n-1, ... 1.
	ctx, _ := newTestContext()
	prod := economy.NewProductionFacility("mine", economy.Point{}, economy.Recipe{
		Outputs: []economy.Stack{{Kind: economy.IronOre, Amount: 1}},
	})
	prod.OutputInv().Deposit(economy.IronOre, 3)
	p := tasks.NewPickup(prod.Facility(), economy.IronOre, 7, tasks.PickupTakeAll)

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, p.Status())
	assert.Equal(t, 3, ctx.Carrier.Inventory().Get(economy.IronOre))
	assert.Equal(t, 0, prod.OutputInv().Get(economy.IronOre))
}

func TestPickup_Wait_SucceedsWhenStockArrives(t *testing.T) {
	ctx, clk := newTestContext()
	w := warehouseWith(economy.Bread, 0)
	p := tasks.NewPickup(w.Facility(), economy.Bread, 2, tasks.PickupWait).
		WithRetry(1*time.Second, 10*time.Second)
	p.Init(ctx)

	// Poll for 3 simulated seconds with no stock.
	for i := 0; i < 30; i++ {
		clk.Tick()
		p.Tick()
	}
	require.Equal(t, tasks.StatusRunning, p.Status())

	// Stock shows up; next retry grabs it.
	w.Deposit(economy.Bread, 2)
	for i := 0; i < 12 && !p.Status().Terminal(); i++ {
		clk.Tick()
		p.Tick()
	}
	assert.Equal(t, tasks.StatusSuccess, p.Status())
	assert.Equal(t, 2, ctx.Carrier.Inventory().Get(economy.Bread))
}

func TestPickup_Wait_FailsAfterTimeout(t *testing.T) {
	ctx, clk := newTestContext()
	w := warehouseWith(economy.Bread, 0)
	p := tasks.NewPickup(w.Facility(), economy.Bread, 2, tasks.PickupWait).
		WithRetry(1*time.Second, 5*time.Second)
	p.Init(ctx)

	ticks := 0
	for ; ticks < 200 && !p.Status().Terminal(); ticks++ {
		clk.Tick()
		p.Tick()
	}

	assert.Equal(t, tasks.StatusFailed, p.Status())
	// Fails on the first poll past the 5s budget, not earlier.
	assert.Greater(t, clk.Now(), 5*time.Second)
	assert.LessOrEqual(t, clk.Now(), 5*time.Second+200*time.Millisecond)
}

// =============================================================================
// DELIVER
// =============================================================================

func TestDeliver_ToStorage(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Stone, 0)
	ctx.Carrier.Inventory().Deposit(economy.Stone, 5)
	d := tasks.NewDeliver(w.Facility(), economy.Stone, 5, tasks.DeliverExact)

	runToTerminal(t, d, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, d.Status())
	assert.Equal(t, 5, w.Get(economy.Stone))
	assert.Equal(t, 0, ctx.Carrier.Inventory().Get(economy.Stone))
}

func TestDeliver_Carried_DeliversWhatItHas(t *testing.T) {
	ctx, _ := newTestContext()
	w := warehouseWith(economy.Stone, 0)
	ctx.Carrier.Inventory().Deposit(economy.Stone, 3)
	d := tasks.NewDeliver(w.Facility(), economy.Stone, 8, tasks.DeliverCarried)

	runToTerminal(t, d, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, d.Status())
	assert.Equal(t, 3, w.Get(economy.Stone))
}

func TestDeliver_RefusedConsumer_CarrierKeepsGoods(t *testing.T) {
	// An inactive facility refuses deliveries; the carry debit must be
	// rolled back so nothing is lost.
	ctx, _ := newTestContext()
	prod := economy.NewProductionFacility("bakery", economy.Point{}, economy.Recipe{
		Inputs: []economy.Stack{{Kind: economy.Wheat, Amount: 1}},
	})
	prod.SetActive(false)
	ctx.Carrier.Inventory().Deposit(economy.Wheat, 4)
	d := tasks.NewDeliver(prod.Facility(), economy.Wheat, 4, tasks.DeliverExact)

	runToTerminal(t, d, ctx, 5)

	assert.Equal(t, tasks.StatusFailed, d.Status())
	assert.Equal(t, 4, ctx.Carrier.Inventory().Get(economy.Wheat))
	assert.Equal(t, 0, prod.InputInv().Get(economy.Wheat))
}

// =============================================================================
// RESERVED PICKUP / DELIVER
// =============================================================================

func TestReservedPickup_SettlesReservation(t *testing.T) {
	ctx, _ := newTestContext()
	res := reserve.NewLedger()
	w := warehouseWith(economy.Wood, 10)
	res.ReserveStock(w, economy.Wood, 5)

	consumed := 0
	p := tasks.NewReservedPickup(res, w, economy.Wood, 5)
	p.OnConsumed = func(n int) { consumed += n }

	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, p.Status())
	assert.Equal(t, 5, consumed)
	assert.Equal(t, 5, ctx.Carrier.Inventory().Get(economy.Wood))
	assert.Equal(t, 5, w.Get(economy.Wood))
	assert.Equal(t, 0, res.ReservedStock(w, economy.Wood))
}

func TestReservedPickup_FailsWithoutReservation(t *testing.T) {
	ctx, _ := newTestContext()
	res := reserve.NewLedger()
	w := warehouseWith(economy.Wood, 10)

	p := tasks.NewReservedPickup(res, w, economy.Wood, 5)
	runToTerminal(t, p, ctx, 5)

	assert.Equal(t, tasks.StatusFailed, p.Status())
	assert.Equal(t, 10, w.Get(economy.Wood))
}

func TestReservedDeliver_PartialLoadLeavesRemainderReserved(t *testing.T) {
	// GIVEN 5 units of space reserved but only 3 carried, the delivery
	// settles 3 and leaves 2 reserved for rollback.
	ctx, _ := newTestContext()
	res := reserve.NewLedger()
	w := warehouseWith(economy.Tools, 0)
	res.ReserveSpace(w, economy.Tools, 5)
	ctx.Carrier.Inventory().Deposit(economy.Tools, 3)

	consumed := 0
	d := tasks.NewReservedDeliver(res, w, economy.Tools, 5)
	d.OnConsumed = func(n int) { consumed += n }

	runToTerminal(t, d, ctx, 5)

	assert.Equal(t, tasks.StatusSuccess, d.Status())
	assert.Equal(t, 3, consumed)
	assert.Equal(t, 3, w.Get(economy.Tools))
	assert.Equal(t, 2, res.ReservedSpace(w, economy.Tools))
	assert.Equal(t, 0, ctx.Carrier.Inventory().Get(economy.Tools))
}

func TestReservedDeliver_EmptyCarrierFails(t *testing.T) {
	ctx, _ := newTestContext()
	res := reserve.NewLedger()
	w := warehouseWith(economy.Tools, 0)
	res.ReserveSpace(w, economy.Tools, 5)

	d := tasks.NewReservedDeliver(res, w, economy.Tools, 5)
	runToTerminal(t, d, ctx, 5)

	assert.Equal(t, tasks.StatusFailed, d.Status())
	assert.Equal(t, 5, res.ReservedSpace(w, economy.Tools))
}
