package economy_test

import (
	"testing"
	"time"

	"github.com/warp/logistics-engine/economy"
)

func bakery() *economy.ProductionFacility {
	return economy.NewProductionFacility("bakery", economy.Point{}, economy.Recipe{
		Inputs:  []economy.Stack{{Kind: economy.Wheat, Amount: 2}},
		Outputs: []economy.Stack{{Kind: economy.Bread, Amount: 1}},
		Cycle:   4 * time.Second,
	})
}

func TestProduction_CycleConsumesInputsProducesOutputs(t *testing.T) {
	// GIVEN: a bakery with enough wheat for one cycle
	// WHEN: a full cycle of simulated time passes
	// THEN: wheat is consumed and bread appears
	p := bakery()
	p.TryAccept(economy.Wheat, 2)

	for i := 0; i < 40; i++ {
		p.Tick(100 * time.Millisecond)
	}

	if got := p.OutputInv().Get(economy.Bread); got != 1 {
		t.Errorf("expected 1 bread, got %d", got)
	}
	if got := p.InputInv().Get(economy.Wheat); got != 0 {
		t.Errorf("expected wheat consumed, got %d", got)
	}
}

func TestProduction_StallsWithoutInputs_ResumesOnDelivery(t *testing.T) {
	// GIVEN: a bakery with no wheat
	// WHEN: cycles elapse, then wheat arrives
	// THEN: nothing is produced while starved and production fires
	//       immediately once inputs suffice
	p := bakery()
	for i := 0; i < 60; i++ {
		p.Tick(100 * time.Millisecond)
	}
	if got := p.OutputInv().Get(economy.Bread); got != 0 {
		t.Fatalf("starved bakery produced %d bread", got)
	}

	p.TryAccept(economy.Wheat, 2)
	p.Tick(100 * time.Millisecond)
	if got := p.OutputInv().Get(economy.Bread); got != 1 {
		t.Errorf("expected production to resume, got %d bread", got)
	}
}

func TestProduction_PausedDoesNotAdvance(t *testing.T) {
	p := bakery()
	p.TryAccept(economy.Wheat, 2)
	p.SetPaused(true)
	for i := 0; i < 60; i++ {
		p.Tick(100 * time.Millisecond)
	}
	if got := p.OutputInv().Get(economy.Bread); got != 0 {
		t.Errorf("paused bakery produced %d bread", got)
	}
}

func TestProduction_InactiveRejectsContracts(t *testing.T) {
	p := bakery()
	p.OutputInv().Deposit(economy.Bread, 3)
	p.SetActive(false)

	if p.TryAccept(economy.Wheat, 1) {
		t.Error("inactive facility accepted delivery")
	}
	if p.TryCollect(economy.Bread, 1) {
		t.Error("inactive facility allowed collection")
	}
}
