package economy_test

import (
	"testing"

	"github.com/warp/logistics-engine/economy"
)

func TestLedger_Deposit_AccumulatesStock(t *testing.T) {
	// GIVEN: an empty ledger
	// WHEN: depositing twice
	// THEN: stock is the sum
	l := economy.NewLedger()
	l.Deposit(economy.Wood, 5)
	l.Deposit(economy.Wood, 3)

	if got := l.Get(economy.Wood); got != 8 {
		t.Errorf("expected 8 wood, got %d", got)
	}
}

func TestLedger_Deposit_IgnoresNonPositive(t *testing.T) {
	// GIVEN: a ledger with stock
	// WHEN: depositing zero and negative amounts
	// THEN: stock is unchanged
	l := economy.NewLedger()
	l.Deposit(economy.Stone, 4)
	l.Deposit(economy.Stone, 0)
	l.Deposit(economy.Stone, -7)

	if got := l.Get(economy.Stone); got != 4 {
		t.Errorf("expected 4 stone, got %d", got)
	}
}

func TestLedger_Withdraw_AllOrNothing(t *testing.T) {
	// GIVEN: 5 wheat in the ledger
	// WHEN: withdrawing 6
	// THEN: the withdrawal fails and stock stays at 5
	l := economy.NewLedger()
	l.Deposit(economy.Wheat, 5)

	if l.Withdraw(economy.Wheat, 6) {
		t.Fatal("expected withdrawal of 6 from 5 to fail")
	}
	if got := l.Get(economy.Wheat); got != 5 {
		t.Errorf("failed withdrawal mutated stock: got %d", got)
	}

	// WHEN: withdrawing exactly the stock
	// THEN: it succeeds and the ledger is empty
	if !l.Withdraw(economy.Wheat, 5) {
		t.Fatal("expected withdrawal of 5 from 5 to succeed")
	}
	if got := l.Get(economy.Wheat); got != 0 {
		t.Errorf("expected empty ledger, got %d", got)
	}
}

func TestLedger_Total_SumsAcrossKinds(t *testing.T) {
	l := economy.NewLedger()
	l.Deposit(economy.Wood, 2)
	l.Deposit(economy.Bread, 3)

	if got := l.Total(); got != 5 {
		t.Errorf("expected total 5, got %d", got)
	}
}
