package paper

import (
	"testing"

	"hftbot-go/internal/execution"
)

func TestLedgerRecordSnapshot(t *testing.T) {
	ledger := NewLedger(2)
	trade := execution.Trade{Symbol: "AAPL", Side: execution.Buy, Qty: 1}
	ledger.Record(trade)
	ledger.Record(execution.Trade{Symbol: "MSFT", Side: execution.Buy, Qty: 2})

	snapshot := ledger.Snapshot()
	if len(snapshot) != 2 || ledger.Len() != 2 {
		t.Fatalf("expected 2 trades, got %d", len(snapshot))
	}
	if snapshot[0].Symbol != trade.Symbol {
		t.Fatalf("unexpected trade symbol")
	}
	snapshot[0].Symbol = "MUTATED"
	if ledger.Snapshot()[0].Symbol != "AAPL" {
		t.Fatalf("snapshot leaked internal storage")
	}

	bySym := ledger.BySymbol("MSFT")
	if len(bySym) != 1 || bySym[0].Qty != 2 {
		t.Fatalf("unexpected per-symbol trades %+v", bySym)
	}
	if NewLedger(-1).Len() != 0 {
		t.Fatalf("expected empty ledger")
	}
}
