package paper

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"hftbot-go/internal/execution"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuySellScenario(t *testing.T) {
	account := NewAccount(100000)

	if !account.ExecuteBuy("AAPL", 10.00, 10, "MeanRev") {
		t.Fatalf("expected buy to succeed")
	}
	if got := account.Cash(); !near(got, 99899.90) {
		t.Fatalf("expected cash 99899.90, got %.6f", got)
	}
	pos := account.Position("AAPL")
	if pos.Qty != 10 || !near(pos.AvgEntryPrice, 10.01) || !near(pos.TotalCost, 100.10) {
		t.Fatalf("unexpected position %+v", pos)
	}
	if len(pos.Trades) != 1 || pos.Trades[0].Strategy != "MeanRev" || pos.Trades[0].Side != execution.Buy {
		t.Fatalf("unexpected position trades %+v", pos.Trades)
	}

	if !account.ExecuteSell("AAPL", 12.00, 10, "StopLoss/TakeProfit") {
		t.Fatalf("expected sell to succeed")
	}
	if got := account.Cash(); !near(got, 100019.78) {
		t.Fatalf("expected cash 100019.78, got %.6f", got)
	}
	pos = account.Position("AAPL")
	if pos.Qty != 0 || pos.AvgEntryPrice != 0 || pos.TotalCost != 0 {
		t.Fatalf("expected flat position, got %+v", pos)
	}
	if got := account.RealizedPnL(); !near(got, 19.78) {
		t.Fatalf("expected realized 19.78, got %.6f", got)
	}
	if account.WinningTrades() != 1 || account.LosingTrades() != 0 {
		t.Fatalf("expected one winner, got %d/%d", account.WinningTrades(), account.LosingTrades())
	}
	if account.TradeCount() != 2 || len(account.Trades()) != 2 {
		t.Fatalf("expected two trades, got %d", account.TradeCount())
	}
	if account.OpenPositions() != 0 {
		t.Fatalf("expected no open positions")
	}
}

func TestCashDeltasIncludeCommission(t *testing.T) {
	account := NewAccount(50000)
	cases := []struct {
		price float64
		qty   int
	}{{10, 10}, {123.45, 7}, {0.5, 1000}, {499.99, 3}}

	for i, tc := range cases {
		sym := fmt.Sprintf("S%d", i)
		before := account.Cash()
		if !account.ExecuteBuy(sym, tc.price, tc.qty, "test") {
			t.Fatalf("buy %d failed", i)
		}
		if want := before - tc.price*float64(tc.qty)*1.001; !near(account.Cash(), want) {
			t.Fatalf("buy %d: expected cash %.6f got %.6f", i, want, account.Cash())
		}
		before = account.Cash()
		if !account.ExecuteSell(sym, tc.price, tc.qty, "test") {
			t.Fatalf("sell %d failed", i)
		}
		if want := before + tc.price*float64(tc.qty)*0.999; !near(account.Cash(), want) {
			t.Fatalf("sell %d: expected cash %.6f got %.6f", i, want, account.Cash())
		}
	}
	// a round trip at the same price always loses both commissions
	if account.LosingTrades() != len(cases) || account.RealizedPnL() >= 0 {
		t.Fatalf("expected flat round trips to lose, got %d losers pnl %.4f", account.LosingTrades(), account.RealizedPnL())
	}
}

func TestBuyInsufficientCashLeavesStateUnchanged(t *testing.T) {
	account := NewAccount(1000)
	if account.ExecuteBuy("AAPL", 100, 10, "test") { // 1001 required
		t.Fatalf("expected buy to fail")
	}
	if account.Cash() != 1000 || account.TradeCount() != 0 || len(account.Trades()) != 0 {
		t.Fatalf("state changed after failed buy")
	}
	if pos := account.Position("AAPL"); pos.Qty != 0 || pos.TotalCost != 0 || len(pos.Trades) != 0 {
		t.Fatalf("position changed after failed buy: %+v", pos)
	}
	if !account.ExecuteBuy("AAPL", 100, 9, "test") {
		t.Fatalf("expected affordable buy to pass")
	}
}

func TestSellMoreThanHeldLeavesStateUnchanged(t *testing.T) {
	account := NewAccount(10000)
	if account.ExecuteSell("AAPL", 100, 1, "test") {
		t.Fatalf("expected sell without position to fail")
	}
	if !account.ExecuteBuy("AAPL", 100, 5, "test") {
		t.Fatalf("expected buy to pass")
	}
	cash := account.Cash()
	before := account.Position("AAPL")
	if account.ExecuteSell("AAPL", 100, 6, "test") {
		t.Fatalf("expected oversell to fail")
	}
	after := account.Position("AAPL")
	if account.Cash() != cash || after.Qty != before.Qty || after.TotalCost != before.TotalCost {
		t.Fatalf("state changed after failed sell")
	}
	if account.TradeCount() != 1 || account.RealizedPnL() != 0 || account.LosingTrades() != 0 {
		t.Fatalf("counters changed after failed sell")
	}
}

func TestNoPyramiding(t *testing.T) {
	account := NewAccount(10000)
	if !account.ExecuteBuy("AAPL", 10, 10, "test") {
		t.Fatalf("expected first buy to pass")
	}
	cash := account.Cash()
	if account.ExecuteBuy("AAPL", 10, 10, "test") {
		t.Fatalf("expected second buy on open position to fail")
	}
	if account.Cash() != cash || account.Position("AAPL").Qty != 10 {
		t.Fatalf("state changed after rejected pyramid")
	}
	if !account.ExecuteSell("AAPL", 10, 10, "test") {
		t.Fatalf("expected close to pass")
	}
	if !account.ExecuteBuy("AAPL", 10, 10, "test") {
		t.Fatalf("expected re-entry after flat to pass")
	}
	if got := len(account.Position("AAPL").Trades); got != 3 {
		t.Fatalf("expected position to keep its trade list, got %d", got)
	}
}

func TestRejectsNonPositiveInputs(t *testing.T) {
	account := NewAccount(10000)
	if account.ExecuteBuy("AAPL", 10, 0, "test") || account.ExecuteBuy("AAPL", 0, 1, "test") || account.ExecuteBuy("", 1, 1, "test") {
		t.Fatalf("expected invalid buys to fail")
	}
	if account.ExecuteSell("AAPL", 10, -1, "test") {
		t.Fatalf("expected invalid sell to fail")
	}
	if account.TradeCount() != 0 {
		t.Fatalf("invalid orders must not count")
	}
}

func TestRejectsNonFinitePrices(t *testing.T) {
	account := NewAccount(10000)
	for _, px := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if account.ExecuteBuy("AAPL", px, 1, "test") {
			t.Fatalf("expected buy at %v to fail", px)
		}
	}
	if !account.ExecuteBuy("AAPL", 10, 5, "test") {
		t.Fatalf("expected finite buy to pass")
	}
	cash := account.Cash()
	for _, px := range []float64{math.NaN(), math.Inf(1)} {
		if account.ExecuteSell("AAPL", px, 5, "test") {
			t.Fatalf("expected sell at %v to fail", px)
		}
	}
	if account.Cash() != cash || account.Position("AAPL").Qty != 5 || account.TradeCount() != 1 {
		t.Fatalf("state changed after non-finite orders")
	}
	if math.IsNaN(account.RealizedPnL()) {
		t.Fatalf("realized pnl poisoned")
	}
}

func TestPartialSellKeepsAverageCostInvariant(t *testing.T) {
	account := NewAccount(10000)
	if !account.ExecuteBuy("AAPL", 33.33, 9, "test") {
		t.Fatalf("expected buy to pass")
	}
	for _, qty := range []int{2, 3, 1} {
		if !account.ExecuteSell("AAPL", 30, qty, "test") {
			t.Fatalf("expected partial sell to pass")
		}
		pos := account.Position("AAPL")
		want := pos.AvgEntryPrice * float64(pos.Qty)
		if math.Abs(pos.TotalCost-want) > 1e-6*math.Max(1, want) {
			t.Fatalf("totalCost %.8f != avg*qty %.8f", pos.TotalCost, want)
		}
		if !near(pos.AvgEntryPrice, 33.33*1.001) {
			t.Fatalf("average entry drifted: %.8f", pos.AvgEntryPrice)
		}
	}
	if account.Position("AAPL").Qty != 3 || account.OpenPositions() != 1 {
		t.Fatalf("expected 3 shares left open")
	}
}

func TestMarkToMarketQueries(t *testing.T) {
	account := NewAccount(10000)
	account.ExecuteBuy("AAPL", 10, 10, "test") // cost 100.10
	account.ExecuteBuy("MSFT", 20, 5, "test")  // cost 100.10

	prices := map[string]float64{"AAPL": 11, "MSFT": 19}
	cash := account.Cash()
	if got, want := account.PortfolioValue(prices), cash+110+95; !near(got, want) {
		t.Fatalf("expected portfolio %.4f got %.4f", want, got)
	}
	if got, want := account.UnrealizedPnL(prices), (110-100.10)+(95-100.10); !near(got, want) {
		t.Fatalf("expected unrealized %.4f got %.4f", want, got)
	}
	if got, want := account.TotalPnL(prices), account.UnrealizedPnL(prices); !near(got, want) {
		t.Fatalf("expected total pnl %.4f got %.4f", want, got)
	}

	partial := map[string]float64{"AAPL": 11}
	if got, want := account.PortfolioValue(partial), cash+110; !near(got, want) {
		t.Fatalf("unpriced symbols should not count: %.4f vs %.4f", got, want)
	}

	snap := account.Snapshot(partial)
	if len(snap.Positions) != 2 || snap.Positions[0].Symbol != "AAPL" || snap.Positions[1].Symbol != "MSFT" {
		t.Fatalf("expected sorted open positions, got %+v", snap.Positions)
	}
	if !snap.Positions[0].Priced || snap.Positions[1].Priced {
		t.Fatalf("unexpected priced flags %+v", snap.Positions)
	}
	if !near(snap.PortfolioValue, cash+110) || !near(snap.UnrealizedPnL, 110-100.10) {
		t.Fatalf("unexpected snapshot totals %+v", snap)
	}
	if snap.StartingCash != 10000 || snap.TradeCount != 2 {
		t.Fatalf("unexpected snapshot counters %+v", snap)
	}
}

func TestCommissionAndClockOptions(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ledger := NewLedger(0)
	account := NewAccount(1000, WithCommissionRate(0), WithClock(func() time.Time { return fixed }), WithRecorder(ledger))
	if !account.ExecuteBuy("AAPL", 10, 100, "test") {
		t.Fatalf("expected commission-free buy of entire bankroll to pass")
	}
	if account.Cash() != 0 || account.CommissionRate() != 0 {
		t.Fatalf("expected zero cash left, got %.4f", account.Cash())
	}
	trades := ledger.Snapshot()
	if len(trades) != 1 || !trades[0].Ts.Equal(fixed) {
		t.Fatalf("expected recorder to see the fixed-clock trade, got %+v", trades)
	}
}

func TestConcurrentTradingKeepsBooksBalanced(t *testing.T) {
	account := NewAccount(1_000_000, WithCommissionRate(0))
	symbols := []string{"AAPL", "MSFT", "NVDA", "TSLA"}

	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if account.ExecuteBuy(sym, 100, 10, "test") {
					account.ExecuteSell(sym, 100, 10, "test")
				}
			}
		}(sym)
	}
	stop := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		prices := map[string]float64{"AAPL": 100, "MSFT": 100, "NVDA": 100, "TSLA": 100}
		for {
			select {
			case <-stop:
				return
			default:
			}
			// with zero commission and flat prices equity is invariant
			snap := account.Snapshot(prices)
			if !near(snap.PortfolioValue, 1_000_000) {
				t.Errorf("observed partially applied trade: equity %.4f", snap.PortfolioValue)
				return
			}
		}
	}()
	wg.Wait()
	close(stop)
	readers.Wait()

	if account.TradeCount() != len(symbols)*400 {
		t.Fatalf("expected %d trades, got %d", len(symbols)*400, account.TradeCount())
	}
	if !near(account.Cash(), 1_000_000) {
		t.Fatalf("cash drifted to %.4f", account.Cash())
	}
}
