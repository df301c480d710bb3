package paper

import (
	"sync"

	"hftbot-go/internal/execution"
)

// Ledger is the append-only in-memory trade log.
type Ledger struct {
	mu     sync.Mutex
	trades []execution.Trade
}

// NewLedger creates an empty ledger optionally pre-sizing storage.
func NewLedger(capacity int) *Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return &Ledger{trades: make([]execution.Trade, 0, capacity)}
}

// Record appends a trade to the ledger.
func (l *Ledger) Record(trade execution.Trade) {
	l.mu.Lock()
	l.trades = append(l.trades, trade)
	l.mu.Unlock()
}

// Len reports how many trades are stored.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

// Snapshot returns a copy of the recorded trades.
func (l *Ledger) Snapshot() []execution.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]execution.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// BySymbol returns the trades for one symbol in booking order.
func (l *Ledger) BySymbol(symbol string) []execution.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []execution.Trade
	for _, tr := range l.trades {
		if tr.Symbol == symbol {
			out = append(out, tr)
		}
	}
	return out
}
