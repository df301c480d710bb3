// Package engine wires the quote simulator, strategies, and paper account into a running session.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hftbot-go/internal/execution"
	"hftbot-go/internal/metrics"
	"hftbot-go/internal/paper"
	"hftbot-go/internal/risk"
	"hftbot-go/internal/signal"
	"hftbot-go/internal/strategy"
)

// ExitTag labels forced liquidations.
const ExitTag = "StopLoss/TakeProfit"

const (
	defaultCycleInterval = 150 * time.Millisecond
	defaultMinHistory    = 50
	defaultMinConfidence = 0.80
)

// QuoteSource is the read side of the quote store. Every call copies out.
type QuoteSource interface {
	Symbols() []string
	Quote(symbol string) (signal.Quote, bool)
	History(symbol string) []float64
}

// Portfolio is the read side of the paper account used for decisions.
type Portfolio interface {
	Position(symbol string) paper.Position
	Cash() float64
	OpenPositions() int
}

// Submitter fills orders and reports whether they were accepted.
type Submitter interface {
	Submit(order execution.Order) bool
}

// CycleStats summarizes one pass over the symbol list.
type CycleStats struct {
	Evaluated int
	Exits     int
	Entries   int
	Rejected  int
	Skipped   int // qualifying signals dropped by sizing, the position cap, or the no-short rule
}

// Trader is the decision loop: forced exits first, then strategy-driven entries for flat symbols.
// Entries act on the first qualifying BUY in priority order.
type Trader struct {
	log           zerolog.Logger
	quotes        QuoteSource
	book          Portfolio
	exec          Submitter
	strategies    []strategy.Strategy
	limits        risk.Limits
	interval      time.Duration
	minHistory    int
	minConfidence float64
}

// TraderOption configures a Trader.
type TraderOption func(*Trader)

// WithCycleInterval overrides the 150ms cadence.
func WithCycleInterval(d time.Duration) TraderOption {
	return func(t *Trader) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithLimits replaces risk.DefaultLimits.
func WithLimits(l risk.Limits) TraderOption {
	return func(t *Trader) { t.limits = l }
}

// WithMinHistory sets how many samples a symbol needs before it is considered at all.
func WithMinHistory(n int) TraderOption {
	return func(t *Trader) {
		if n >= 0 {
			t.minHistory = n
		}
	}
}

// WithMinConfidence sets the strict lower bound a signal's confidence must exceed.
func WithMinConfidence(c float64) TraderOption {
	return func(t *Trader) { t.minConfidence = c }
}

// NewTrader builds a decision loop over the given collaborators.
func NewTrader(log zerolog.Logger, quotes QuoteSource, book Portfolio, exec Submitter, strategies []strategy.Strategy, opts ...TraderOption) *Trader {
	t := &Trader{
		log:           log,
		quotes:        quotes,
		book:          book,
		exec:          exec,
		strategies:    strategies,
		limits:        risk.DefaultLimits(),
		interval:      defaultCycleInterval,
		minHistory:    defaultMinHistory,
		minConfidence: defaultMinConfidence,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes a cycle on every tick until the context is canceled.
func (t *Trader) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	names := make([]string, len(t.strategies))
	for i, s := range t.strategies {
		names[i] = s.Name()
	}
	t.log.Info().Strs("strategies", names).Dur("every", t.interval).Msg("trading loop started")
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Msg("trading loop stopped")
			return ctx.Err()
		case <-ticker.C:
			t.Cycle()
		}
	}
}

// Cycle makes one pass over every symbol in the quote source's order.
func (t *Trader) Cycle() CycleStats {
	var stats CycleStats
	for _, sym := range t.quotes.Symbols() {
		q, ok := t.quotes.Quote(sym)
		if !ok || q.Symbol == "" {
			continue
		}
		history := t.quotes.History(sym)
		if len(history) < t.minHistory {
			continue
		}
		stats.Evaluated++

		pos := t.book.Position(sym)
		if pos.Qty > 0 {
			t.checkExit(sym, q, pos, &stats)
			// a symbol open at the start of the cycle is not re-entered until the next one
			continue
		}
		t.checkEntry(sym, q, history, &stats)
	}
	return stats
}

func (t *Trader) checkExit(sym string, q signal.Quote, pos paper.Position, stats *CycleStats) {
	if !t.limits.ShouldExit(pos.AvgEntryPrice, q.Mid()) {
		return
	}
	order := execution.Order{Symbol: sym, Side: execution.Sell, Qty: pos.Qty, Price: q.Bid, Strategy: ExitTag}
	if t.exec.Submit(order) {
		stats.Exits++
		return
	}
	stats.Rejected++
	t.log.Warn().Str("sym", sym).Int("qty", pos.Qty).Msg("forced exit failed")
}

func (t *Trader) checkEntry(sym string, q signal.Quote, history []float64, stats *CycleStats) {
	for _, strat := range t.strategies {
		sig := strat.Analyze(sym, history, q)
		if sig.Action == signal.None || sig.Confidence <= t.minConfidence {
			continue
		}
		metrics.SignalsTotal.WithLabelValues(sig.Strategy, sig.Action.String()).Inc()

		if sig.Action != signal.Buy {
			// flat and no shorting: nothing to sell, a lower-priority BUY may still apply
			stats.Skipped++
			continue
		}
		qty := t.limits.Size(t.book.Cash(), q.Ask)
		if qty == 0 || !t.limits.Allow(t.book.OpenPositions()) {
			stats.Skipped++
			return
		}
		order := execution.Order{Symbol: sym, Side: execution.Buy, Qty: qty, Price: q.Ask, Strategy: sig.Strategy}
		if t.exec.Submit(order) {
			stats.Entries++
			t.log.Debug().
				Str("sym", sym).
				Str("strategy", sig.Strategy).
				Float64("tp", sig.TakeProfit).
				Float64("sl", sig.StopLoss).
				Msg("entry")
		} else {
			stats.Rejected++
		}
		return
	}
}
