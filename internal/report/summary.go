package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"hftbot-go/internal/paper"
)

var hundred = decimal.NewFromInt(100)

// PositionLine is one open position in the final summary.
type PositionLine struct {
	Symbol        string
	Qty           int
	AvgEntryPrice decimal.Decimal
	Current       decimal.Decimal
	Unrealized    decimal.Decimal
	Priced        bool
}

// Summary is the end-of-session accounting. Money is rounded to cents.
type Summary struct {
	InitialCapital decimal.Decimal
	FinalValue     decimal.Decimal
	Cash           decimal.Decimal
	RealizedPnL    decimal.Decimal
	UnrealizedPnL  decimal.Decimal
	TotalPnL       decimal.Decimal
	ReturnPct      decimal.Decimal
	Trades         int
	Wins           int
	Losses         int
	WinRate        decimal.Decimal // percent; meaningful only when HasWinRate
	HasWinRate     bool
	Positions      []PositionLine
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// BuildSummary converts an account snapshot into a Summary.
func BuildSummary(snap paper.Snapshot) Summary {
	total := decimal.NewFromFloat(snap.RealizedPnL).Add(decimal.NewFromFloat(snap.UnrealizedPnL))
	s := Summary{
		InitialCapital: cents(snap.StartingCash),
		FinalValue:     cents(snap.PortfolioValue),
		Cash:           cents(snap.Cash),
		RealizedPnL:    cents(snap.RealizedPnL),
		UnrealizedPnL:  cents(snap.UnrealizedPnL),
		TotalPnL:       total.Round(2),
		Trades:         snap.TradeCount,
		Wins:           snap.WinningTrades,
		Losses:         snap.LosingTrades,
	}
	if snap.StartingCash > 0 {
		s.ReturnPct = total.Div(decimal.NewFromFloat(snap.StartingCash)).Mul(hundred).Round(2)
	}
	if closed := snap.WinningTrades + snap.LosingTrades; closed > 0 {
		s.HasWinRate = true
		s.WinRate = decimal.NewFromInt(int64(snap.WinningTrades)).
			Div(decimal.NewFromInt(int64(closed))).
			Mul(hundred).
			Round(1)
	}
	for _, p := range snap.Positions {
		line := PositionLine{
			Symbol:        p.Symbol,
			Qty:           p.Qty,
			AvgEntryPrice: cents(p.AvgEntryPrice),
			Priced:        p.Priced,
		}
		if p.Priced {
			line.Current = cents(p.Mark)
			line.Unrealized = cents(p.Unrealized)
		}
		s.Positions = append(s.Positions, line)
	}
	return s
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "+$" + d.StringFixed(2)
}

// Render writes the plain-text summary to w.
func (s Summary) Render(w io.Writer) error {
	pw := &errWriter{w: w}
	pw.printf("============================================================\n")
	pw.printf("                     TRADING SUMMARY\n")
	pw.printf("============================================================\n")
	pw.printf("Initial Capital:       $%s\n", s.InitialCapital.StringFixed(2))
	pw.printf("Final Portfolio Value: $%s\n", s.FinalValue.StringFixed(2))
	pw.printf("Cash Remaining:        $%s\n\n", s.Cash.StringFixed(2))
	pw.printf("Realized P&L:          %s\n", signed(s.RealizedPnL))
	pw.printf("Unrealized P&L:        %s\n", signed(s.UnrealizedPnL))
	pw.printf("Total P&L:             %s (%s%%)\n\n", signed(s.TotalPnL), signedPct(s.ReturnPct))
	pw.printf("Total Trades:          %d\n", s.Trades)
	pw.printf("Winning Trades:        %d\n", s.Wins)
	pw.printf("Losing Trades:         %d\n", s.Losses)
	if s.HasWinRate {
		pw.printf("Win Rate:              %s%%\n", s.WinRate.StringFixed(1))
	}
	if len(s.Positions) > 0 {
		pw.printf("\nOpen Positions: %d\n", len(s.Positions))
		for _, p := range s.Positions {
			if !p.Priced {
				pw.printf("  %s: %d @ $%s (no quote)\n", p.Symbol, p.Qty, p.AvgEntryPrice.StringFixed(2))
				continue
			}
			pw.printf("  %s: %d @ $%s (Current: $%s) %s\n",
				p.Symbol, p.Qty, p.AvgEntryPrice.StringFixed(2), p.Current.StringFixed(2), signed(p.Unrealized))
		}
	}
	return pw.err
}

func signedPct(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
