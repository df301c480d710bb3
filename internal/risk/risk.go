// Package risk holds the sizing, exposure, and forced-exit rules applied by the decision loop.
package risk

import "math"

type Limits struct {
	SizingFraction   float64 // share of cash committed per entry
	MaxOpenPositions int
	StopLossPct      float64 // forced exit below -StopLossPct
	TakeProfitPct    float64 // forced exit above +TakeProfitPct
}

// DefaultLimits mirrors the stock trading configuration.
func DefaultLimits() Limits {
	return Limits{SizingFraction: 0.02, MaxOpenPositions: 25, StopLossPct: 0.018, TakeProfitPct: 0.022}
}

// Allow reports whether another position may be opened.
func (l Limits) Allow(openPositions int) bool {
	return openPositions < l.MaxOpenPositions
}

// Size returns floor(cash*SizingFraction/price), or 0 when price is not positive.
func (l Limits) Size(cash, price float64) int {
	if price <= 0 || cash <= 0 {
		return 0
	}
	return int(math.Floor(cash * l.SizingFraction / price))
}

// ShouldExit reports whether the move from entry to mark breaches the stop or target.
func (l Limits) ShouldExit(entry, mark float64) bool {
	if entry <= 0 {
		return false
	}
	pnl := (mark - entry) / entry
	return pnl < -l.StopLossPct || pnl > l.TakeProfitPct
}
