package strategy

import (
	"hftbot-go/internal/signal"
)

// Breakout trades a close outside the recent channel after a period of consolidation.
type Breakout struct {
	channel       int
	recent        int
	maxCompress   float64 // recentRange/range ceiling
	minRangePct   float64
	takePct       float64
	stopBufferPct float64
	confidence    float64
}

// NewBreakout builds a 30-sample channel breakout with a 10-sample consolidation check.
func NewBreakout() *Breakout {
	return &Breakout{
		channel:       30,
		recent:        10,
		maxCompress:   0.65,
		minRangePct:   0.015,
		takePct:       0.02,
		stopBufferPct: 0.004,
		confidence:    0.81,
	}
}

// Name returns the identifier for the strategy implementation.
func (b *Breakout) Name() string { return "Breakout" }

// MinHistory is the fewest samples Analyze needs.
func (b *Breakout) MinHistory() int { return b.channel }

// Analyze compares the current mid against the channel built from the samples
// preceding the newest one.
func (b *Breakout) Analyze(symbol string, history []float64, q signal.Quote) signal.Signal {
	sig := signal.Hold(b.Name())
	if len(history) < b.channel || b.recent > b.channel {
		return sig
	}
	window := tail(history, b.channel)
	high, low, ok := highLow(window[:len(window)-1])
	if !ok {
		return sig
	}
	recentHigh, recentLow, ok := highLow(tail(history, b.recent))
	if !ok {
		return sig
	}
	rng := high - low
	if rng <= 0 || high <= 0 || low <= 0 {
		return sig
	}
	if (recentHigh-recentLow)/rng >= b.maxCompress {
		return sig
	}

	mid := q.Mid()
	switch {
	case mid > high && rng/high > b.minRangePct:
		sig.Action = signal.Buy
		sig.TakeProfit = mid * (1 + b.takePct)
		sig.StopLoss = high * (1 - b.stopBufferPct)
	case mid < low && rng/low > b.minRangePct:
		sig.Action = signal.Sell
		sig.TakeProfit = mid * (1 - b.takePct)
		sig.StopLoss = low * (1 + b.stopBufferPct)
	default:
		return sig
	}
	sig.Confidence = b.confidence
	return sig
}
