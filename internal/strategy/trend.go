package strategy

import (
	"hftbot-go/internal/signal"
)

// TrendFollower enters on a short/long moving-average crossover backed by momentum.
type TrendFollower struct {
	shortPeriod int
	longPeriod  int
	threshold   float64 // minimum (short-long)/long
	takePct     float64
	stopPct     float64
	confidence  float64
}

// NewTrendFollower builds a 10/30 crossover strategy.
func NewTrendFollower() *TrendFollower {
	return &TrendFollower{
		shortPeriod: 10,
		longPeriod:  30,
		threshold:   0.003,
		takePct:     0.015,
		stopPct:     0.008,
		confidence:  0.84,
	}
}

// Name returns the configured identifier for logging.
func (t *TrendFollower) Name() string { return "TrendFollow" }

// MinHistory is the fewest samples Analyze needs.
func (t *TrendFollower) MinHistory() int { return t.longPeriod }

// Analyze looks for a crossover on the newest sample.
func (t *TrendFollower) Analyze(symbol string, history []float64, q signal.Quote) signal.Signal {
	sig := signal.Hold(t.Name())
	if len(history) < t.longPeriod || len(history) < t.shortPeriod+1 {
		return sig
	}
	shortMA, _ := sma(history, t.shortPeriod)
	longMA, _ := sma(history, t.longPeriod)
	prevShortMA, _ := sma(history[:len(history)-1], t.shortPeriod)
	if longMA <= 0 {
		return sig
	}
	recent, ok := recentChange(history, momentumLag)
	if !ok {
		return sig
	}

	crossedUp := prevShortMA <= longMA && shortMA > longMA
	crossedDown := prevShortMA >= longMA && shortMA < longMA
	momentum := (shortMA - longMA) / longMA

	mid := q.Mid()
	switch {
	case crossedUp && momentum > t.threshold && recent > 0:
		sig.Action = signal.Buy
		sig.TakeProfit = mid * (1 + t.takePct)
		sig.StopLoss = mid * (1 - t.stopPct)
	case crossedDown && momentum < -t.threshold && recent < 0:
		sig.Action = signal.Sell
		sig.TakeProfit = mid * (1 - t.takePct)
		sig.StopLoss = mid * (1 + t.stopPct)
	default:
		return sig
	}
	sig.Confidence = t.confidence
	return sig
}
