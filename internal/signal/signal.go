// Package signal standardizes payloads shared between the quote simulator, strategies, and the decision loop.
package signal

import "time"

// Quote is an immutable top-of-book snapshot published by the simulator.
// A zero Quote (empty Symbol) means nothing has been published for the symbol yet.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
	Last   float64
	Volume int64
	Ts     time.Time
}

// Spread returns ask minus bid.
func (q Quote) Spread() float64 { return q.Ask - q.Bid }

// Mid returns the average of bid and ask.
func (q Quote) Mid() float64 { return (q.Bid + q.Ask) / 2 }

// Action is the direction a strategy recommends.
type Action int

const (
	None Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Signal expresses a trade recommendation produced by a strategy implementation.
// Signals are transient and recomputed every cycle.
type Signal struct {
	Action     Action
	Confidence float64 // 0..1
	Strategy   string
	StopLoss   float64
	TakeProfit float64
}

// Hold returns a NONE signal attributed to the named strategy.
func Hold(strategy string) Signal {
	return Signal{Action: None, Strategy: strategy}
}
