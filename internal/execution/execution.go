// Package execution routes order requests to the paper book and records what happened.
package execution

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hftbot-go/internal/metrics"
)

// Side enumerates order directions used by the executor.
type Side string

const (
	// Buy opens or adds to a long position.
	Buy Side = "BUY"
	// Sell reduces or closes a long position.
	Sell Side = "SELL"
)

// Order represents a placement request the executor can process.
type Order struct {
	Symbol   string
	Side     Side
	Qty      int
	Price    float64
	Strategy string
}

// Trade is an immutable record of a filled order. RealizedPnL is set on sells only.
type Trade struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        Side      `json:"side"`
	Price       float64   `json:"price"`
	Qty         int       `json:"qty"`
	Ts          time.Time `json:"ts"`
	Strategy    string    `json:"strategy"`
	Commission  float64   `json:"commission"`
	RealizedPnL float64   `json:"realized_pnl,omitempty"`
}

// Book is the account surface orders are filled against.
type Book interface {
	ExecuteBuy(symbol string, price float64, qty int, strategy string) bool
	ExecuteSell(symbol string, price float64, qty int, strategy string) bool
}

// Executor fills orders against a Book, logging and counting every outcome.
type Executor struct {
	log  zerolog.Logger
	book Book
}

// NewExecutor wraps a book with a zerolog logger.
func NewExecutor(log zerolog.Logger, book Book) *Executor {
	return &Executor{log: log, book: book}
}

// Submit fills the order and reports whether the book accepted it.
func (executor *Executor) Submit(order Order) bool {
	var ok bool
	switch order.Side {
	case Buy:
		ok = executor.book.ExecuteBuy(order.Symbol, order.Price, order.Qty, order.Strategy)
	case Sell:
		ok = executor.book.ExecuteSell(order.Symbol, order.Price, order.Qty, order.Strategy)
	default:
		executor.log.Warn().Str("sym", order.Symbol).Str("side", string(order.Side)).Msg("unknown order side")
		return false
	}

	if !ok {
		metrics.OrderRejectsTotal.WithLabelValues(order.Symbol, string(order.Side)).Inc()
		executor.log.Debug().
			Str("sym", order.Symbol).
			Str("side", string(order.Side)).
			Int("qty", order.Qty).
			Float64("px", order.Price).
			Str("strategy", order.Strategy).
			Msg("order rejected")
		return false
	}
	metrics.OrdersTotal.WithLabelValues(order.Symbol, string(order.Side)).Inc()
	executor.log.Info().
		Str("sym", order.Symbol).
		Str("side", string(order.Side)).
		Int("qty", order.Qty).
		Float64("px", order.Price).
		Str("strategy", order.Strategy).
		Msg("order filled")
	return true
}
