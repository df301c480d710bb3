// Package report turns account state into periodic status lines, a websocket feed, and the final summary.
package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"hftbot-go/internal/metrics"
	"hftbot-go/internal/paper"
)

const defaultInterval = time.Second

// Book is the read side of the paper account.
type Book interface {
	Snapshot(prices map[string]float64) paper.Snapshot
}

// Marks supplies the latest mid price per symbol.
type Marks interface {
	Mids() map[string]float64
}

// Status is the periodic one-line view of the session.
type Status struct {
	Ts             time.Time `json:"ts"`
	PortfolioValue float64   `json:"portfolio_value"`
	Cash           float64   `json:"cash"`
	PnL            float64   `json:"pnl"`
	ReturnPct      float64   `json:"return_pct"`
	Trades         int       `json:"trades"`
	OpenPositions  int       `json:"open_positions"`
}

// Reporter reads the account through accessors only and never trades.
type Reporter struct {
	log      zerolog.Logger
	book     Book
	marks    Marks
	hub      *Hub
	interval time.Duration
	now      func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithHub broadcasts every status to hub as JSON.
func WithHub(hub *Hub) Option {
	return func(r *Reporter) { r.hub = hub }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReporter builds a reporter over book marked at marks.
func NewReporter(log zerolog.Logger, book Book, marks Marks, opts ...Option) *Reporter {
	r := &Reporter{log: log, book: book, marks: marks, interval: defaultInterval, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Status marks the account to the latest mids.
func (r *Reporter) Status() Status {
	snap := r.book.Snapshot(r.marks.Mids())
	st := Status{
		Ts:             r.now(),
		PortfolioValue: snap.PortfolioValue,
		Cash:           snap.Cash,
		PnL:            snap.PortfolioValue - snap.StartingCash,
		Trades:         snap.TradeCount,
		OpenPositions:  len(snap.Positions),
	}
	if snap.StartingCash > 0 {
		st.ReturnPct = st.PnL / snap.StartingCash * 100
	}
	return st
}

// Summary builds the final accounting from the latest mids.
func (r *Reporter) Summary() Summary {
	return BuildSummary(r.book.Snapshot(r.marks.Mids()))
}

// Publish logs st, updates gauges, and forwards it to the hub when attached.
func (r *Reporter) Publish(st Status) {
	r.log.Info().
		Float64("portfolio", st.PortfolioValue).
		Float64("pnl", st.PnL).
		Float64("return_pct", st.ReturnPct).
		Int("trades", st.Trades).
		Int("open", st.OpenPositions).
		Msg("status")

	metrics.PortfolioValue.Set(st.PortfolioValue)
	metrics.Cash.Set(st.Cash)
	metrics.OpenPositions.Set(float64(st.OpenPositions))

	if r.hub == nil {
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		r.log.Warn().Err(err).Msg("encode status")
		return
	}
	r.hub.Broadcast(payload)
}

// Run publishes a status every interval until ctx is canceled.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Publish(r.Status())
		}
	}
}
