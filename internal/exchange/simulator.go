// Package exchange hosts the synthetic market the engine trades against.
package exchange

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hftbot-go/internal/metrics"
	"hftbot-go/internal/signal"
)

const (
	defaultTickInterval    = 50 * time.Millisecond
	defaultHistoryCapacity = 200
	defaultSpreadPct       = 0.0001
	defaultShockScale      = 0.0008
	defaultDriftChangeProb = 1.0 / 500
	minPrice               = 0.01
)

// walk is the hidden random-walk state of one symbol.
type walk struct {
	price      float64
	volatility float64
	drift      float64
}

// Simulator evolves a synthetic price for every tracked symbol and publishes quotes plus a bounded mid-price history.
type Simulator struct {
	symbols         []string
	log             zerolog.Logger
	tickInterval    time.Duration
	historyCapacity int
	spreadPct       float64
	shockScale      float64
	driftChangeProb float64
	seed            int64

	genMu sync.Mutex
	rng   *rand.Rand
	walks map[string]*walk

	mu      sync.RWMutex
	quotes  map[string]signal.Quote
	history map[string]*History
}

// Option configures Simulator construction parameters.
type Option func(*Simulator)

// WithTickInterval overrides the default 50ms cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithSeed makes the random walk reproducible. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithHistoryCapacity bounds the per-symbol mid-price window.
func WithHistoryCapacity(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.historyCapacity = n
		}
	}
}

// WithSpreadPct sets the half-spread applied around the price.
func WithSpreadPct(pct float64) Option {
	return func(s *Simulator) {
		if pct >= 0 && pct < 1 {
			s.spreadPct = pct
		}
	}
}

// WithShockScale scales the per-tick normal shock.
func WithShockScale(scale float64) Option {
	return func(s *Simulator) {
		if scale > 0 {
			s.shockScale = scale
		}
	}
}

// WithDriftChangeProb sets the per-tick chance a symbol's drift is redrawn.
func WithDriftChangeProb(p float64) Option {
	return func(s *Simulator) {
		if p >= 0 && p <= 1 {
			s.driftChangeProb = p
		}
	}
}

// NewSimulator constructs a simulator for symbols (DefaultSymbols when empty).
// Duplicates are dropped; the first-seen order is kept so iteration stays deterministic.
func NewSimulator(symbols []string, log zerolog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		log:             log,
		tickInterval:    defaultTickInterval,
		historyCapacity: defaultHistoryCapacity,
		spreadPct:       defaultSpreadPct,
		shockScale:      defaultShockScale,
		driftChangeProb: defaultDriftChangeProb,
		walks:           make(map[string]*walk),
		quotes:          make(map[string]signal.Quote),
		history:         make(map[string]*History),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	s.symbols = dedupe(symbols)

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))

	for _, sym := range s.symbols {
		s.walks[sym] = &walk{
			price:      100 + float64(s.rng.Intn(400)),
			volatility: 0.3 + float64(s.rng.Intn(15))/10,
			drift:      s.randomDrift(),
		}
		s.history[sym] = NewHistory(s.historyCapacity)
	}
	return s
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// randomDrift draws a drift in [-0.0025, 0.00245]; callers hold genMu or own s exclusively.
func (s *Simulator) randomDrift() float64 {
	return float64(s.rng.Intn(100)-50) / 20000
}

// Symbols returns the tracked symbols in iteration order.
func (s *Simulator) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Run ticks until the context is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.log.Info().Int("symbols", len(s.symbols)).Dur("every", s.tickInterval).Msg("quote simulator started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("quote simulator stopped")
			return ctx.Err()
		case ts := <-ticker.C:
			s.step(ts)
		}
	}
}

// Step advances every symbol by one tick and publishes the batch.
func (s *Simulator) Step() {
	s.step(time.Now())
}

func (s *Simulator) step(ts time.Time) {
	batch := make([]signal.Quote, 0, len(s.symbols))

	// genMu spans generation and publish so concurrent steppers publish in walk order.
	s.genMu.Lock()
	defer s.genMu.Unlock()
	for _, sym := range s.symbols {
		w := s.walks[sym]
		shock := s.rng.NormFloat64() * w.volatility * s.shockScale
		w.price = math.Max(minPrice, w.price*(1+shock+w.drift))

		batch = append(batch, signal.Quote{
			Symbol: sym,
			Bid:    w.price * (1 - s.spreadPct),
			Ask:    w.price * (1 + s.spreadPct),
			Last:   w.price,
			Volume: 1_000_000 + int64(s.rng.Intn(500_000)),
			Ts:     ts,
		})

		if s.rng.Float64() < s.driftChangeProb {
			w.drift = s.randomDrift()
		}
	}

	s.mu.Lock()
	for _, q := range batch {
		s.quotes[q.Symbol] = q
		s.history[q.Symbol].Push(q.Mid())
	}
	s.mu.Unlock()

	for _, q := range batch {
		metrics.QuotesTotal.WithLabelValues(q.Symbol).Inc()
	}
}

// Quote returns the latest published snapshot; ok is false before the first tick.
func (s *Simulator) Quote(symbol string) (signal.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// History returns a copy of the symbol's mid prices, oldest first.
func (s *Simulator) History(symbol string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[symbol]
	if !ok {
		return nil
	}
	return h.Values()
}

// Mids returns the latest mid price of every published symbol.
func (s *Simulator) Mids() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.quotes))
	for sym, q := range s.quotes {
		out[sym] = q.Mid()
	}
	return out
}
