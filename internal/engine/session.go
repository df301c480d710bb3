package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hftbot-go/internal/config"
	"hftbot-go/internal/exchange"
	"hftbot-go/internal/execution"
	"hftbot-go/internal/paper"
	"hftbot-go/internal/report"
	"hftbot-go/internal/risk"
	"hftbot-go/internal/strategy"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("session already started")

// Session owns one trading run: the simulator, the account, the decision loop, and the reporter.
type Session struct {
	cfg      *config.Config
	log      zerolog.Logger
	sim      *exchange.Simulator
	account  *paper.Account
	trader   *Trader
	reporter *report.Reporter
	hub      *report.Hub
	journal  *paper.JSONLRecorder
	warmup   time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	started bool
	stopped bool
	summary report.Summary
}

// SessionOption customises a session beyond what the config carries.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	strategies []strategy.Strategy
	warmup     *time.Duration
	hub        *report.Hub
}

// WithStrategies replaces the configured strategy list.
func WithStrategies(s ...strategy.Strategy) SessionOption {
	return func(o *sessionOptions) { o.strategies = s }
}

// WithWarmup overrides trading.warmup_ms.
func WithWarmup(d time.Duration) SessionOption {
	return func(o *sessionOptions) { o.warmup = &d }
}

// WithHub attaches an externally served status hub instead of one on report.ws_addr.
func WithHub(h *report.Hub) SessionOption {
	return func(o *sessionOptions) { o.hub = h }
}

// NewSession wires every component from cfg.
func NewSession(cfg *config.Config, log zerolog.Logger, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	strategies := o.strategies
	if len(strategies) == 0 {
		built, err := strategy.Build(cfg.Strategy.Names)
		if err != nil {
			return nil, fmt.Errorf("build strategies: %w", err)
		}
		strategies = built
	}

	s := &Session{cfg: cfg, log: log, warmup: cfg.Trading.WarmupDelay()}
	if o.warmup != nil {
		s.warmup = *o.warmup
	}

	s.sim = exchange.NewSimulator(cfg.Market.Symbols, log.With().Str("component", "simulator").Logger(),
		exchange.WithTickInterval(cfg.Market.TickEvery()),
		exchange.WithSeed(cfg.Market.Seed),
		exchange.WithHistoryCapacity(cfg.Market.HistoryCapacity),
		exchange.WithSpreadPct(cfg.Market.SpreadPct),
		exchange.WithShockScale(cfg.Market.ShockScale),
		exchange.WithDriftChangeProb(cfg.Market.DriftChangeProb),
	)

	accountOpts := []paper.AccountOption{paper.WithCommissionRate(cfg.Paper.CommissionRate)}
	if cfg.Paper.TradesPath != "" {
		journal, err := paper.NewJSONLRecorder(cfg.Paper.TradesPath)
		if err != nil {
			return nil, fmt.Errorf("open trade journal: %w", err)
		}
		s.journal = journal
		accountOpts = append(accountOpts, paper.WithRecorder(journal))
	}
	s.account = paper.NewAccount(cfg.Paper.StartingCash, accountOpts...)

	exec := execution.NewExecutor(log.With().Str("component", "executor").Logger(), s.account)
	s.trader = NewTrader(log.With().Str("component", "trader").Logger(), s.sim, s.account, exec, strategies,
		WithCycleInterval(cfg.Trading.CycleEvery()),
		WithMinHistory(cfg.Trading.MinHistory),
		WithMinConfidence(cfg.Trading.MinConfidence),
		WithLimits(risk.Limits{
			SizingFraction:   cfg.Trading.SizingFraction,
			MaxOpenPositions: cfg.Trading.MaxOpenPositions,
			StopLossPct:      cfg.Trading.StopLossPct,
			TakeProfitPct:    cfg.Trading.TakeProfitPct,
		}),
	)

	s.hub = o.hub
	if s.hub == nil && cfg.Report.WSAddr != "" {
		s.hub = report.NewHub(log.With().Str("component", "hub").Logger())
	}
	reportOpts := []report.Option{report.WithInterval(cfg.Report.Every())}
	if s.hub != nil {
		reportOpts = append(reportOpts, report.WithHub(s.hub))
	}
	s.reporter = report.NewReporter(log.With().Str("component", "reporter").Logger(), s.account, s.sim, reportOpts...)
	return s, nil
}

// Account exposes the ledger for read-only callers.
func (s *Session) Account() *paper.Account { return s.account }

// Simulator exposes the quote store.
func (s *Session) Simulator() *exchange.Simulator { return s.sim }

// Reporter exposes the status reporter.
func (s *Session) Reporter() *report.Reporter { return s.reporter }

// Start launches the simulator, blocks for the warm-up, then launches the trader and reporter.
// It returns ctx.Err() if ctx ends during warm-up; Stop must still be called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.spawn("simulator", func() error { return s.sim.Run(ctx) })
	if s.hub != nil && s.cfg.Report.WSAddr != "" {
		addr := s.cfg.Report.WSAddr
		s.spawn("hub", func() error { return s.hub.Serve(ctx, addr) })
	}
	s.mu.Unlock()

	s.log.Info().Dur("warmup", s.warmup).Int("symbols", len(s.sim.Symbols())).Msg("warming up")
	if s.warmup > 0 {
		timer := time.NewTimer(s.warmup)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return context.Canceled
	}
	s.spawn("trader", func() error { return s.trader.Run(ctx) })
	s.spawn("reporter", func() error { return s.reporter.Run(ctx) })
	s.log.Info().Float64("cash", s.account.StartingCash()).Msg("session ready")
	return nil
}

// spawn runs a task under the wait group; callers hold mu.
func (s *Session) spawn(name string, run func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := run(); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error().Err(err).Str("task", name).Msg("task stopped")
		}
	}()
}

// Stop cancels every task, waits for them, and returns the final summary.
// Later calls return the same summary.
func (s *Session) Stop() report.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return s.summary
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if s.hub != nil {
		s.hub.Close()
	}
	if s.journal != nil {
		if err := s.journal.Err(); err != nil {
			s.log.Warn().Err(err).Int("written", s.journal.Written()).Msg("trade journal stopped early")
		}
		if err := s.journal.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close trade journal")
		}
	}
	s.summary = s.reporter.Summary()
	s.log.Info().
		Int("trades", s.summary.Trades).
		Str("pnl", s.summary.TotalPnL.StringFixed(2)).
		Msg("session stopped")
	return s.summary
}
