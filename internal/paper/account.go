package paper

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hftbot-go/internal/execution"
)

// DefaultCommissionRate is charged on the notional of every fill.
const DefaultCommissionRate = 0.001

// TradeRecorder captures paper trades for later inspection.
type TradeRecorder interface {
	Record(execution.Trade)
}

// Position is a copy of one symbol's holding. TotalCost includes buy commissions,
// so AvgEntryPrice is the all-in cost per share.
type Position struct {
	Qty           int
	AvgEntryPrice float64
	TotalCost     float64
	Trades        []execution.Trade
}

type positionState struct {
	qty       int
	avgEntry  float64
	totalCost float64
	trades    []execution.Trade
}

// Account tracks virtual cash, realized PnL, and per-symbol long positions while trading in paper mode.
// Every method takes the same lock, so no reader observes a partially applied trade.
type Account struct {
	mu             sync.Mutex
	startingCash   float64
	cash           float64
	commissionRate float64
	realizedPnL    float64
	tradeCount     int
	winningTrades  int
	losingTrades   int
	positions      map[string]*positionState
	ledger         *Ledger
	recorder       TradeRecorder
	now            func() time.Time
}

// AccountOption configures an Account.
type AccountOption func(*Account)

// WithCommissionRate overrides DefaultCommissionRate.
func WithCommissionRate(rate float64) AccountOption {
	return func(a *Account) {
		if rate >= 0 && rate < 1 {
			a.commissionRate = rate
		}
	}
}

// WithRecorder forwards every trade to r after it is booked.
func WithRecorder(r TradeRecorder) AccountOption {
	return func(a *Account) { a.recorder = r }
}

// WithClock replaces time.Now for trade timestamps.
func WithClock(now func() time.Time) AccountOption {
	return func(a *Account) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAccount constructs an account populated with starting cash.
func NewAccount(startingCash float64, opts ...AccountOption) *Account {
	a := &Account{
		startingCash:   startingCash,
		cash:           startingCash,
		commissionRate: DefaultCommissionRate,
		positions:      make(map[string]*positionState),
		ledger:         NewLedger(256),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartingCash returns the initial bankroll.
func (a *Account) StartingCash() float64 { return a.startingCash }

// CommissionRate returns the fee charged per unit of notional.
func (a *Account) CommissionRate() float64 { return a.commissionRate }

// ExecuteBuy opens a position at price. It fails without side effects when the
// symbol already has an open position or cash does not cover cost plus commission.
func (a *Account) ExecuteBuy(symbol string, price float64, qty int, strategy string) bool {
	if qty <= 0 || !validPrice(price) || symbol == "" {
		return false
	}

	a.mu.Lock()
	cost := price * float64(qty)
	required := cost + cost*a.commissionRate

	pos := a.positions[symbol]
	if pos != nil && pos.qty > 0 {
		a.mu.Unlock()
		return false
	}
	if a.cash < required {
		a.mu.Unlock()
		return false
	}
	if pos == nil {
		pos = &positionState{}
		a.positions[symbol] = pos
	}

	trade := a.newTrade(symbol, execution.Buy, price, qty, strategy)
	trade.Commission = required - cost
	pos.trades = append(pos.trades, trade)
	pos.totalCost += required
	pos.qty += qty
	pos.avgEntry = pos.totalCost / float64(pos.qty)

	a.cash -= required
	a.tradeCount++
	a.ledger.Record(trade)
	a.mu.Unlock()

	a.record(trade)
	return true
}

// ExecuteSell closes qty shares at price, realizing net revenue minus cost basis.
// It fails without side effects when fewer than qty shares are held.
func (a *Account) ExecuteSell(symbol string, price float64, qty int, strategy string) bool {
	if qty <= 0 || !validPrice(price) {
		return false
	}

	a.mu.Lock()
	pos := a.positions[symbol]
	if pos == nil || pos.qty < qty {
		a.mu.Unlock()
		return false
	}

	revenue := price * float64(qty)
	netRevenue := revenue - revenue*a.commissionRate
	costBasis := pos.avgEntry * float64(qty)
	pnl := netRevenue - costBasis

	trade := a.newTrade(symbol, execution.Sell, price, qty, strategy)
	trade.Commission = revenue - netRevenue
	trade.RealizedPnL = pnl
	pos.trades = append(pos.trades, trade)
	pos.qty -= qty
	if pos.qty > 0 {
		pos.totalCost = pos.avgEntry * float64(pos.qty)
	} else {
		pos.totalCost = 0
		pos.avgEntry = 0
	}

	a.cash += netRevenue
	a.realizedPnL += pnl
	a.tradeCount++
	if pnl > 0 {
		a.winningTrades++
	} else {
		a.losingTrades++
	}
	a.ledger.Record(trade)
	a.mu.Unlock()

	a.record(trade)
	return true
}

func validPrice(price float64) bool {
	return price > 0 && !math.IsInf(price, 0)
}

func (a *Account) newTrade(symbol string, side execution.Side, price float64, qty int, strategy string) execution.Trade {
	return execution.Trade{
		ID:       uuid.New(),
		Symbol:   symbol,
		Side:     side,
		Price:    price,
		Qty:      qty,
		Ts:       a.now(),
		Strategy: strategy,
	}
}

func (a *Account) record(trade execution.Trade) {
	if a.recorder != nil {
		a.recorder.Record(trade)
	}
}

// Position returns a copy of the symbol's position; a zero Position when none exists.
func (a *Account) Position(symbol string) Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	pos := a.positions[symbol]
	if pos == nil {
		return Position{}
	}
	trades := make([]execution.Trade, len(pos.trades))
	copy(trades, pos.trades)
	return Position{Qty: pos.qty, AvgEntryPrice: pos.avgEntry, TotalCost: pos.totalCost, Trades: trades}
}

// Cash reports free cash that can be deployed into new longs.
func (a *Account) Cash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash
}

// RealizedPnL returns total closed-trade profit and loss net of commissions.
func (a *Account) RealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL
}

// TradeCount returns the number of fills, buys and sells alike.
func (a *Account) TradeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tradeCount
}

// WinningTrades counts sells that realized a profit.
func (a *Account) WinningTrades() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.winningTrades
}

// LosingTrades counts sells that realized zero or a loss.
func (a *Account) LosingTrades() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.losingTrades
}

// OpenPositions counts symbols with a non-zero quantity.
func (a *Account) OpenPositions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openPositionsLocked()
}

func (a *Account) openPositionsLocked() int {
	count := 0
	for _, pos := range a.positions {
		if pos.qty > 0 {
			count++
		}
	}
	return count
}

// PortfolioValue is cash plus open positions marked at prices. Unpriced symbols count for nothing.
func (a *Account) PortfolioValue(prices map[string]float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := a.cash
	for sym, pos := range a.positions {
		if mark, ok := prices[sym]; ok && pos.qty > 0 {
			total += mark * float64(pos.qty)
		}
	}
	return total
}

// UnrealizedPnL is market value minus cost basis across priced open positions.
func (a *Account) UnrealizedPnL(prices map[string]float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unrealizedLocked(prices)
}

func (a *Account) unrealizedLocked(prices map[string]float64) float64 {
	var unrealized float64
	for sym, pos := range a.positions {
		if mark, ok := prices[sym]; ok && pos.qty > 0 {
			unrealized += (mark - pos.avgEntry) * float64(pos.qty)
		}
	}
	return unrealized
}

// TotalPnL is realized plus unrealized, read under one lock.
func (a *Account) TotalPnL(prices map[string]float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL + a.unrealizedLocked(prices)
}

// Trades returns a copy of every booked trade in booking order.
func (a *Account) Trades() []execution.Trade {
	return a.ledger.Snapshot()
}

// PositionSnapshot exposes a read-only view of a single open position.
type PositionSnapshot struct {
	Symbol        string
	Qty           int
	AvgEntryPrice float64
	TotalCost     float64
	Mark          float64
	MarketValue   float64
	Unrealized    float64
	Priced        bool
}

// Snapshot represents a consistent view of the account state marked to market using provided prices.
type Snapshot struct {
	StartingCash   float64
	Cash           float64
	RealizedPnL    float64
	UnrealizedPnL  float64
	PortfolioValue float64
	TradeCount     int
	WinningTrades  int
	LosingTrades   int
	Positions      []PositionSnapshot // open positions sorted by symbol
}

// Snapshot returns a copy of balances and open positions taken under one lock acquisition.
func (a *Account) Snapshot(prices map[string]float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		StartingCash:   a.startingCash,
		Cash:           a.cash,
		RealizedPnL:    a.realizedPnL,
		PortfolioValue: a.cash,
		TradeCount:     a.tradeCount,
		WinningTrades:  a.winningTrades,
		LosingTrades:   a.losingTrades,
	}
	for sym, pos := range a.positions {
		if pos.qty <= 0 {
			continue
		}
		ps := PositionSnapshot{
			Symbol:        sym,
			Qty:           pos.qty,
			AvgEntryPrice: pos.avgEntry,
			TotalCost:     pos.totalCost,
		}
		if mark, ok := prices[sym]; ok {
			ps.Priced = true
			ps.Mark = mark
			ps.MarketValue = mark * float64(pos.qty)
			ps.Unrealized = (mark - pos.avgEntry) * float64(pos.qty)
			snap.PortfolioValue += ps.MarketValue
			snap.UnrealizedPnL += ps.Unrealized
		}
		snap.Positions = append(snap.Positions, ps)
	}
	sort.Slice(snap.Positions, func(i, j int) bool { return snap.Positions[i].Symbol < snap.Positions[j].Symbol })
	return snap
}
