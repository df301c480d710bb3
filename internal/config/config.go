// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MinStartingCash is the smallest bankroll a session may start with.
const MinStartingCash = 1000

// ErrCapitalTooLow is returned by Validate when the starting cash is below MinStartingCash.
var ErrCapitalTooLow = errors.New("starting cash below minimum")

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Market configures the synthetic quote simulator.
type Market struct {
	Symbols         []string `yaml:"symbols"`
	TickInterval    int      `yaml:"tick_interval_ms"`
	Seed            int64    `yaml:"seed"` // 0 seeds from the clock
	HistoryCapacity int      `yaml:"history_capacity"`
	SpreadPct       float64  `yaml:"spread_pct"`
	ShockScale      float64  `yaml:"shock_scale"`
	DriftChangeProb float64  `yaml:"drift_change_prob"`
}

// Strategy lists the active strategies in priority order.
type Strategy struct {
	Names []string `yaml:"names"`
}

// Trading holds the decision loop knobs.
type Trading struct {
	CycleInterval    int     `yaml:"cycle_interval_ms"`
	Warmup           int     `yaml:"warmup_ms"`
	MinHistory       int     `yaml:"min_history"`
	MinConfidence    float64 `yaml:"min_confidence"`
	SizingFraction   float64 `yaml:"sizing_fraction"`
	MaxOpenPositions int     `yaml:"max_open_positions"`
	StopLossPct      float64 `yaml:"stop_loss_pct"`
	TakeProfitPct    float64 `yaml:"take_profit_pct"`
}

// Paper captures paper-trading account settings such as starting cash and commission.
type Paper struct {
	StartingCash   float64 `yaml:"starting_cash"`
	CommissionRate float64 `yaml:"commission_rate"`
	TradesPath     string  `yaml:"trades_path"`
}

// Report configures the periodic status reporter.
type Report struct {
	Interval int    `yaml:"interval_ms"`
	WSAddr   string `yaml:"ws_addr"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Market   Market   `yaml:"market"`
	Strategy Strategy `yaml:"strategy"`
	Trading  Trading  `yaml:"trading"`
	Paper    Paper    `yaml:"paper"`
	Report   Report   `yaml:"report"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		App: App{
			Name:     "hftbot",
			Env:      "dev",
			LogLevel: "info",
		},
		Market: Market{
			TickInterval:    50,
			HistoryCapacity: 200,
			SpreadPct:       0.0001,
			ShockScale:      0.0008,
			DriftChangeProb: 1.0 / 500,
		},
		Strategy: Strategy{
			Names: []string{"mean_reversion", "trend_follow", "breakout"},
		},
		Trading: Trading{
			CycleInterval:    150,
			Warmup:           3000,
			MinHistory:       50,
			MinConfidence:    0.80,
			SizingFraction:   0.02,
			MaxOpenPositions: 25,
			StopLossPct:      0.018,
			TakeProfitPct:    0.022,
		},
		Paper: Paper{
			StartingCash:   100000,
			CommissionRate: 0.001,
		},
		Report: Report{
			Interval: 1000,
		},
	}
}

// Load reads a YAML file from disk and overlays it on Default.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Paper.StartingCash < MinStartingCash {
		return fmt.Errorf("%w: %.2f < %d", ErrCapitalTooLow, c.Paper.StartingCash, MinStartingCash)
	}
	if c.Paper.CommissionRate < 0 || c.Paper.CommissionRate >= 1 {
		return fmt.Errorf("commission_rate out of range: %v", c.Paper.CommissionRate)
	}
	if c.Market.TickInterval <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive")
	}
	if c.Market.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be positive")
	}
	if c.Market.SpreadPct < 0 || c.Market.SpreadPct >= 1 {
		return fmt.Errorf("spread_pct out of range: %v", c.Market.SpreadPct)
	}
	if c.Trading.CycleInterval <= 0 {
		return fmt.Errorf("cycle_interval_ms must be positive")
	}
	if c.Trading.SizingFraction <= 0 || c.Trading.SizingFraction > 1 {
		return fmt.Errorf("sizing_fraction out of range: %v", c.Trading.SizingFraction)
	}
	if c.Trading.MaxOpenPositions <= 0 {
		return fmt.Errorf("max_open_positions must be positive")
	}
	if c.Report.Interval <= 0 {
		return fmt.Errorf("report interval_ms must be positive")
	}
	return nil
}

// TickEvery returns the simulator cadence.
func (m Market) TickEvery() time.Duration { return ms(m.TickInterval) }

// CycleEvery returns the decision loop cadence.
func (t Trading) CycleEvery() time.Duration { return ms(t.CycleInterval) }

// WarmupDelay returns how long the simulator runs before trading starts.
func (t Trading) WarmupDelay() time.Duration { return ms(t.Warmup) }

// Every returns the reporter cadence.
func (r Report) Every() time.Duration { return ms(r.Interval) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
