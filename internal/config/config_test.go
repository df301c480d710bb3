package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "hftbot-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if len(cfg.Market.Symbols) != 3 || cfg.Market.Symbols[0] != "AAPL" {
		t.Fatalf("unexpected symbols: %+v", cfg.Market.Symbols)
	}
	if cfg.Market.TickInterval != 25 {
		t.Fatalf("unexpected tick interval: %d", cfg.Market.TickInterval)
	}
	if cfg.Market.Seed != 42 {
		t.Fatalf("unexpected seed: %d", cfg.Market.Seed)
	}
	if len(cfg.Strategy.Names) != 2 || cfg.Strategy.Names[0] != "breakout" {
		t.Fatalf("unexpected strategy names: %+v", cfg.Strategy.Names)
	}
	if cfg.Trading.CycleInterval != 100 {
		t.Fatalf("unexpected cycle interval: %d", cfg.Trading.CycleInterval)
	}
	if cfg.Trading.Warmup != 0 {
		t.Fatalf("expected warmup override to 0, got %d", cfg.Trading.Warmup)
	}
	if cfg.Trading.MaxOpenPositions != 5 {
		t.Fatalf("unexpected max open positions: %d", cfg.Trading.MaxOpenPositions)
	}
	if cfg.Paper.StartingCash != 5000 {
		t.Fatalf("expected starting cash 5000, got %.2f", cfg.Paper.StartingCash)
	}
	if cfg.Paper.TradesPath != "var/trades.jsonl" {
		t.Fatalf("unexpected trades path: %s", cfg.Paper.TradesPath)
	}
	if cfg.Report.Interval != 500 {
		t.Fatalf("unexpected report interval: %d", cfg.Report.Interval)
	}

	// Keys absent from the file keep their compiled-in defaults.
	if cfg.Paper.CommissionRate != 0.001 {
		t.Fatalf("expected default commission 0.001, got %v", cfg.Paper.CommissionRate)
	}
	if cfg.Trading.MinConfidence != 0.80 {
		t.Fatalf("expected default confidence 0.80, got %v", cfg.Trading.MinConfidence)
	}
	if cfg.Trading.SizingFraction != 0.02 {
		t.Fatalf("expected default sizing 0.02, got %v", cfg.Trading.SizingFraction)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected loaded config to validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Paper.StartingCash = 25000
	cfg.Market.Symbols = []string{"TSLA"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Paper.StartingCash != 25000 || len(loaded.Market.Symbols) != 1 {
		t.Fatalf("unexpected reloaded config: %+v", loaded.Paper)
	}
	if err := Save(path, nil); err == nil {
		t.Fatalf("expected error saving nil config")
	}
}

func TestDefaultMatchesEngineLiterals(t *testing.T) {
	cfg := Default()
	if cfg.Market.TickEvery().Milliseconds() != 50 {
		t.Fatalf("expected 50ms tick, got %s", cfg.Market.TickEvery())
	}
	if cfg.Trading.CycleEvery().Milliseconds() != 150 {
		t.Fatalf("expected 150ms cycle, got %s", cfg.Trading.CycleEvery())
	}
	if cfg.Report.Every().Milliseconds() != 1000 {
		t.Fatalf("expected 1s report, got %s", cfg.Report.Every())
	}
	if cfg.Trading.MaxOpenPositions != 25 || cfg.Market.HistoryCapacity != 200 {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Trading, cfg.Market)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"low capital", func(c *Config) { c.Paper.StartingCash = 999.99 }},
		{"negative commission", func(c *Config) { c.Paper.CommissionRate = -0.1 }},
		{"zero tick", func(c *Config) { c.Market.TickInterval = 0 }},
		{"zero history", func(c *Config) { c.Market.HistoryCapacity = 0 }},
		{"zero cycle", func(c *Config) { c.Trading.CycleInterval = 0 }},
		{"oversized sizing", func(c *Config) { c.Trading.SizingFraction = 1.5 }},
		{"zero cap", func(c *Config) { c.Trading.MaxOpenPositions = 0 }},
		{"zero report", func(c *Config) { c.Report.Interval = 0 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	cfg := Default()
	cfg.Paper.StartingCash = 10
	if err := cfg.Validate(); !errors.Is(err, ErrCapitalTooLow) {
		t.Fatalf("expected ErrCapitalTooLow, got %v", err)
	}
	cfg.Paper.StartingCash = MinStartingCash
	if err := cfg.Validate(); err != nil {
		t.Fatalf("minimum capital should be accepted: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvStartingCash, "2500.5")
	t.Setenv(EnvSeed, "7")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvMetricsAddr, ":9200")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}
	if cfg.Paper.StartingCash != 2500.5 || cfg.Market.Seed != 7 {
		t.Fatalf("env not applied: %+v %+v", cfg.Paper, cfg.Market)
	}
	if cfg.App.LogLevel != "warn" || cfg.App.MetricsAddr != ":9200" {
		t.Fatalf("env not applied: %+v", cfg.App)
	}

	t.Setenv(EnvSeed, "not-a-number")
	if err := ApplyEnv(Default()); err == nil {
		t.Fatalf("expected parse error for bad seed")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HFT_DOTENV_PROBE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("HFT_DOTENV_PROBE", "")
	os.Unsetenv("HFT_DOTENV_PROBE")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("HFT_DOTENV_PROBE"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
