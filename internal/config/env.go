package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides recognised by ApplyEnv.
const (
	EnvStartingCash = "HFT_STARTING_CASH"
	EnvSeed         = "HFT_SEED"
	EnvLogLevel     = "HFT_LOG_LEVEL"
	EnvMetricsAddr  = "HFT_METRICS_ADDR"
)

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding anything already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays HFT_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvStartingCash)); v != "" {
		cash, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStartingCash, err)
		}
		cfg.Paper.StartingCash = cash
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Market.Seed = seed
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.App.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.App.MetricsAddr = strings.TrimSpace(v)
	}
	return nil
}
