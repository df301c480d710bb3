package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"hftbot-go/internal/config"
	"hftbot-go/internal/strategy"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== HFT Bot Control ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit bankroll and risk knobs")
		fmt.Println("3) Edit strategies and market")
		fmt.Println("4) Save config")
		fmt.Println("5) Launch trading session")
		fmt.Println("6) Reload config from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		switch strings.TrimSpace(input) {
		case "1":
			printSummary(cfg)
		case "2":
			editRisk(reader, cfg)
		case "3":
			editStrategies(reader, cfg)
		case "4":
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "not saved: %v\n", err)
			} else if err := config.Save(defaultConfigPath, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("config saved")
			}
		case "5":
			launchSession()
		case "6":
			reloaded, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg = reloaded
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config) {
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Starting cash: $%.2f (commission %.3f%%)\n", cfg.Paper.StartingCash, cfg.Paper.CommissionRate*100)
	fmt.Printf("Sizing: %.2f%% of cash per entry, max %d open positions\n", cfg.Trading.SizingFraction*100, cfg.Trading.MaxOpenPositions)
	fmt.Printf("Stop loss: %.2f%% | take profit: %.2f%%\n", cfg.Trading.StopLossPct*100, cfg.Trading.TakeProfitPct*100)
	fmt.Printf("Min confidence: %.2f | min history: %d\n", cfg.Trading.MinConfidence, cfg.Trading.MinHistory)
	fmt.Println("Strategies:", strings.Join(cfg.Strategy.Names, ", "))
	symbols := "default universe"
	if len(cfg.Market.Symbols) > 0 {
		symbols = strings.Join(cfg.Market.Symbols, ", ")
	}
	fmt.Printf("Symbols: %s | seed: %d\n", symbols, cfg.Market.Seed)
}

func editRisk(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Risk / Bankroll ---")
	cfg.Paper.StartingCash = promptFloat(reader, "Starting cash", cfg.Paper.StartingCash)
	cfg.Trading.SizingFraction = promptPercent(reader, "Cash per entry (%)", cfg.Trading.SizingFraction)
	cfg.Trading.MaxOpenPositions = int(promptFloat(reader, "Max open positions", float64(cfg.Trading.MaxOpenPositions)))
	cfg.Trading.StopLossPct = promptPercent(reader, "Stop loss (%)", cfg.Trading.StopLossPct)
	cfg.Trading.TakeProfitPct = promptPercent(reader, "Take profit (%)", cfg.Trading.TakeProfitPct)
	if cfg.Paper.StartingCash < config.MinStartingCash {
		fmt.Printf("warning: starting cash below $%d will not validate\n", config.MinStartingCash)
	}
}

func editStrategies(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Strategies / Market ---")
	fmt.Printf("Current strategies: %s\n", strings.Join(cfg.Strategy.Names, ", "))
	fmt.Print("Enter strategies in priority order, comma-separated (blank to keep): ")
	if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) != "" {
		names := splitList(line)
		if _, err := strategy.Build(names); err != nil {
			fmt.Printf("%v, keeping current list\n", err)
		} else {
			cfg.Strategy.Names = names
		}
	}
	fmt.Print("Enter symbols comma-separated (blank to keep, '-' for default universe): ")
	if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) == "-" {
		cfg.Market.Symbols = nil
	} else if strings.TrimSpace(line) != "" {
		cfg.Market.Symbols = splitList(line)
	}
	cfg.Market.Seed = int64(promptFloat(reader, "Seed (0 = clock)", float64(cfg.Market.Seed)))
}

func splitList(line string) []string {
	var out []string
	for _, p := range strings.Split(strings.TrimSpace(line), ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func launchSession() {
	fmt.Println("Launching trading session (ENTER inside the session stops it)...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/hftbot", "-config", defaultConfigPath, "-no-prompt")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start bot: %v\n", err)
		return
	}
	if err := cmd.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "session exited: %v\n", err)
	}
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%.2f]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %.2f\n", current)
		return current
	}
	return val
}

func promptPercent(reader *bufio.Reader, label string, current float64) float64 {
	pct := promptFloat(reader, label, current*100)
	return pct / 100
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
