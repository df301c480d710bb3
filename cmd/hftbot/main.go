package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"strconv"
	"strings"
	"syscall"

	"hftbot-go/internal/config"
	"hftbot-go/internal/engine"
	"hftbot-go/internal/metrics"
	"hftbot-go/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to YAML config")
	capital := flag.Float64("capital", 0, "starting capital in USD; prompts when zero")
	noPrompt := flag.Bool("no-prompt", false, "use the configured starting cash without asking")
	flag.Parse()

	log := util.NewConsoleLogger("info")

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatal().Err(err).Msg("apply env")
	}
	log = util.NewConsoleLogger(cfg.App.LogLevel)

	stdin := bufio.NewReader(os.Stdin)
	switch {
	case *capital > 0:
		cfg.Paper.StartingCash = *capital
	case !*noPrompt:
		cfg.Paper.StartingCash = promptCapital(stdin, os.Stdout)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer srv.Close()
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := engine.NewSession(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build session")
	}

	fmt.Printf("Starting with $%.2f across %d symbols\n", cfg.Paper.StartingCash, len(session.Simulator().Symbols()))
	if err := session.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("start session")
	}
	if ctx.Err() == nil {
		fmt.Println("Press ENTER to stop...")
		go func() {
			// without a terminal only a signal stops the session
			if _, err := stdin.ReadString('\n'); err == nil {
				cancel()
			}
		}()
		<-ctx.Done()
	}

	fmt.Println()
	summary := session.Stop()
	if err := summary.Render(os.Stdout); err != nil {
		log.Error().Err(err).Msg("render summary")
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// promptCapital asks until the answer parses and meets the minimum.
func promptCapital(in *bufio.Reader, out io.Writer) float64 {
	for {
		fmt.Fprint(out, "Enter starting capital (e.g., 100000): $")
		line, err := in.ReadString('\n')
		value, perr := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(line, ",", "")), 64)
		if perr == nil && value >= config.MinStartingCash {
			return value
		}
		if err != nil {
			return 0 // stdin closed; Validate reports the shortfall
		}
		fmt.Fprintf(out, "Minimum capital is $%d\n", config.MinStartingCash)
	}
}
