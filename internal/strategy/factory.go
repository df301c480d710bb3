// Package strategy contains the stateless signal generators evaluated by the decision loop.
package strategy

import (
	"fmt"
	"strings"

	"hftbot-go/internal/signal"
)

// Strategy defines behaviour shared by strategy implementations used by the bot.
// Implementations keep no state between calls; history is oldest-first mid prices.
type Strategy interface {
	Analyze(symbol string, history []float64, q signal.Quote) signal.Signal
	Name() string
	MinHistory() int
}

// Default returns the stock strategy set in priority order.
func Default() []Strategy {
	return []Strategy{NewMeanReversion(), NewTrendFollower(), NewBreakout()}
}

// Build returns strategies matching names, in the given priority order.
// An empty list yields Default.
func Build(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, err := lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func lookup(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mean_reversion", "meanrev", "mean_rev":
		return NewMeanReversion(), nil
	case "trend", "trend_follow", "trend_follower", "trendfollow":
		return NewTrendFollower(), nil
	case "breakout":
		return NewBreakout(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
