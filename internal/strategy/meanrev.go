package strategy

import (
	"hftbot-go/internal/signal"
)

// MeanReversion fades large z-score deviations from a rolling mean unless the
// short-term trend says price is still running away.
type MeanReversion struct {
	window     int
	minStdDev  float64
	maxCV      float64 // stddev/mean ceiling
	entryZ     float64
	trendGuard float64
	stopPct    float64
	confidence float64
}

// NewMeanReversion returns the strategy with its stock thresholds.
func NewMeanReversion() *MeanReversion {
	return &MeanReversion{
		window:     50,
		minStdDev:  0.01,
		maxCV:      0.04,
		entryZ:     1.8,
		trendGuard: 0.012,
		stopPct:    0.015,
		confidence: 0.85,
	}
}

// Name returns the identifier for the strategy implementation.
func (s *MeanReversion) Name() string { return "MeanRev" }

// MinHistory is the fewest samples Analyze needs.
func (s *MeanReversion) MinHistory() int { return s.window }

// Analyze compares the current mid with the last-window mean and deviation.
func (s *MeanReversion) Analyze(symbol string, history []float64, q signal.Quote) signal.Signal {
	sig := signal.Hold(s.Name())
	if len(history) < s.window {
		return sig
	}
	mean, stdDev, ok := meanStdDev(history, s.window)
	if !ok || mean <= 0 || stdDev < s.minStdDev || stdDev/mean >= s.maxCV {
		return sig
	}
	trend, ok := recentChange(history, momentumLag)
	if !ok {
		return sig
	}

	mid := q.Mid()
	z := (mid - mean) / stdDev
	switch {
	case z < -s.entryZ && trend > -s.trendGuard:
		sig.Action = signal.Buy
		sig.StopLoss = mid * (1 - s.stopPct)
	case z > s.entryZ && trend < s.trendGuard:
		sig.Action = signal.Sell
		sig.StopLoss = mid * (1 + s.stopPct)
	default:
		return sig
	}
	sig.Confidence = s.confidence
	sig.TakeProfit = mean
	return sig
}
