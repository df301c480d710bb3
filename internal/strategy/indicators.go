package strategy

import (
	talib "github.com/markcheno/go-talib"
)

// momentumLag compares the newest sample with the fifth-newest one.
const momentumLag = 4

// tail returns the last n values, or nil when fewer are available.
func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) < n {
		return nil
	}
	return values[len(values)-n:]
}

// sma is the simple average of the last period values.
func sma(values []float64, period int) (float64, bool) {
	window := tail(values, period)
	if window == nil {
		return 0, false
	}
	if period == 1 {
		return window[0], true
	}
	out := talib.Sma(window, period)
	return out[len(out)-1], true
}

// meanStdDev returns the mean and population standard deviation of the last period values.
func meanStdDev(values []float64, period int) (float64, float64, bool) {
	mean, ok := sma(values, period)
	if !ok || period < 2 {
		return 0, 0, false
	}
	sd := talib.StdDev(tail(values, period), period, 1)
	return mean, sd[len(sd)-1], true
}

// highLow returns the extremes of window.
func highLow(window []float64) (float64, float64, bool) {
	n := len(window)
	if n == 0 {
		return 0, 0, false
	}
	if n == 1 {
		return window[0], window[0], true
	}
	hi := talib.Max(window, n)
	lo := talib.Min(window, n)
	return hi[n-1], lo[n-1], true
}

// recentChange is the fractional move from lag samples back to the newest sample.
func recentChange(values []float64, lag int) (float64, bool) {
	window := tail(values, lag+1)
	if window == nil || window[0] <= 0 {
		return 0, false
	}
	out := talib.Rocp(window, lag)
	return out[len(out)-1], true
}
