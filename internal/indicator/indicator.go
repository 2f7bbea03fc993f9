// Package indicator provides technical indicator calculations over price
// columns. All functions are stateless transforms: they take plain float64
// slices and return a new slice of the same length, with NaN marking entries
// inside the warm-up window. Rolling computations use a trailing,
// non-centered window, so the first window-1 outputs are always NaN.
package indicator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// nanSlice returns a slice of n NaNs.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA computes the simple moving average of values over a trailing window.
// A NaN anywhere inside the window yields a NaN output for that position.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-window+1:i+1], nil)
	}
	return out
}

// RollingStd computes the trailing sample standard deviation (n-1 divisor)
// of values over a window.
func RollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = stat.StdDev(values[i-window+1:i+1], nil)
	}
	return out
}

// RollingMin computes the trailing minimum of values over a window.
func RollingMin(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		m := values[i-window+1]
		for _, v := range values[i-window+2 : i+1] {
			m = math.Min(m, v)
		}
		out[i] = m
	}
	return out
}

// RollingMax computes the trailing maximum of values over a window.
func RollingMax(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		m := values[i-window+1]
		for _, v := range values[i-window+2 : i+1] {
			m = math.Max(m, v)
		}
		out[i] = m
	}
	return out
}

// EMA computes the exponentially weighted moving average of values with a
// smoothing factor alpha = 2/(span+1) and a minimum-periods warm-up equal to
// the span. Weights decay over the full history (each observation i steps
// back carries weight (1-alpha)^i, renormalized), so outputs are NaN until
// span observations have been seen. Leading NaN inputs are skipped; a NaN
// after the start decays the accumulated weights without contributing.
func EMA(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span < 1 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	var num, den float64
	seen := 0
	for i, v := range values {
		if math.IsNaN(v) {
			num *= decay
			den *= decay
			continue
		}
		num = num*decay + v
		den = den*decay + 1.0
		seen++
		if seen >= span {
			out[i] = num / den
		}
	}
	return out
}

// RSI computes the relative-strength oscillator over a window:
// 100 * up_mean / (up_mean + down_mean), where up_mean and down_mean are
// trailing means of the positive and negative price changes. The first price
// change is undefined and contributes zero to both sides.
func RSI(values []float64, window int) []float64 {
	up := make([]float64, len(values))
	down := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		diff := values[i] - values[i-1]
		if diff > 0 {
			up[i] = diff
		} else if diff < 0 {
			down[i] = -diff
		}
	}

	upMean := SMA(up, window)
	downMean := SMA(down, window)

	out := nanSlice(len(values))
	for i := range out {
		// NaN warm-up and 0/0 (flat window) both propagate as NaN.
		out[i] = 100 * upMean[i] / (upMean[i] + downMean[i])
	}
	return out
}

// BandZScore computes the distance of each value from its trailing mean in
// units of trailing sample standard deviation over the same window.
func BandZScore(values []float64, window int) []float64 {
	mean := SMA(values, window)
	std := RollingStd(values, window)

	out := nanSlice(len(values))
	for i := range out {
		out[i] = (values[i] - mean[i]) / std[i]
	}
	return out
}

// StochasticK computes the fast stochastic oscillator
// %K = 100 * (close - rolling_min_low) / (rolling_max_high - rolling_min_low)
// over a trailing lookback window. %D is a rolling mean of %K; use SMA.
func StochasticK(high, low, close []float64, window int) []float64 {
	rollLow := RollingMin(low, window)
	rollHigh := RollingMax(high, window)

	out := nanSlice(len(close))
	for i := range out {
		out[i] = 100 * (close[i] - rollLow[i]) / (rollHigh[i] - rollLow[i])
	}
	return out
}

// LocalExtrema marks strict local highs and lows of a series: index i is a
// local high when values[i] exceeds both neighbors, a local low when it is
// below both. The first and last entries are never extrema.
func LocalExtrema(values []float64) (highs, lows []bool) {
	highs = make([]bool, len(values))
	lows = make([]bool, len(values))
	for i := 1; i < len(values)-1; i++ {
		switch {
		case values[i] > values[i-1] && values[i] > values[i+1]:
			highs[i] = true
		case values[i] < values[i-1] && values[i] < values[i+1]:
			lows[i] = true
		}
	}
	return highs, lows
}

// RetracementLevel is one Fibonacci retracement price for a ratio.
type RetracementLevel struct {
	Ratio float64
	Price float64
}

// RetracementLevels computes the standard 0.236/0.382/0.618 retracement
// prices over the full range of the series.
func RetracementLevels(values []float64) []RetracementLevel {
	if len(values) == 0 {
		return nil
	}
	hi := floats.Max(values)
	lo := floats.Min(values)

	ratios := []float64{0.236, 0.382, 0.618}
	levels := make([]RetracementLevel, 0, len(ratios))
	for _, r := range ratios {
		levels = append(levels, RetracementLevel{Ratio: r, Price: hi - (hi-lo)*r})
	}
	return levels
}
