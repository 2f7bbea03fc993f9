// Package signal maps indicator columns to discrete position series. A
// position is one of -1 (short), 0 (flat), or +1 (long); NaN marks entries
// where a governing indicator is still inside its warm-up window.
package signal

import "math"

// Position values.
const (
	Short float64 = -1
	Flat  float64 = 0
	Long  float64 = 1
)

// Crossover derives positions from the relative order of two indicator
// columns: +1 where fast > slow, -1 otherwise. There is no flat state.
// Entries are NaN until both indicators are defined.
func Crossover(fast, slow []float64) []float64 {
	out := make([]float64, len(fast))
	for i := range out {
		switch {
		case math.IsNaN(fast[i]) || math.IsNaN(slow[i]):
			out[i] = math.NaN()
		case fast[i] > slow[i]:
			out[i] = Long
		default:
			out[i] = Short
		}
	}
	return out
}

// Threshold derives positions from a single indicator compared to fixed
// bands: -1 while the indicator last crossed above upper (overbought), +1
// while it last crossed below lower (oversold). Between crossings the
// previous emitted state carries forward; before the first crossing the
// position is flat. Entries are NaN until the indicator is defined.
func Threshold(indicator []float64, upper, lower float64) []float64 {
	out := make([]float64, len(indicator))
	state := Flat
	for i, v := range indicator {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		switch {
		case v > upper:
			state = Short
		case v < lower:
			state = Long
		}
		out[i] = state
	}
	return out
}
