package strategy

import (
	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// Stochastic oscillator: %K locates the close within the recent high/low
// range, %D smooths %K; long while %K is above %D.
const (
	ParamSOPeriods = "periods"
	ParamSODWindow = "d_window"

	colSOK = "k"
	colSOD = "d"
)

var stochasticSpec = &familySpec{
	tag:    "SO",
	params: []string{ParamSOPeriods, ParamSODWindow},
	validate: func(params map[string]int) error {
		return windowsPositive(params, ParamSOPeriods, ParamSODWindow)
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		if changed[ParamSOPeriods] {
			b.setColumn(colSOK, indicator.StochasticK(b.data.High(), b.data.Low(), b.data.Close(), b.params[ParamSOPeriods]))
		}
		// %D is a rolling mean of %K, so it follows both parameters.
		if changed[ParamSOPeriods] || changed[ParamSODWindow] {
			b.setColumn(colSOD, indicator.SMA(b.column(colSOK), b.params[ParamSODWindow]))
		}
	},
	positions: func(b *Backtester) []float64 {
		return signal.Crossover(b.column(colSOK), b.column(colSOD))
	},
}

// NewStochastic builds a stochastic oscillator Backtester.
func NewStochastic(symbol string, candles []series.Candle, periods, dWindow int, tc float64) (*Backtester, error) {
	return New(FamilyStochastic, symbol, candles, map[string]int{
		ParamSOPeriods: periods,
		ParamSODWindow: dWindow,
	}, tc)
}
