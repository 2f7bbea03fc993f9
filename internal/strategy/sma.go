package strategy

import (
	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// SMA crossover: long while the short-window average is above the
// long-window average, short otherwise.
const (
	ParamSMAShort = "sma_s"
	ParamSMALong  = "sma_l"
)

var smaSpec = &familySpec{
	tag:    "SMA",
	params: []string{ParamSMAShort, ParamSMALong},
	validate: func(params map[string]int) error {
		return windowsPositive(params, ParamSMAShort, ParamSMALong)
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		if changed[ParamSMAShort] {
			b.setColumn(ParamSMAShort, indicator.SMA(b.data.Close(), b.params[ParamSMAShort]))
		}
		if changed[ParamSMALong] {
			b.setColumn(ParamSMALong, indicator.SMA(b.data.Close(), b.params[ParamSMALong]))
		}
	},
	positions: func(b *Backtester) []float64 {
		return signal.Crossover(b.column(ParamSMAShort), b.column(ParamSMALong))
	},
}

// NewSMA builds a simple moving-average crossover Backtester.
func NewSMA(symbol string, candles []series.Candle, shortWindow, longWindow int, tc float64) (*Backtester, error) {
	return New(FamilySMA, symbol, candles, map[string]int{
		ParamSMAShort: shortWindow,
		ParamSMALong:  longWindow,
	}, tc)
}
