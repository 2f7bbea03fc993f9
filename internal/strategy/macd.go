package strategy

import (
	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// MACD: the difference of a short and a long EMA, traded against its own
// EMA-smoothed signal line.
const (
	ParamMACDShort  = "ema_s"
	ParamMACDLong   = "ema_l"
	ParamMACDSignal = "signal"

	colMACD       = "macd"
	colMACDSignal = "macd_signal"
)

var macdSpec = &familySpec{
	tag:    "MACD",
	params: []string{ParamMACDShort, ParamMACDLong, ParamMACDSignal},
	validate: func(params map[string]int) error {
		return windowsPositive(params, ParamMACDShort, ParamMACDLong, ParamMACDSignal)
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		if changed[ParamMACDShort] {
			b.setColumn(ParamMACDShort, indicator.EMA(b.data.Close(), b.params[ParamMACDShort]))
		}
		if changed[ParamMACDLong] {
			b.setColumn(ParamMACDLong, indicator.EMA(b.data.Close(), b.params[ParamMACDLong]))
		}
		if changed[ParamMACDShort] || changed[ParamMACDLong] {
			short, long := b.column(ParamMACDShort), b.column(ParamMACDLong)
			macd := make([]float64, len(short))
			for i := range macd {
				macd[i] = short[i] - long[i]
			}
			b.setColumn(colMACD, macd)
		}
		// The signal line depends on the oscillator, so any change above
		// cascades here.
		if changed[ParamMACDShort] || changed[ParamMACDLong] || changed[ParamMACDSignal] {
			b.setColumn(colMACDSignal, indicator.EMA(b.column(colMACD), b.params[ParamMACDSignal]))
		}
	},
	positions: func(b *Backtester) []float64 {
		return signal.Crossover(b.column(colMACD), b.column(colMACDSignal))
	},
}

// NewMACD builds a convergence/divergence oscillator Backtester.
func NewMACD(symbol string, candles []series.Candle, shortSpan, longSpan, signalSpan int, tc float64) (*Backtester, error) {
	return New(FamilyMACD, symbol, candles, map[string]int{
		ParamMACDShort:  shortSpan,
		ParamMACDLong:   longSpan,
		ParamMACDSignal: signalSpan,
	}, tc)
}
