package strategy

import (
	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// EMA crossover: like the SMA family, but with exponentially weighted
// averages whose warm-up equals the span.
const (
	ParamEMAShort = "ema_s"
	ParamEMALong  = "ema_l"
)

var emaSpec = &familySpec{
	tag:    "EMA",
	params: []string{ParamEMAShort, ParamEMALong},
	validate: func(params map[string]int) error {
		return windowsPositive(params, ParamEMAShort, ParamEMALong)
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		if changed[ParamEMAShort] {
			b.setColumn(ParamEMAShort, indicator.EMA(b.data.Close(), b.params[ParamEMAShort]))
		}
		if changed[ParamEMALong] {
			b.setColumn(ParamEMALong, indicator.EMA(b.data.Close(), b.params[ParamEMALong]))
		}
	},
	positions: func(b *Backtester) []float64 {
		return signal.Crossover(b.column(ParamEMAShort), b.column(ParamEMALong))
	},
}

// NewEMA builds a dual exponential moving-average crossover Backtester.
func NewEMA(symbol string, candles []series.Candle, shortSpan, longSpan int, tc float64) (*Backtester, error) {
	return New(FamilyEMA, symbol, candles, map[string]int{
		ParamEMAShort: shortSpan,
		ParamEMALong:  longSpan,
	}, tc)
}
