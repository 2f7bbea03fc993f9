package strategy

import (
	"fmt"

	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// RSI: short above the upper band (overbought), long below the lower band
// (oversold), carrying the last emitted state between crossings.
const (
	ParamRSIPeriods = "periods"
	ParamRSIUpper   = "upper"
	ParamRSILower   = "lower"

	colRSI = "rsi"
)

var rsiSpec = &familySpec{
	tag:    "RSI",
	params: []string{ParamRSIPeriods, ParamRSIUpper, ParamRSILower},
	validate: func(params map[string]int) error {
		if err := windowsPositive(params, ParamRSIPeriods); err != nil {
			return err
		}
		if params[ParamRSIUpper] <= params[ParamRSILower] {
			return &InvalidParameterError{
				Param:  ParamRSIUpper,
				Reason: fmt.Sprintf("upper threshold %d must exceed lower threshold %d", params[ParamRSIUpper], params[ParamRSILower]),
			}
		}
		return nil
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		// The thresholds govern no column; only the window does.
		if changed[ParamRSIPeriods] {
			b.setColumn(colRSI, indicator.RSI(b.data.Close(), b.params[ParamRSIPeriods]))
		}
	},
	positions: func(b *Backtester) []float64 {
		return signal.Threshold(b.column(colRSI), float64(b.params[ParamRSIUpper]), float64(b.params[ParamRSILower]))
	},
}

// NewRSI builds a relative-strength oscillator Backtester.
func NewRSI(symbol string, candles []series.Candle, periods, upper, lower int, tc float64) (*Backtester, error) {
	return New(FamilyRSI, symbol, candles, map[string]int{
		ParamRSIPeriods: periods,
		ParamRSIUpper:   upper,
		ParamRSILower:   lower,
	}, tc)
}
