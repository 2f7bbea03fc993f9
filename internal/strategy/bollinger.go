package strategy

import (
	"fmt"

	"backtester/internal/indicator"
	"backtester/internal/series"
	"backtester/internal/signal"
)

// Bollinger mean reversion: the indicator is the price distance to the
// rolling mean in units of rolling standard deviation; crossing dev standard
// deviations above the mean goes short, dev below goes long, carrying the
// last emitted state between crossings.
const (
	ParamBBWindow = "window"
	ParamBBDev    = "dev"

	colBBZScore = "z"
)

var bollingerSpec = &familySpec{
	tag:    "BB",
	params: []string{ParamBBWindow, ParamBBDev},
	validate: func(params map[string]int) error {
		if err := windowsPositive(params, ParamBBWindow); err != nil {
			return err
		}
		// The band thresholds are +dev and -dev; dev < 1 would put the upper
		// threshold at or below the lower one.
		if params[ParamBBDev] < 1 {
			return &InvalidParameterError{
				Param:  ParamBBDev,
				Reason: fmt.Sprintf("band width must be positive, got %d", params[ParamBBDev]),
			}
		}
		return nil
	},
	recompute: func(b *Backtester, changed map[string]bool) {
		if changed[ParamBBWindow] {
			b.setColumn(colBBZScore, indicator.BandZScore(b.data.Close(), b.params[ParamBBWindow]))
		}
	},
	positions: func(b *Backtester) []float64 {
		dev := float64(b.params[ParamBBDev])
		return signal.Threshold(b.column(colBBZScore), dev, -dev)
	},
}

// NewBollinger builds a band-based mean-reversion Backtester.
func NewBollinger(symbol string, candles []series.Candle, window, dev int, tc float64) (*Backtester, error) {
	return New(FamilyBollinger, symbol, candles, map[string]int{
		ParamBBWindow: window,
		ParamBBDev:    dev,
	}, tc)
}
