// Package backtest converts position series into strategy performance and
// searches parameter grids for the performance-maximizing configuration.
//
// The executor is vectorized in spirit: it restricts the input columns to the
// range where both positions and returns are defined, lags positions by one
// period so a signal only earns the following period's return, charges a
// proportional cost per unit of position change, and compounds log returns
// into cumulative curves.
package backtest

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ErrInsufficientData reports that, after restricting to the range where all
// inputs are defined, fewer than two periods remain, so not a single strategy
// return can be computed.
var ErrInsufficientData = errors.New("backtest: insufficient data after warm-up")

// Result holds the outcome of one backtest run. All slices share the same
// index, which starts one period after the first fully defined row (that row
// is consumed by the position lag). A Result is created fresh on every run
// and superseded, never merged, by the next one.
type Result struct {
	Timestamps []time.Time

	// Returns is the per-period log return of the instrument.
	Returns []float64
	// Position is the exposure held during each period, in {-1, 0, +1}.
	Position []float64
	// Strategy is the per-period strategy return net of transaction costs.
	Strategy []float64
	// Trades is |Δposition| per period: 0 (no change), 1 (flat to position or
	// back), or 2 (full reversal, charged as a round trip).
	Trades []float64

	// CumReturns and CumStrategy are the compounded buy-and-hold and strategy
	// curves, exp of the running log-return sums.
	CumReturns  []float64
	CumStrategy []float64

	// Performance is the final CumStrategy value; Outperformance is its
	// difference to the final CumReturns value.
	Performance    float64
	Outperformance float64
}

// Run executes a backtest over aligned timestamp, log-return, and position
// columns with proportional transaction cost tc. Undefined (NaN) rows in
// either column are dropped before anything else; the position decided at
// row t-1 earns the return realized over row t, so no look-ahead is possible.
func Run(timestamps []time.Time, returns, position []float64, tc float64) (*Result, error) {
	// Restrict to rows where both inputs are defined.
	var (
		ts  []time.Time
		ret []float64
		pos []float64
	)
	for i := range returns {
		if math.IsNaN(returns[i]) || math.IsNaN(position[i]) {
			continue
		}
		ts = append(ts, timestamps[i])
		ret = append(ret, returns[i])
		pos = append(pos, position[i])
	}

	if len(ret) < 2 {
		return nil, ErrInsufficientData
	}

	// The first restricted row only supplies the lagged position; the result
	// index starts at the second.
	n := len(ret) - 1
	res := &Result{
		Timestamps:  ts[1:],
		Returns:     ret[1:],
		Position:    pos[1:],
		Strategy:    make([]float64, n),
		Trades:      make([]float64, n),
		CumReturns:  make([]float64, n),
		CumStrategy: make([]float64, n),
	}

	for j := 0; j < n; j++ {
		res.Strategy[j] = pos[j] * ret[j+1]
		if j > 0 {
			res.Trades[j] = math.Abs(res.Position[j] - res.Position[j-1])
		}
		res.Strategy[j] -= res.Trades[j] * tc
	}

	floats.CumSum(res.CumReturns, res.Returns)
	floats.CumSum(res.CumStrategy, res.Strategy)
	for j := 0; j < n; j++ {
		res.CumReturns[j] = math.Exp(res.CumReturns[j])
		res.CumStrategy[j] = math.Exp(res.CumStrategy[j])
	}

	res.Performance = res.CumStrategy[n-1]
	res.Outperformance = res.Performance - res.CumReturns[n-1]

	return res, nil
}
