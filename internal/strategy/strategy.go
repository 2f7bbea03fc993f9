// Package strategy composes the indicator, signal, and backtest layers into
// runnable strategy variants. One generic Backtester engine serves all six
// families; each family contributes a small descriptor (parameter arity,
// validation, indicator columns, position rule) instead of its own class.
package strategy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"backtester/internal/backtest"
	"backtester/internal/series"
)

// Backtester evaluates one strategy family over one price series. It owns
// the series, the current parameter values, and the result of the last run.
// A Backtester is not safe for concurrent use; parallel parameter searches
// must operate on independent instances built from series clones.
type Backtester struct {
	symbol string
	family Family
	spec   *familySpec
	tc     float64

	data    *series.PriceSeries
	params  map[string]int
	results *backtest.Result
}

// New constructs a Backtester for the given family from an externally
// supplied candle sequence. All of the family's parameters must be present;
// indicator columns are computed once here and then maintained incrementally
// by SetParameters.
func New(family Family, symbol string, candles []series.Candle, params map[string]int, tc float64) (*Backtester, error) {
	spec := family.spec()
	if spec == nil {
		return nil, fmt.Errorf("%w: Family(%d)", ErrUnknownStrategy, int(family))
	}
	if tc < 0 {
		return nil, &InvalidParameterError{Param: "tc", Reason: fmt.Sprintf("transaction cost must not be negative, got %v", tc)}
	}

	for _, name := range spec.params {
		if _, ok := params[name]; !ok {
			return nil, &InvalidParameterError{Param: name, Reason: "required parameter is missing"}
		}
	}
	for name := range params {
		if !lo.Contains(spec.params, name) {
			return nil, &InvalidParameterError{Param: name, Reason: fmt.Sprintf("not a parameter of the %s family", spec.tag)}
		}
	}
	if err := spec.validate(params); err != nil {
		return nil, err
	}

	data, err := series.New(candles)
	if err != nil {
		return nil, err
	}

	b := &Backtester{
		symbol: symbol,
		family: family,
		spec:   spec,
		tc:     tc,
		data:   data,
		params: lo.Assign(map[string]int{}, params),
	}

	all := lo.SliceToMap(spec.params, func(name string) (string, bool) { return name, true })
	spec.recompute(b, all)

	return b, nil
}

// SetParameters applies a partial parameter update. Only the supplied
// parameters change; only the indicator columns they govern are recomputed,
// each over the full series. Validation happens against the merged parameter
// set before anything is touched.
func (b *Backtester) SetParameters(changes map[string]int) error {
	for name := range changes {
		if !lo.Contains(b.spec.params, name) {
			return &InvalidParameterError{Param: name, Reason: fmt.Sprintf("not a parameter of the %s family", b.spec.tag)}
		}
	}

	merged := lo.Assign(map[string]int{}, b.params, changes)
	if err := b.spec.validate(merged); err != nil {
		return err
	}

	changed := make(map[string]bool, len(changes))
	for name := range changes {
		changed[name] = true
	}

	b.params = merged
	b.spec.recompute(b, changed)
	return nil
}

// Run backtests the strategy with the current parameters and stores the
// result, superseding any previous one.
func (b *Backtester) Run() (*backtest.Result, error) {
	res, err := backtest.Run(b.data.Timestamps(), b.data.Returns(), b.spec.positions(b), b.tc)
	if err != nil {
		return nil, err
	}
	b.results = res
	return res, nil
}

// Optimize exhaustively searches the Cartesian grid spanned by one range per
// parameter (in ParamNames order) for the performance-maximizing vector. The
// Backtester is left re-parameterized at the optimum with its result stored.
// The first failing grid point aborts the search.
func (b *Backtester) Optimize(ranges []backtest.Range) (*backtest.OptimizationResult, error) {
	if len(ranges) != len(b.spec.params) {
		return nil, &InvalidParameterError{
			Param:  "ranges",
			Reason: fmt.Sprintf("the %s family takes %d parameter ranges, got %d", b.spec.tag, len(b.spec.params), len(ranges)),
		}
	}

	best, err := backtest.GridSearch(ranges, func(params []int) (float64, error) {
		if err := b.SetParameters(b.paramVector(params)); err != nil {
			return 0, err
		}
		res, err := b.Run()
		if err != nil {
			return 0, err
		}
		return res.Performance, nil
	})
	if err != nil {
		return nil, err
	}

	// Leave the instance at the optimum.
	if err := b.SetParameters(b.paramVector(best.Params)); err != nil {
		return nil, err
	}
	if _, err := b.Run(); err != nil {
		return nil, err
	}
	return best, nil
}

// paramVector maps an ordered parameter vector onto named parameters.
func (b *Backtester) paramVector(values []int) map[string]int {
	out := make(map[string]int, len(values))
	for i, name := range b.spec.params {
		out[name] = values[i]
	}
	return out
}

// Symbol returns the instrument identifier this Backtester was built for.
func (b *Backtester) Symbol() string { return b.symbol }

// Family returns the strategy family.
func (b *Backtester) Family() Family { return b.family }

// TransactionCost returns the proportional cost charged per trade unit.
func (b *Backtester) TransactionCost() float64 { return b.tc }

// Params returns a copy of the current parameter values.
func (b *Backtester) Params() map[string]int {
	return lo.Assign(map[string]int{}, b.params)
}

// Data exposes the owned price series with its indicator columns attached.
func (b *Backtester) Data() *series.PriceSeries { return b.data }

// Result returns the result of the last backtest run, or nil before the
// first run.
func (b *Backtester) Result() *backtest.Result { return b.results }

// Curves returns the aligned buy-and-hold and strategy curves of the last
// run for the visualization collaborator.
func (b *Backtester) Curves() (timestamps []time.Time, buyHold, strategy []float64, err error) {
	if b.results == nil {
		return nil, nil, nil, errors.New("strategy: no results yet, run a backtest first")
	}
	return b.results.Timestamps, b.results.CumReturns, b.results.CumStrategy, nil
}

// String returns a diagnostic identity for the variant.
func (b *Backtester) String() string {
	return fmt.Sprintf("%s(symbol=%s, %s, tc=%g)", b.spec.tag, b.symbol, b.formatParams(), b.tc)
}

// Label builds the display title for the visualization collaborator: symbol,
// family, parameter values, and transaction cost.
func (b *Backtester) Label() string {
	return fmt.Sprintf("%s | %s(%s) | TC = %g", b.symbol, b.spec.tag, b.formatParams(), b.tc)
}

func (b *Backtester) formatParams() string {
	parts := lo.Map(b.spec.params, func(name string, _ int) string {
		return fmt.Sprintf("%s=%d", name, b.params[name])
	})
	return strings.Join(parts, ", ")
}

// setColumn attaches an indicator column. Indicator outputs are always
// index-aligned, so the length check in SetColumn cannot fail here.
func (b *Backtester) setColumn(name string, values []float64) {
	_ = b.data.SetColumn(name, values)
}

// column returns an indicator column previously attached by recompute.
func (b *Backtester) column(name string) []float64 {
	col, _ := b.data.Column(name)
	return col
}

// windowsPositive rejects any named lookback parameter below 1.
func windowsPositive(params map[string]int, names ...string) error {
	for _, name := range names {
		if params[name] < 1 {
			return &InvalidParameterError{
				Param:  name,
				Reason: fmt.Sprintf("lookback window must be positive, got %d", params[name]),
			}
		}
	}
	return nil
}
