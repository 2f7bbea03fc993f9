package strategy

import (
	"github.com/samber/lo"

	"backtester/internal/backtest"
	"backtester/internal/series"
)

// Options is the flat option mapping accepted by the dispatch façade:
// parameter name to value for construction, parameter name to (start, stop,
// step) range for optimization, plus the proportional transaction cost.
type Options struct {
	Params map[string]int
	Ranges map[string]backtest.Range
	TC     float64
}

// NewFromTag routes a strategy-family tag to the matching variant
// construction. Unrecognised tags fail with ErrUnknownStrategy.
func NewFromTag(tag, symbol string, candles []series.Candle, opts Options) (*Backtester, error) {
	family, err := ParseFamily(tag)
	if err != nil {
		return nil, err
	}
	return New(family, symbol, candles, opts.Params, opts.TC)
}

// OrderedRanges resolves named optimization ranges into the family's
// canonical parameter order. Every parameter needs a range; names outside
// the family are rejected.
func (f Family) OrderedRanges(ranges map[string]backtest.Range) ([]backtest.Range, error) {
	spec := f.spec()
	for name := range ranges {
		if !lo.Contains(spec.params, name) {
			return nil, &InvalidParameterError{Param: name, Reason: "not a parameter of the " + spec.tag + " family"}
		}
	}

	out := make([]backtest.Range, len(spec.params))
	for i, name := range spec.params {
		r, ok := ranges[name]
		if !ok {
			return nil, &InvalidParameterError{Param: name, Reason: "missing optimization range"}
		}
		out[i] = r
	}
	return out, nil
}

// OptimizeNamed is the façade-level optimize operation: it resolves the
// named ranges and runs the grid search.
func (b *Backtester) OptimizeNamed(ranges map[string]backtest.Range) (*backtest.OptimizationResult, error) {
	ordered, err := b.family.OrderedRanges(ranges)
	if err != nil {
		return nil, err
	}
	return b.Optimize(ordered)
}
