package strategy

import (
	"fmt"
	"strings"
)

// Family identifies one of the six strategy families. The set is closed:
// dispatch happens through an exhaustive switch, not a name-keyed registry,
// so a missing case is a compile-time smell rather than a runtime surprise.
type Family int

const (
	// FamilySMA is the simple moving-average crossover strategy.
	FamilySMA Family = iota
	// FamilyEMA is the dual exponential moving-average crossover strategy.
	FamilyEMA
	// FamilyMACD trades the convergence/divergence oscillator against its
	// signal line.
	FamilyMACD
	// FamilyRSI trades overbought/oversold bands on the relative-strength
	// oscillator.
	FamilyRSI
	// FamilyBollinger mean-reverts on the price distance to a rolling band,
	// measured in standard deviations.
	FamilyBollinger
	// FamilyStochastic trades the %K/%D crossover of the stochastic
	// oscillator.
	FamilyStochastic
)

// familySpec describes everything the generic engine needs to run one
// family: parameter order, validation, which indicator columns each
// parameter governs, and the position rule.
type familySpec struct {
	tag    string
	params []string

	// validate checks a complete parameter set before any recomputation.
	validate func(params map[string]int) error

	// recompute refreshes exactly the indicator columns governed by the
	// changed parameters, over the full series.
	recompute func(b *Backtester, changed map[string]bool)

	// positions derives the position series from the current columns.
	positions func(b *Backtester) []float64
}

func (f Family) spec() *familySpec {
	switch f {
	case FamilySMA:
		return smaSpec
	case FamilyEMA:
		return emaSpec
	case FamilyMACD:
		return macdSpec
	case FamilyRSI:
		return rsiSpec
	case FamilyBollinger:
		return bollingerSpec
	case FamilyStochastic:
		return stochasticSpec
	}
	return nil
}

// String returns the family tag used by the dispatch façade.
func (f Family) String() string {
	if s := f.spec(); s != nil {
		return s.tag
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParamNames returns the family's parameter names in their canonical
// (optimization vector) order.
func (f Family) ParamNames() []string {
	return append([]string(nil), f.spec().params...)
}

// ParseFamily resolves a family tag (case-insensitive) to its Family.
func ParseFamily(tag string) (Family, error) {
	switch strings.ToUpper(tag) {
	case "SMA":
		return FamilySMA, nil
	case "EMA":
		return FamilyEMA, nil
	case "MACD":
		return FamilyMACD, nil
	case "RSI":
		return FamilyRSI, nil
	case "BB":
		return FamilyBollinger, nil
	case "SO":
		return FamilyStochastic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, tag)
}

// Families returns the tags of all supported strategy families.
func Families() []string {
	return []string{"SMA", "EMA", "MACD", "RSI", "BB", "SO"}
}
