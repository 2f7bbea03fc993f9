package backtest

import "fmt"

// Range describes one integer grid axis as (start, stop, step). The stop
// bound is inclusive, so a range with start == stop contributes exactly one
// grid point. Fractional bounds and steps are truncated to integers before
// the grid is enumerated.
type Range struct {
	Start float64
	Stop  float64
	Step  float64
}

// Points enumerates the integer grid points of the range in ascending order.
func (r Range) Points() ([]int, error) {
	start, stop, step := int(r.Start), int(r.Stop), int(r.Step)
	if step < 1 {
		return nil, fmt.Errorf("backtest: range step %v truncates to %d, must be at least 1", r.Step, step)
	}
	if stop < start {
		return nil, fmt.Errorf("backtest: range stop %d is below start %d", stop, start)
	}
	var points []int
	for v := start; v <= stop; v += step {
		points = append(points, v)
	}
	return points, nil
}

// Objective evaluates one grid point and returns the performance to maximize.
type Objective func(params []int) (float64, error)

// OptimizationResult is the outcome of a grid search: the maximizing
// parameter vector and the performance observed there.
type OptimizationResult struct {
	Params      []int
	Performance float64
}

// GridSearch exhaustively evaluates fn over the Cartesian product of the
// ranges, in row-major order (the last axis varies fastest), and returns the
// point with the numerically largest performance. Ties resolve to the first
// point encountered. The first evaluation error aborts the search with no
// partial result; failing points are never skipped.
func GridSearch(ranges []Range, fn Objective) (*OptimizationResult, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("backtest: grid search needs at least one range")
	}

	axes := make([][]int, len(ranges))
	for i, r := range ranges {
		points, err := r.Points()
		if err != nil {
			return nil, err
		}
		axes[i] = points
	}

	var best *OptimizationResult
	idx := make([]int, len(axes))
	params := make([]int, len(axes))
	for {
		for i := range axes {
			params[i] = axes[i][idx[i]]
		}

		perf, err := fn(params)
		if err != nil {
			return nil, err
		}
		if best == nil || perf > best.Performance {
			best = &OptimizationResult{
				Params:      append([]int(nil), params...),
				Performance: perf,
			}
		}

		// Advance the odometer, last axis fastest.
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return best, nil
		}
	}
}
