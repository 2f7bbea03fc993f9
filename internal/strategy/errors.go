package strategy

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy reports that the dispatch façade received a strategy
// family tag it does not recognise.
var ErrUnknownStrategy = errors.New("strategy: unknown strategy family")

// InvalidParameterError reports a parameter value that the strategy family
// rejects: a non-positive lookback window, an upper threshold at or below the
// lower one, or an option that does not belong to the family. It is raised at
// parameter-set time, before any indicator is recomputed.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("strategy: invalid parameter %q: %s", e.Param, e.Reason)
}
