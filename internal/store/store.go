// Package store supplies the collaborators around the backtesting core: a
// file-backed candle store that hands the engine an already-ordered price
// series, and a journal of backtest and optimization runs.
package store

import (
	"context"
	"time"

	"backtester/internal/series"
)

// CandleStore persists and retrieves OHLCV candle data. Implementations
// must return candles timestamp-sorted and deduplicated, ready for
// series.New.
type CandleStore interface {
	// WriteCandles persists a batch of candles for a symbol and sampling
	// granularity, merging with whatever is already stored.
	WriteCandles(ctx context.Context, symbol, granularity string, candles []series.Candle) error

	// ReadCandles returns the stored candles for the symbol and granularity
	// within [start, end], in ascending timestamp order.
	ReadCandles(ctx context.Context, symbol, granularity string, start, end time.Time) ([]series.Candle, error)

	// ListSymbols returns all distinct symbols with stored candles.
	ListSymbols(ctx context.Context) ([]string, error)
}

// RunRecord is one journal entry for a backtest or optimization run.
type RunRecord struct {
	ID             int64
	Kind           string // "backtest" or "optimize"
	Symbol         string
	Family         string
	Params         string // formatted parameter values
	TC             float64
	Performance    float64
	Outperformance float64
	CreatedAt      time.Time
}

// RunStore journals completed runs for later comparison.
type RunStore interface {
	// SaveRun inserts a run record and fills in its ID.
	SaveRun(ctx context.Context, run *RunRecord) error

	// ListRuns returns the most recent runs, newest first, up to limit.
	// An empty symbol matches all symbols.
	ListRuns(ctx context.Context, symbol string, limit int) ([]RunRecord, error)
}
