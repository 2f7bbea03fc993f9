// Package series defines the Candle and PriceSeries types that the
// backtesting engine operates on. A PriceSeries is an ordered, time-indexed
// OHLCV container to which derived numeric columns (indicators, positions)
// can be attached, all aligned 1:1 to the candle index.
package series

import (
	"fmt"
	"math"
	"time"
)

// ReturnsColumn is the name of the per-period log-return column that every
// PriceSeries carries from construction.
const ReturnsColumn = "returns"

// Candle is a single OHLCV observation for a fixed time bucket. It is
// immutable once recorded into a PriceSeries.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// PriceSeries holds an ordered candle sequence plus named derived columns.
// Timestamps are strictly increasing with no duplicates; every derived column
// has exactly one value per candle, with NaN marking undefined (warm-up)
// entries.
type PriceSeries struct {
	timestamps []time.Time
	open       []float64
	high       []float64
	low        []float64
	close      []float64
	volume     []float64
	columns    map[string][]float64
}

// New builds a PriceSeries from an already-assembled candle sequence. The
// sequence must be timestamp-sorted and deduplicated; any violation is
// rejected. The per-period log-return column is computed on construction and
// available under ReturnsColumn (its first entry is NaN).
func New(candles []Candle) (*PriceSeries, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("series: no candles supplied")
	}

	s := &PriceSeries{
		timestamps: make([]time.Time, len(candles)),
		open:       make([]float64, len(candles)),
		high:       make([]float64, len(candles)),
		low:        make([]float64, len(candles)),
		close:      make([]float64, len(candles)),
		volume:     make([]float64, len(candles)),
		columns:    make(map[string][]float64),
	}

	for i, c := range candles {
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return nil, fmt.Errorf("series: timestamps must be strictly increasing (index %d: %s does not follow %s)",
				i, c.Timestamp, candles[i-1].Timestamp)
		}
		s.timestamps[i] = c.Timestamp
		s.open[i] = c.Open
		s.high[i] = c.High
		s.low[i] = c.Low
		s.close[i] = c.Close
		s.volume[i] = c.Volume
	}

	returns := make([]float64, len(candles))
	returns[0] = math.NaN()
	for i := 1; i < len(candles); i++ {
		returns[i] = math.Log(s.close[i] / s.close[i-1])
	}
	s.columns[ReturnsColumn] = returns

	return s, nil
}

// Len returns the number of candles in the series.
func (s *PriceSeries) Len() int {
	return len(s.timestamps)
}

// Timestamps returns the candle index. Callers must not mutate the result.
func (s *PriceSeries) Timestamps() []time.Time {
	return s.timestamps
}

// Open returns the open price column.
func (s *PriceSeries) Open() []float64 { return s.open }

// High returns the high price column.
func (s *PriceSeries) High() []float64 { return s.high }

// Low returns the low price column.
func (s *PriceSeries) Low() []float64 { return s.low }

// Close returns the close price column.
func (s *PriceSeries) Close() []float64 { return s.close }

// Volume returns the volume column.
func (s *PriceSeries) Volume() []float64 { return s.volume }

// Returns is shorthand for the log-return column attached at construction.
func (s *PriceSeries) Returns() []float64 {
	return s.columns[ReturnsColumn]
}

// SetColumn attaches (or fully replaces) a named derived column. Columns are
// never partially updated; the supplied slice must cover the whole index.
func (s *PriceSeries) SetColumn(name string, values []float64) error {
	if len(values) != s.Len() {
		return fmt.Errorf("series: column %q has %d values, index has %d", name, len(values), s.Len())
	}
	s.columns[name] = values
	return nil
}

// Column returns the named derived column. The second return value reports
// whether the column exists.
func (s *PriceSeries) Column(name string) ([]float64, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// Clone returns a deep copy of the series, including all derived columns.
// Callers that shard work across goroutines must operate on independent
// clones; a PriceSeries is not safe for concurrent mutation.
func (s *PriceSeries) Clone() *PriceSeries {
	dup := &PriceSeries{
		timestamps: append([]time.Time(nil), s.timestamps...),
		open:       append([]float64(nil), s.open...),
		high:       append([]float64(nil), s.high...),
		low:        append([]float64(nil), s.low...),
		close:      append([]float64(nil), s.close...),
		volume:     append([]float64(nil), s.volume...),
		columns:    make(map[string][]float64, len(s.columns)),
	}
	for name, col := range s.columns {
		dup.columns[name] = append([]float64(nil), col...)
	}
	return dup
}
