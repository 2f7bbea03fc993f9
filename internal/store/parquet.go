package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/samber/lo"

	"backtester/internal/series"
)

// Compile-time interface check.
var _ CandleStore = (*ParquetStore)(nil)

// ParquetStore implements CandleStore using Parquet files on disk.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// CandleRecord is the Parquet schema for candle data.
type CandleRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// WriteCandles writes candles for a symbol and granularity, merged and
// deduplicated by timestamp with incoming records winning. Layout:
//
//	<DataDir>/<SYMBOL>/<granularity>.parquet
func (s *ParquetStore) WriteCandles(_ context.Context, symbol, granularity string, candles []series.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	records := lo.Map(candles, func(c series.Candle, _ int) CandleRecord {
		return CandleRecord{
			Timestamp: c.Timestamp.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	})

	path := s.candlePath(symbol, granularity)

	// Merge with existing records; a missing file just means nothing to merge.
	existing, _ := readParquetFile[CandleRecord](path)
	merged := mergeCandleRecords(existing, records)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing candles for %s/%s: %w", symbol, granularity, err)
	}
	return nil
}

// ReadCandles reads the stored candles for the symbol and granularity within
// [start, end], ascending by timestamp.
func (s *ParquetStore) ReadCandles(_ context.Context, symbol, granularity string, start, end time.Time) ([]series.Candle, error) {
	path := s.candlePath(symbol, granularity)
	records, err := readParquetFile[CandleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading candles for %s/%s: %w", symbol, granularity, err)
	}

	var candles []series.Candle
	for _, r := range records {
		ts := time.UnixMilli(r.Timestamp).UTC()
		if ts.Before(start) || ts.After(end) {
			continue
		}
		candles = append(candles, series.Candle{
			Timestamp: ts,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}
	return candles, nil
}

// ListSymbols lists all symbols that have candle data.
func (s *ParquetStore) ListSymbols(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var symbols []string
	for _, e := range entries {
		if e.IsDir() {
			symbols = append(symbols, e.Name())
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// candlePath returns the filesystem path for a candle Parquet file.
func (s *ParquetStore) candlePath(symbol, granularity string) string {
	return filepath.Join(s.DataDir, strings.ToUpper(symbol), granularity+".parquet")
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeCandleRecords deduplicates candle records by timestamp, preferring
// incoming records over existing ones. Results are sorted by timestamp.
func mergeCandleRecords(existing, incoming []CandleRecord) []CandleRecord {
	seen := make(map[int64]CandleRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := lo.Values(seen)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
