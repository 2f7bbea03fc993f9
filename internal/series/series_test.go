package series

import (
	"math"
	"testing"
	"time"
)

func candlesFromCloses(closes []float64) []Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]Candle, len(closes))
	for i, c := range closes {
		candles[i] = Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func TestNewComputesLogReturns(t *testing.T) {
	s, err := New(candlesFromCloses([]float64{100, 110, 99}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	ret := s.Returns()
	if !math.IsNaN(ret[0]) {
		t.Errorf("returns[0] = %v, want NaN", ret[0])
	}
	if want := math.Log(110.0 / 100.0); math.Abs(ret[1]-want) > 1e-15 {
		t.Errorf("returns[1] = %v, want %v", ret[1], want)
	}
	if want := math.Log(99.0 / 110.0); math.Abs(ret[2]-want) > 1e-15 {
		t.Errorf("returns[2] = %v, want %v", ret[2], want)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}

	// Duplicate timestamp.
	dup := candlesFromCloses([]float64{1, 2, 3})
	dup[2].Timestamp = dup[1].Timestamp
	if _, err := New(dup); err == nil {
		t.Error("New should reject duplicate timestamps")
	}

	// Out-of-order timestamps.
	ooo := candlesFromCloses([]float64{1, 2, 3})
	ooo[1], ooo[2] = ooo[2], ooo[1]
	if _, err := New(ooo); err == nil {
		t.Error("New should reject out-of-order timestamps")
	}
}

func TestSetColumn(t *testing.T) {
	s, err := New(candlesFromCloses([]float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SetColumn("ind", []float64{0, 1, 2}); err != nil {
		t.Fatalf("SetColumn: %v", err)
	}
	col, ok := s.Column("ind")
	if !ok {
		t.Fatal("Column should find attached column")
	}
	if col[2] != 2 {
		t.Errorf("column value = %v, want 2", col[2])
	}

	if err := s.SetColumn("short", []float64{0, 1}); err == nil {
		t.Error("SetColumn should reject a misaligned column")
	}
	if _, ok := s.Column("missing"); ok {
		t.Error("Column should report missing columns")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := New(candlesFromCloses([]float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SetColumn("ind", []float64{7, 8, 9}); err != nil {
		t.Fatalf("SetColumn: %v", err)
	}

	dup := s.Clone()
	dupCol, _ := dup.Column("ind")
	dupCol[0] = -1
	dup.Close()[0] = -1

	if col, _ := s.Column("ind"); col[0] != 7 {
		t.Errorf("mutating clone column changed original: got %v, want 7", col[0])
	}
	if s.Close()[0] != 1 {
		t.Errorf("mutating clone closes changed original: got %v, want 1", s.Close()[0])
	}
}
