package indicator

import (
	"math"
	"testing"
)

// approxEqual treats two NaNs as equal and otherwise compares to 1e-9.
func approxEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}

func assertSeries(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d, want %d", name, len(got), len(want))
	}
	for i := range got {
		if !approxEqual(got[i], want[i]) {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

var nan = math.NaN()

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	assertSeries(t, "SMA", got, []float64{nan, nan, 2, 3, 4})
}

func TestSMAWarmupLength(t *testing.T) {
	for _, window := range []int{1, 2, 5, 10} {
		values := make([]float64, 10)
		got := SMA(values, window)
		undefined := 0
		for _, v := range got {
			if math.IsNaN(v) {
				undefined++
			}
		}
		want := window - 1
		if window > len(values) {
			want = len(values)
		}
		if undefined != want {
			t.Errorf("window %d: %d undefined entries, want %d", window, undefined, want)
		}
	}
}

func TestSMAPropagatesNaN(t *testing.T) {
	got := SMA([]float64{nan, 2, 4, 6}, 2)
	assertSeries(t, "SMA", got, []float64{nan, nan, 3, 5})
}

func TestRollingStd(t *testing.T) {
	got := RollingStd([]float64{1, 2, 3, 5}, 3)
	// Sample standard deviation, n-1 divisor.
	assertSeries(t, "RollingStd", got, []float64{nan, nan, 1, math.Sqrt(7.0 / 3.0)})
}

func TestRollingMinMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	assertSeries(t, "RollingMin", RollingMin(values, 3), []float64{nan, nan, 1, 1, 1})
	assertSeries(t, "RollingMax", RollingMax(values, 3), []float64{nan, nan, 4, 4, 5})
}

func TestEMAAdjustedWeights(t *testing.T) {
	values := []float64{2, 4, 8, 16, 32}
	span := 3
	got := EMA(values, span)

	// Independent computation: renormalized exponential weights over the
	// full history, defined once span observations have been seen.
	alpha := 2.0 / (float64(span) + 1.0)
	for i := range values {
		if i < span-1 {
			if !math.IsNaN(got[i]) {
				t.Errorf("EMA[%d] = %v, want NaN during warm-up", i, got[i])
			}
			continue
		}
		var num, den float64
		for k := 0; k <= i; k++ {
			w := math.Pow(1-alpha, float64(k))
			num += w * values[i-k]
			den += w
		}
		if want := num / den; !approxEqual(got[i], want) {
			t.Errorf("EMA[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestEMASpanOne(t *testing.T) {
	// alpha = 1: the average is the value itself, defined immediately.
	got := EMA([]float64{3, 1, 4}, 1)
	assertSeries(t, "EMA", got, []float64{3, 1, 4})
}

func TestEMASkipsLeadingNaN(t *testing.T) {
	got := EMA([]float64{nan, nan, 2, 4}, 2)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
		t.Errorf("EMA = %v, want NaN through the first defined span", got)
	}
	// Two observations seen at index 3: (4 + 0.5*2) / 1.5.
	if want := 10.0 / 3.0; !approxEqual(got[3], want) {
		t.Errorf("EMA[3] = %v, want %v", got[3], want)
	}
}

func TestRSI(t *testing.T) {
	// Strictly rising prices: no down moves, RSI pegged at 100.
	rising := RSI([]float64{1, 2, 3, 4, 5}, 2)
	assertSeries(t, "RSI rising", rising, []float64{nan, 100, 100, 100, 100})

	// Alternating moves: equal up and down means inside the window.
	alt := RSI([]float64{1, 2, 1, 2, 1}, 2)
	assertSeries(t, "RSI alternating", alt, []float64{nan, 100, 50, 50, 50})
}

func TestBandZScore(t *testing.T) {
	got := BandZScore([]float64{1, 2, 3}, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Errorf("BandZScore warm-up = %v, want NaN", got[:2])
	}
	// mean 2, sample std 1, value 3.
	if !approxEqual(got[2], 1) {
		t.Errorf("BandZScore[2] = %v, want 1", got[2])
	}
}

func TestStochasticK(t *testing.T) {
	high := []float64{10, 12, 14}
	low := []float64{6, 8, 10}
	close := []float64{8, 11, 13}
	got := StochasticK(high, low, close, 2)
	assertSeries(t, "StochasticK", got, []float64{nan, 100 * 5.0 / 6.0, 100 * 5.0 / 6.0})
}

func TestLocalExtrema(t *testing.T) {
	highs, lows := LocalExtrema([]float64{1, 3, 2, 4, 1})
	wantHighs := []bool{false, true, false, true, false}
	wantLows := []bool{false, false, true, false, false}
	for i := range highs {
		if highs[i] != wantHighs[i] {
			t.Errorf("highs[%d] = %v, want %v", i, highs[i], wantHighs[i])
		}
		if lows[i] != wantLows[i] {
			t.Errorf("lows[%d] = %v, want %v", i, lows[i], wantLows[i])
		}
	}
}

func TestRetracementLevels(t *testing.T) {
	levels := RetracementLevels([]float64{0, 25, 100, 50})
	want := map[float64]float64{0.236: 76.4, 0.382: 61.8, 0.618: 38.2}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d", len(levels), len(want))
	}
	for _, l := range levels {
		if !approxEqual(l.Price, want[l.Ratio]) {
			t.Errorf("level %v price = %v, want %v", l.Ratio, l.Price, want[l.Ratio])
		}
	}
	if RetracementLevels(nil) != nil {
		t.Error("RetracementLevels(nil) should be nil")
	}
}
