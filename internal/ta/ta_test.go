package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	out := SMA(vals, 3)

	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("Expected NaN inside warm-up window")
	}
	if out[2] != 2 {
		t.Errorf("Expected SMA 2, got %f", out[2])
	}
	if out[4] != 4 {
		t.Errorf("Expected SMA 4, got %f", out[4])
	}
}

func TestSMATooShort(t *testing.T) {
	out := SMA([]float64{1, 2}, 5)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("Expected NaN at %d for short input, got %f", i, v)
		}
	}
}

func TestEMASeededWithSMA(t *testing.T) {
	vals := []float64{2, 4, 6, 8}
	out := EMA(vals, 3)

	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("Expected NaN before the seed position")
	}
	// Seed is the simple average of the first 3 values.
	if out[2] != 4 {
		t.Errorf("Expected seed 4, got %f", out[2])
	}
	// alpha = 0.5 for span 3: 0.5*8 + 0.5*4 = 6
	if out[3] != 6 {
		t.Errorf("Expected EMA 6, got %f", out[3])
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := RSI(closes, 14)

	if !math.IsNaN(out[13]) {
		t.Error("Expected NaN before period+1 closes")
	}
	if out[14] != 100 {
		t.Errorf("Expected RSI 100 with zero losses, got %f", out[14])
	}
	if out[19] != 100 {
		t.Errorf("Expected RSI to stay at 100, got %f", out[19])
	}
}

func TestRSIBalanced(t *testing.T) {
	// Alternate +1/-1: average gain equals average loss so RSI sits at 50.
	closes := make([]float64, 40)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	out := RSI(closes, 14)
	got := out[len(out)-1]
	if got < 40 || got > 60 {
		t.Errorf("Expected RSI near 50 for balanced series, got %f", got)
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 101
		lows[i] = 100
		closes[i] = 100.5
	}
	out := ATR(highs, lows, closes, 14)

	if !math.IsNaN(out[13]) {
		t.Error("Expected NaN inside warm-up window")
	}
	if math.Abs(out[14]-1.0) > 1e-9 {
		t.Errorf("Expected ATR 1.0 for constant range, got %f", out[14])
	}
}

func TestMACDHistWarmup(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 0.1*float64(i)
	}
	out := MACDHist(closes, 12, 26, 9)

	if !math.IsNaN(out[0]) {
		t.Error("Expected NaN at the start")
	}
	last := out[len(out)-1]
	if math.IsNaN(last) {
		t.Error("Expected defined histogram after warm-up")
	}
}

func TestADXTrendingVsFlat(t *testing.T) {
	n := 60
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base
	}
	out := ADX(highs, lows, closes, 14)

	if !math.IsNaN(out[27]) {
		t.Error("Expected NaN before 2*period")
	}
	last := out[n-1]
	if last < 50 {
		t.Errorf("Expected high ADX for a straight trend, got %f", last)
	}
}

func TestStochasticBounds(t *testing.T) {
	n := 40
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + math.Sin(float64(i)/3)
		highs[i] = base + 0.5
		lows[i] = base - 0.5
		closes[i] = base
	}
	k, d := Stochastic(highs, lows, closes, 14, 3, 3)
	for i := range k {
		if math.IsNaN(k[i]) {
			continue
		}
		if k[i] < 0 || k[i] > 100 {
			t.Errorf("%%K out of bounds at %d: %f", i, k[i])
		}
	}
	if math.IsNaN(d[n-1]) {
		t.Error("Expected defined %D at the end")
	}
}

func TestBollingerPositionCentered(t *testing.T) {
	// Flat series: zero deviation resolves to mid-band.
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	out := BollingerPosition(closes, 20, 2)
	if out[24] != 0.5 {
		t.Errorf("Expected 0.5 for flat series, got %f", out[24])
	}
}

func TestVolumeRatio(t *testing.T) {
	vols := make([]float64, 25)
	for i := range vols {
		vols[i] = 1000
	}
	vols[24] = 2000
	out := VolumeRatio(vols, 20)

	if !math.IsNaN(out[10]) {
		t.Error("Expected NaN inside warm-up window")
	}
	want := 2000.0 / ((19*1000.0 + 2000.0) / 20.0)
	if math.Abs(out[24]-want) > 1e-9 {
		t.Errorf("Expected ratio %f, got %f", want, out[24])
	}
}
