package indicators

import (
	"errors"
	"math"
	"testing"

	"fx-signal-bot/internal/types"
)

func genBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	price := 100.0
	for i := 0; i < n; i++ {
		cls := price * (1 + 0.002*math.Sin(float64(i)/9))
		bars[i] = types.Bar{
			Ts:     int64(1700000000 + i*3600),
			Open:   price,
			High:   math.Max(price, cls) * 1.001,
			Low:    math.Min(price, cls) * 0.999,
			Close:  cls,
			Volume: 1000,
		}
		price = cls
	}
	return bars
}

func TestComputeEmpty(t *testing.T) {
	_, err := New(DefaultConfig()).Compute(nil)
	if !errors.Is(err, ErrNoBars) {
		t.Fatalf("Expected ErrNoBars, got %v", err)
	}
}

func TestComputeAlignment(t *testing.T) {
	bars := genBars(300)
	inds, err := New(DefaultConfig()).Compute(bars)
	if err != nil {
		t.Fatal(err)
	}
	if len(inds) != len(bars) {
		t.Fatalf("Expected %d snapshots, got %d", len(bars), len(inds))
	}
}

func TestComputeWarmupNaN(t *testing.T) {
	bars := genBars(300)
	inds, err := New(DefaultConfig()).Compute(bars)
	if err != nil {
		t.Fatal(err)
	}

	// EMA200 defines last; nothing is fully defined before index 199.
	if inds[100].Defined() {
		t.Error("Expected snapshot 100 to be undefined")
	}
	if !math.IsNaN(inds[100].EMA200) {
		t.Error("Expected NaN EMA200 inside warm-up")
	}
	if !inds[len(inds)-1].Defined() {
		t.Error("Expected the final snapshot to be fully defined")
	}
}

func TestComputeZeroConfigUsesDefaults(t *testing.T) {
	bars := genBars(300)
	inds, err := New(Config{}).Compute(bars)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := New(DefaultConfig()).Compute(bars)
	if err != nil {
		t.Fatal(err)
	}
	last, refLast := inds[len(inds)-1], ref[len(ref)-1]
	if last.RSI != refLast.RSI || last.ATR != refLast.ATR {
		t.Error("Expected zero config to behave like defaults")
	}
}
