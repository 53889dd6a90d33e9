package marketdata

import (
	"context"
	"testing"
	"time"
)

func TestStaticSourceDeterministic(t *testing.T) {
	src := NewStaticSource(time.Hour)
	ctx := context.Background()

	a, err := src.RecentBars(ctx, "EURUSD", 300)
	if err != nil {
		t.Fatal(err)
	}
	b, err := src.RecentBars(ctx, "EURUSD", 300)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 300 {
		t.Fatalf("Expected 300 bars, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Bar %d differs between identical calls", i)
		}
	}
}

func TestStaticSourceSymbolsDiffer(t *testing.T) {
	src := NewStaticSource(time.Hour)
	ctx := context.Background()

	a, _ := src.RecentBars(ctx, "EURUSD", 50)
	b, _ := src.RecentBars(ctx, "XAUUSD", 50)

	same := true
	for i := range a {
		if a[i].Close != b[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Error("Expected different symbols to produce different series")
	}
}

func TestStaticSourceWellFormedBars(t *testing.T) {
	src := NewStaticSource(time.Hour)
	bars, err := src.RecentBars(context.Background(), "GBPUSD", 100)
	if err != nil {
		t.Fatal(err)
	}

	for i, b := range bars {
		if b.High < b.Open || b.High < b.Close || b.Low > b.Open || b.Low > b.Close {
			t.Fatalf("Bar %d has inconsistent OHLC: %+v", i, b)
		}
		if i > 0 && b.Ts != bars[i-1].Ts+3600 {
			t.Fatalf("Bar %d not hourly-spaced", i)
		}
	}
}
