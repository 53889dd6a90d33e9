package risk

import (
	"errors"
	"math"
	"testing"

	"fx-signal-bot/internal/types"
)

func TestStopMultiplierTiers(t *testing.T) {
	cases := []struct {
		adx  float64
		want float64
	}{
		{40, 2.0},
		{35.5, 2.0},
		{35, 1.5}, // boundary belongs to the lower tier
		{30, 1.5},
		{25, 1.2},
		{10, 1.2},
	}
	for _, c := range cases {
		if got := StopMultiplier(c.adx); got != c.want {
			t.Errorf("StopMultiplier(%.1f) = %.1f, want %.1f", c.adx, got, c.want)
		}
	}
}

func TestDeriveLong(t *testing.T) {
	calc := NewCalculator(50, 2.5, nil)
	bar := types.Bar{Open: 1.0990, High: 1.1010, Low: 1.0980, Close: 1.1000}
	inds := types.Indicators{ADX: 30, ATR: 0.0010, RSI: 40}

	p, err := calc.Derive("EURUSD", types.Long, bar, inds)
	if err != nil {
		t.Fatal(err)
	}

	// stop = low - 1.5*ATR = 1.0980 - 0.0015
	wantStop := 1.0965
	if math.Abs(p.StopLoss-wantStop) > 1e-9 {
		t.Errorf("Expected stop %f, got %f", wantStop, p.StopLoss)
	}
	dist := p.Entry - p.StopLoss
	wantTP := p.Entry + 2.5*dist
	if math.Abs(p.TakeProfit-wantTP) > 1e-9 {
		t.Errorf("Expected TP %f, got %f", wantTP, p.TakeProfit)
	}
	if p.EntryMin >= p.Entry || p.EntryMax <= p.Entry {
		t.Error("Expected entry band to straddle the trigger price")
	}
	// lot = 50 / (100000 * 0.0035) = 0.1428... -> rounded to 0.14
	if math.Abs(p.LotSize-0.14) > 1e-9 {
		t.Errorf("Expected lot 0.14, got %f", p.LotSize)
	}
	if p.Snapshot.ADX != 30 {
		t.Error("Expected indicator snapshot embedded in params")
	}
}

func TestDeriveShortStopBeyondHigh(t *testing.T) {
	calc := NewCalculator(50, 2.5, nil)
	bar := types.Bar{Open: 1.1010, High: 1.1020, Low: 1.0990, Close: 1.1000}
	inds := types.Indicators{ADX: 40, ATR: 0.0010}

	p, err := calc.Derive("EURUSD", types.Short, bar, inds)
	if err != nil {
		t.Fatal(err)
	}
	// stop = high + 2.0*ATR
	wantStop := 1.1040
	if math.Abs(p.StopLoss-wantStop) > 1e-9 {
		t.Errorf("Expected stop %f, got %f", wantStop, p.StopLoss)
	}
	if p.TakeProfit >= p.Entry {
		t.Error("Expected short target below entry")
	}
}

func TestDeriveDegenerateStop(t *testing.T) {
	calc := NewCalculator(50, 2.5, nil)
	// Zero ATR and close == low: stop distance collapses.
	bar := types.Bar{Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1}
	inds := types.Indicators{ADX: 30, ATR: 0}

	_, err := calc.Derive("EURUSD", types.Long, bar, inds)
	if !errors.Is(err, ErrDegenerateStop) {
		t.Fatalf("Expected ErrDegenerateStop, got %v", err)
	}

	inds.ATR = math.NaN()
	_, err = calc.Derive("EURUSD", types.Long, bar, inds)
	if !errors.Is(err, ErrDegenerateStop) {
		t.Fatalf("Expected ErrDegenerateStop for NaN ATR, got %v", err)
	}
}

func TestLotSizeClampsToMinimum(t *testing.T) {
	// Tiny budget against a wide gold stop lands under the minimum lot.
	calc := NewCalculator(1, 2.5, nil)
	bar := types.Bar{Open: 2000, High: 2005, Low: 1995, Close: 2000}
	inds := types.Indicators{ADX: 40, ATR: 10}

	p, err := calc.Derive("XAUUSD", types.Long, bar, inds)
	if err != nil {
		t.Fatal(err)
	}
	if p.LotSize != 0.01 {
		t.Errorf("Expected minimum lot 0.01, got %f", p.LotSize)
	}
}

func TestSpecForAssetClasses(t *testing.T) {
	if SpecFor("XAUUSD").ContractMultiplier != 100 {
		t.Error("Expected 100oz contract for gold")
	}
	if SpecFor("BTCUSDT").ContractMultiplier != 1 {
		t.Error("Expected unit contract for crypto")
	}
	if SpecFor("EURUSD").ContractMultiplier != 100000 {
		t.Error("Expected standard lot for forex")
	}
}

func TestSpecOverride(t *testing.T) {
	calc := NewCalculator(50, 2.0, map[string]SymbolSpec{
		"EURUSD": {ContractMultiplier: 10000, MinLot: 0.1, LotStep: 0.1},
	})
	bar := types.Bar{Open: 1.099, High: 1.101, Low: 1.098, Close: 1.1}
	inds := types.Indicators{ADX: 30, ATR: 0.001}

	p, err := calc.Derive("EURUSD", types.Long, bar, inds)
	if err != nil {
		t.Fatal(err)
	}
	// lot = 50 / (10000*0.0035) = 1.428... -> 1.4 with step 0.1
	if math.Abs(p.LotSize-1.4) > 1e-9 {
		t.Errorf("Expected lot 1.4 with override spec, got %f", p.LotSize)
	}
}
