package scorer

import (
	"math"
	"testing"

	"fx-signal-bot/internal/types"
)

// defined returns a fully-defined snapshot in a neutral state; tests
// overwrite the fields they exercise.
func defined() types.Indicators {
	return types.Indicators{
		EMA20:       1.0950,
		EMA50:       1.0900,
		EMA200:      1.0800,
		RSI:         50,
		MACDHist:    0,
		ADX:         28,
		StochK:      50,
		StochD:      50,
		BBPosition:  0.5,
		ATR:         0.005,
		VolumeRatio: math.NaN(),
	}
}

func window(prev, cur types.Indicators, close float64) ([]types.Bar, []types.Indicators) {
	bars := []types.Bar{
		{Ts: 1000, Open: close, High: close, Low: close, Close: close},
		{Ts: 2000, Open: close, High: close, Low: close, Close: close},
		{Ts: 3000, Open: close - 0.002, High: close + 0.001, Low: close - 0.003, Close: close},
	}
	inds := []types.Indicators{defined(), prev, cur}
	return bars, inds
}

func TestEvaluateShortWindow(t *testing.T) {
	s := New(DefaultProfile())
	bars, inds := window(defined(), defined(), 1.1)
	sig := s.Evaluate(bars[:2], inds[:2])
	if sig.Active() {
		t.Error("Expected inactive signal for a window under 3 bars")
	}
}

func TestEvaluateMisaligned(t *testing.T) {
	s := New(DefaultProfile())
	bars, inds := window(defined(), defined(), 1.1)
	sig := s.Evaluate(bars, inds[:2])
	if sig.Active() {
		t.Error("Expected inactive signal for misaligned input")
	}
}

func TestEvaluateUndefinedIndicators(t *testing.T) {
	s := New(DefaultProfile())
	cur := defined()
	cur.RSI = math.NaN()
	bars, inds := window(defined(), cur, 1.1)
	sig := s.Evaluate(bars, inds)
	if sig.Active() {
		t.Error("Expected inactive signal while an indicator is undefined")
	}
}

func TestEvaluateADXFloor(t *testing.T) {
	s := New(DefaultProfile())
	cur := defined()
	cur.ADX = 20 // ranging
	bars, inds := window(defined(), cur, 1.1)
	sig := s.Evaluate(bars, inds)
	if sig.Active() || len(sig.Reasons) != 0 {
		t.Error("Expected no evaluation below the ADX floor")
	}
}

func TestEvaluateRSIExtremeBand(t *testing.T) {
	s := New(DefaultProfile())
	for _, rsi := range []float64{10, 90} {
		cur := defined()
		cur.RSI = rsi
		bars, inds := window(defined(), cur, 1.1)
		sig := s.Evaluate(bars, inds)
		if sig.Active() || len(sig.Reasons) != 0 {
			t.Errorf("Expected no evaluation with RSI pinned at %f", rsi)
		}
	}
}

func TestEvaluateOverextension(t *testing.T) {
	s := New(DefaultProfile())
	cur := defined()
	cur.EMA50 = 1.0900
	cur.ATR = 0.005
	// |close - EMA50| = 0.02 => 4 ATRs, over the 3.0 limit.
	bars, inds := window(defined(), cur, 1.1100)
	sig := s.Evaluate(bars, inds)
	if sig.Active() || len(sig.Reasons) != 0 {
		t.Error("Expected no evaluation when price is over-extended")
	}
}

func bullishConfluence() ([]types.Bar, []types.Indicators) {
	prev := defined()
	prev.RSI = 35
	prev.MACDHist = -0.0001
	prev.StochK = 25
	prev.StochD = 28

	cur := defined()
	cur.RSI = 40 // recovering above oversold, still under the midline
	cur.MACDHist = 0.0002
	cur.StochK = 28
	cur.StochD = 27

	return window(prev, cur, 1.1000)
}

func TestEvaluateBullishConfluence(t *testing.T) {
	s := New(DefaultProfile())
	bars, inds := bullishConfluence()
	sig := s.Evaluate(bars, inds)

	if !sig.Active() {
		t.Fatal("Expected an active signal")
	}
	if sig.Direction != types.Long {
		t.Fatalf("Expected LONG, got %s", sig.Direction)
	}
	// ema_stack 2.0 + rsi_recover 1.5 + macd sign/cross 1.5 + stoch 1.5
	if math.Abs(sig.BuyScore-6.5) > 1e-9 {
		t.Errorf("Expected buy score 6.5, got %f", sig.BuyScore)
	}
	if sig.SellScore != 0 {
		t.Errorf("Expected sell score 0, got %f", sig.SellScore)
	}
	if len(sig.Reasons) != 5 {
		t.Errorf("Expected 5 reasons, got %d", len(sig.Reasons))
	}
	for _, r := range sig.Reasons {
		if r.Side != types.Long {
			t.Errorf("Unexpected short-side reason %s", r.Name)
		}
	}
}

func TestEvaluateMarginBlocks(t *testing.T) {
	p := DefaultProfile()
	p.Margin = 10 // unreachable
	s := New(p)
	bars, inds := bullishConfluence()
	sig := s.Evaluate(bars, inds)

	if sig.Active() {
		t.Error("Expected margin to suppress the signal")
	}
	if sig.BuyScore == 0 {
		t.Error("Expected the score itself to still be reported")
	}
}

func bearishConfluenceInUptrend() ([]types.Bar, []types.Indicators) {
	// Countertrend short: EMA50 > EMA200 (trend up) while every oscillator
	// points down.
	prev := defined()
	prev.RSI = 65
	prev.MACDHist = 0.0001
	prev.StochK = 78
	prev.StochD = 75
	prev.BBPosition = 0.9

	cur := defined()
	cur.RSI = 60
	cur.MACDHist = -0.0002
	cur.StochK = 74
	cur.StochD = 76
	cur.BBPosition = 0.85

	return window(prev, cur, 1.1000)
}

func TestEvaluateCountertrendShort(t *testing.T) {
	s := New(DefaultProfile())
	bars, inds := bearishConfluenceInUptrend()
	sig := s.Evaluate(bars, inds)

	if sig.Direction != types.Short {
		t.Fatalf("Expected SHORT without trend filter, got %q", sig.Direction)
	}
	// rsi_recover 1.5 + macd sign/cross 1.5 + stoch overbought 1.5 + bb 1.0
	if math.Abs(sig.SellScore-5.5) > 1e-9 {
		t.Errorf("Expected sell score 5.5, got %f", sig.SellScore)
	}
}

func TestEvaluateTrendFilterBlocksCountertrend(t *testing.T) {
	s := New(StrictProfile())
	bars, inds := bearishConfluenceInUptrend()
	sig := s.Evaluate(bars, inds)

	if sig.Active() {
		t.Error("Expected trend filter to block the countertrend short")
	}
}

func TestEvaluateRSIExhaustionGuard(t *testing.T) {
	// Strong long confluence, but RSI already overbought: the direction
	// must not fire.
	prev := defined()
	prev.RSI = 72
	prev.MACDHist = -0.0001
	prev.StochK = 25
	prev.StochD = 28

	cur := defined()
	cur.RSI = 75
	cur.MACDHist = 0.0002
	cur.StochK = 28
	cur.StochD = 27

	bars, inds := window(prev, cur, 1.1000)
	s := New(DefaultProfile())
	sig := s.Evaluate(bars, inds)

	if sig.Active() {
		t.Errorf("Expected exhaustion guard to suppress the signal, got %s", sig.Direction)
	}
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("Default profile must validate: %v", err)
	}

	bad := DefaultProfile()
	bad.RSIOversold = 80
	bad.RSIOverbought = 20
	if err := bad.Validate(); err == nil {
		t.Error("Expected inverted RSI thresholds to fail validation")
	}
}

func TestBuiltinProfile(t *testing.T) {
	if _, err := BuiltinProfile("strict"); err != nil {
		t.Errorf("Expected strict profile to resolve: %v", err)
	}
	if _, err := BuiltinProfile("nope"); err == nil {
		t.Error("Expected unknown profile name to fail")
	}
}
