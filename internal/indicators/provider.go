// Package indicators turns a raw bar series into per-bar indicator
// snapshots. The scorer treats this package's output as ground truth and
// never re-derives indicator values itself.
package indicators

import (
	"errors"

	"fx-signal-bot/internal/ta"
	"fx-signal-bot/internal/types"
)

// ErrNoBars is returned when there is nothing to compute over.
var ErrNoBars = errors.New("indicators: empty bar series")

// Config holds the indicator periods. Zero values are replaced by the
// defaults the strategy was tuned with.
type Config struct {
	RSIPeriod    int     `yaml:"rsi_period"`
	ATRPeriod    int     `yaml:"atr_period"`
	MACDFast     int     `yaml:"macd_fast"`
	MACDSlow     int     `yaml:"macd_slow"`
	MACDSignal   int     `yaml:"macd_signal"`
	ADXPeriod    int     `yaml:"adx_period"`
	StochPeriod  int     `yaml:"stoch_period"`
	StochSmooth  int     `yaml:"stoch_smooth"`
	StochDPeriod int     `yaml:"stoch_d_period"`
	BBWindow     int     `yaml:"bb_window"`
	BBStdDev     float64 `yaml:"bb_stddev"`
	VolumeWindow int     `yaml:"volume_window"`
}

// DefaultConfig returns the periods the strategy was optimized against.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:    14,
		ATRPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		ADXPeriod:    14,
		StochPeriod:  14,
		StochSmooth:  3,
		StochDPeriod: 3,
		BBWindow:     20,
		BBStdDev:     2.0,
		VolumeWindow: 20,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = d.RSIPeriod
	}
	if c.ATRPeriod <= 0 {
		c.ATRPeriod = d.ATRPeriod
	}
	if c.MACDFast <= 0 {
		c.MACDFast = d.MACDFast
	}
	if c.MACDSlow <= 0 {
		c.MACDSlow = d.MACDSlow
	}
	if c.MACDSignal <= 0 {
		c.MACDSignal = d.MACDSignal
	}
	if c.ADXPeriod <= 0 {
		c.ADXPeriod = d.ADXPeriod
	}
	if c.StochPeriod <= 0 {
		c.StochPeriod = d.StochPeriod
	}
	if c.StochSmooth <= 0 {
		c.StochSmooth = d.StochSmooth
	}
	if c.StochDPeriod <= 0 {
		c.StochDPeriod = d.StochDPeriod
	}
	if c.BBWindow <= 0 {
		c.BBWindow = d.BBWindow
	}
	if c.BBStdDev <= 0 {
		c.BBStdDev = d.BBStdDev
	}
	if c.VolumeWindow <= 0 {
		c.VolumeWindow = d.VolumeWindow
	}
}

// Provider computes aligned indicator snapshots for a bar series.
type Provider struct {
	cfg Config
}

// New returns a provider for the given periods.
func New(cfg Config) *Provider {
	cfg.applyDefaults()
	return &Provider{cfg: cfg}
}

// Compute returns one snapshot per input bar. Bars inside an indicator's
// warm-up window carry NaN for that field; callers must check Defined()
// before evaluating.
func (p *Provider) Compute(bars []types.Bar) ([]types.Indicators, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	n := len(bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		vols[i] = b.Volume
	}

	ema20 := ta.EMA(closes, 20)
	ema50 := ta.EMA(closes, 50)
	ema200 := ta.EMA(closes, 200)
	rsi := ta.RSI(closes, p.cfg.RSIPeriod)
	atr := ta.ATR(highs, lows, closes, p.cfg.ATRPeriod)
	macdHist := ta.MACDHist(closes, p.cfg.MACDFast, p.cfg.MACDSlow, p.cfg.MACDSignal)
	adx := ta.ADX(highs, lows, closes, p.cfg.ADXPeriod)
	stochK, stochD := ta.Stochastic(highs, lows, closes, p.cfg.StochPeriod, p.cfg.StochSmooth, p.cfg.StochDPeriod)
	bbPos := ta.BollingerPosition(closes, p.cfg.BBWindow, p.cfg.BBStdDev)
	volRatio := ta.VolumeRatio(vols, p.cfg.VolumeWindow)

	out := make([]types.Indicators, n)
	for i := 0; i < n; i++ {
		out[i] = types.Indicators{
			EMA20:       ema20[i],
			EMA50:       ema50[i],
			EMA200:      ema200[i],
			RSI:         rsi[i],
			MACDHist:    macdHist[i],
			ADX:         adx[i],
			StochK:      stochK[i],
			StochD:      stochD[i],
			BBPosition:  bbPos[i],
			ATR:         atr[i],
			VolumeRatio: volRatio[i],
		}
	}
	return out, nil
}
