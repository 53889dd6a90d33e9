// Package scorer implements signal detection over a window of bars with
// indicator snapshots. Evaluation is a pure function of its input window:
// no clock, no I/O, no retained state between calls.
package scorer

import (
	"math"

	"fx-signal-bot/internal/types"
)

// Check weights. Tuned together with the profile thresholds; a full
// re-tune goes through the sweep tool, not through editing these.
const (
	wAlignFull    = 2.0 // price above/below the whole EMA stack
	wAlignPartial = 1.0 // major trend plus price on the right side of EMA200
	wRSIRecover   = 1.5 // oscillator recovering toward midline
	wRSIDeep      = 1.0 // oscillator turning inside the extreme zone
	wMACDSign     = 0.5 // histogram on the right side of zero
	wMACDCross    = 1.0 // fresh zero-crossing
	wMACDSlope    = 0.5 // histogram expanding
	wStochExtreme = 1.5 // fast/slow crossover inside the extreme zone
	wStochMild    = 0.5 // crossover short of the extreme zone
	wBBBounce     = 1.0 // band-edge bounce reversing direction
	wADXBonus     = 0.5 // strong-trend bonus, split by trend direction
	wVolume       = 0.5 // volume confirmation when the feed carries volume

	adxStrong      = 30.0
	stochLowZone   = 30.0
	stochHighZone  = 70.0
	stochMidline   = 50.0
	bbLowerThird   = 0.3
	bbUpperThird   = 0.7
	volumeConfirm  = 1.2
	minWindowBars  = 3
)

// Scorer evaluates bar windows against one profile.
type Scorer struct {
	profile Profile
}

// New returns a scorer for the given profile.
func New(p Profile) *Scorer {
	return &Scorer{profile: p}
}

// Profile returns the tuning the scorer was built with.
func (s *Scorer) Profile() Profile { return s.profile }

// Evaluate scores the most recent bar of the window. bars and inds are
// aligned, oldest first. Returns an inactive signal whenever the window is
// too short, a required indicator is undefined, or a pre-filter rejects
// the market state. Never errors: insufficiency is abstention, not failure.
func (s *Scorer) Evaluate(bars []types.Bar, inds []types.Indicators) types.Signal {
	if len(bars) < minWindowBars || len(inds) != len(bars) {
		return types.Signal{}
	}

	cur := inds[len(inds)-1]
	prev := inds[len(inds)-2]
	bar := bars[len(bars)-1]

	if !cur.Defined() || !prev.Defined() {
		return types.Signal{}
	}

	p := s.profile

	// Pre-filters: ranging market, oscillator pinned at an extreme, or
	// price over-extended from its medium-term trend line.
	if cur.ADX < p.ADXFloor {
		return types.Signal{}
	}
	if cur.RSI <= p.RSIExtremeLow || cur.RSI >= p.RSIExtremeHigh {
		return types.Signal{}
	}
	if cur.ATR > 0 && math.Abs(bar.Close-cur.EMA50)/cur.ATR > p.OverextensionATR {
		return types.Signal{}
	}

	price := bar.Close
	sig := types.Signal{}
	add := func(side types.Direction, name string, pts float64) {
		if side == types.Long {
			sig.BuyScore += pts
		} else {
			sig.SellScore += pts
		}
		sig.Reasons = append(sig.Reasons, types.Reason{Name: name, Side: side, Points: pts})
	}

	trendUp := cur.EMA50 > cur.EMA200

	// 1. EMA alignment.
	if price > cur.EMA20 && cur.EMA20 > cur.EMA50 && cur.EMA50 > cur.EMA200 {
		add(types.Long, "ema_stack", wAlignFull)
	} else if trendUp && price > cur.EMA200 {
		add(types.Long, "ema_trend", wAlignPartial)
	}
	if price < cur.EMA20 && cur.EMA20 < cur.EMA50 && cur.EMA50 < cur.EMA200 {
		add(types.Short, "ema_stack", wAlignFull)
	} else if !trendUp && price < cur.EMA200 {
		add(types.Short, "ema_trend", wAlignPartial)
	}

	// 2. RSI recovery with direction confirmed against the prior bar.
	if cur.RSI > p.RSIOversold && cur.RSI < 50 && cur.RSI > prev.RSI {
		add(types.Long, "rsi_recover", wRSIRecover)
	} else if cur.RSI < p.RSIOversold && cur.RSI > prev.RSI {
		add(types.Long, "rsi_turn", wRSIDeep)
	}
	if cur.RSI < p.RSIOverbought && cur.RSI > 50 && cur.RSI < prev.RSI {
		add(types.Short, "rsi_recover", wRSIRecover)
	} else if cur.RSI > p.RSIOverbought && cur.RSI < prev.RSI {
		add(types.Short, "rsi_turn", wRSIDeep)
	}

	// 3. MACD histogram: sign, fresh zero-crossing, slope.
	if cur.MACDHist > 0 {
		add(types.Long, "macd_positive", wMACDSign)
		if prev.MACDHist <= 0 {
			add(types.Long, "macd_cross", wMACDCross)
		} else if cur.MACDHist > prev.MACDHist {
			add(types.Long, "macd_rising", wMACDSlope)
		}
	}
	if cur.MACDHist < 0 {
		add(types.Short, "macd_negative", wMACDSign)
		if prev.MACDHist >= 0 {
			add(types.Short, "macd_cross", wMACDCross)
		} else if cur.MACDHist < prev.MACDHist {
			add(types.Short, "macd_falling", wMACDSlope)
		}
	}

	// 4. Stochastic crossover, weighted by zone.
	if cur.StochK > cur.StochD && prev.StochK <= prev.StochD {
		if cur.StochK < stochLowZone {
			add(types.Long, "stoch_cross_oversold", wStochExtreme)
		} else if cur.StochK < stochMidline {
			add(types.Long, "stoch_cross", wStochMild)
		}
	}
	if cur.StochK < cur.StochD && prev.StochK >= prev.StochD {
		if cur.StochK > stochHighZone {
			add(types.Short, "stoch_cross_overbought", wStochExtreme)
		} else if cur.StochK > stochMidline {
			add(types.Short, "stoch_cross", wStochMild)
		}
	}

	// 5. Bollinger band bounce off the outer third while reversing.
	if cur.BBPosition < bbLowerThird && cur.BBPosition > prev.BBPosition {
		add(types.Long, "bb_bounce", wBBBounce)
	}
	if cur.BBPosition > bbUpperThird && cur.BBPosition < prev.BBPosition {
		add(types.Short, "bb_bounce", wBBBounce)
	}

	// 6. Trend-strength bonus, split by trend direction.
	if cur.ADX > adxStrong {
		if trendUp {
			add(types.Long, "adx_bonus", wADXBonus)
		} else {
			add(types.Short, "adx_bonus", wADXBonus)
		}
	}

	// 7. Volume confirmation, only when the feed carries volume.
	if !math.IsNaN(cur.VolumeRatio) && cur.VolumeRatio > volumeConfirm {
		if bar.Close > bar.Open {
			add(types.Long, "volume_confirm", wVolume)
		} else if bar.Close < bar.Open {
			add(types.Short, "volume_confirm", wVolume)
		}
	}

	// Decision: minimum score, margin over the opposing side, and the
	// oscillator not already exhausted in the chosen direction.
	longOK := sig.BuyScore >= p.MinScore && sig.BuyScore > sig.SellScore+p.Margin && cur.RSI < p.RSIOverbought
	shortOK := sig.SellScore >= p.MinScore && sig.SellScore > sig.BuyScore+p.Margin && cur.RSI > p.RSIOversold

	if p.TrendFilter {
		longOK = longOK && trendUp
		shortOK = shortOK && !trendUp
	}

	switch {
	case longOK:
		sig.Direction = types.Long
	case shortOK:
		sig.Direction = types.Short
	}
	return sig
}
