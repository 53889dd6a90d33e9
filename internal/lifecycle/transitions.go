// Package lifecycle owns the trade state machine: arming, the one-way
// breakeven move, and stop/target resolution. The transition rules live in
// one place and are shared by the live manager and the backtest simulator,
// so the simulator reproduces live behavior exactly.
package lifecycle

import (
	"fmt"
	"math"
	"time"

	"fx-signal-bot/internal/types"
)

const (
	// The breakeven move fires when price travels this many risk units in
	// the trade's favor, and parks the stop this far past entry.
	breakevenTriggerR = 1.5
	breakevenLockR    = 0.2

	// A losing close within this fraction of the risk amount is classified
	// BREAKEVEN rather than LOSS.
	breakevenNoiseR = 0.1
)

// NewTrade seeds a Trade from derived parameters. Identity is the symbol
// plus the open timestamp, so two trades on one symbol never collide.
func NewTrade(params types.TradeParams, ts int64) *types.Trade {
	riskDist := math.Abs(params.Entry - params.StopLoss)
	trigger := params.Entry + breakevenTriggerR*riskDist
	if params.Direction == types.Short {
		trigger = params.Entry - breakevenTriggerR*riskDist
	}
	return &types.Trade{
		ID:               fmt.Sprintf("%s_%s", params.Symbol, time.Unix(ts, 0).UTC().Format("20060102_150405")),
		Symbol:           params.Symbol,
		Direction:        params.Direction,
		State:            types.StateArmed,
		EntryPrice:       params.Entry,
		EntryTs:          ts,
		OriginalStop:     params.StopLoss,
		CurrentStop:      params.StopLoss,
		TakeProfit:       params.TakeProfit,
		LotSize:          params.LotSize,
		RiskAmount:       params.RiskAmount,
		RiskDistance:     riskDist,
		BreakevenTrigger: trigger,
	}
}

// Advance applies one bar to an open trade, mutating it in place.
//
// Order of checks within the bar is deliberate and conservative: the
// breakeven move is considered first, then the stop, then the target. A
// bar whose range contains both the current stop and the take-profit
// always resolves as a stop hit. That tie-break is a modeling assumption
// about intrabar path, not a guaranteed property of real execution.
func Advance(t *types.Trade, bar types.Bar) (trailed bool, oldStop float64, closed bool) {
	if !t.State.Open() {
		return false, 0, false
	}
	long := t.Direction == types.Long

	// One-way arming: once trailed, never reverts.
	if t.State == types.StateArmed {
		reached := (long && bar.High >= t.BreakevenTrigger) ||
			(!long && bar.Low <= t.BreakevenTrigger)
		if reached {
			newStop := t.EntryPrice + breakevenLockR*t.RiskDistance
			if !long {
				newStop = t.EntryPrice - breakevenLockR*t.RiskDistance
			}
			improves := (long && newStop > t.CurrentStop) || (!long && newStop < t.CurrentStop)
			if improves {
				oldStop = t.CurrentStop
				t.CurrentStop = newStop
				t.StopAtBreakeven = true
				t.State = types.StateTrailed
				t.StopUpdates = append(t.StopUpdates, types.StopUpdate{
					Ts:      bar.Ts,
					OldStop: oldStop,
					NewStop: newStop,
					Reason:  "breakeven move (1.5x risk reached)",
				})
				trailed = true
			}
		}
	}

	// Stop before target, same bar.
	stopHit := (long && bar.Low <= t.CurrentStop) || (!long && bar.High >= t.CurrentStop)
	targetHit := (long && bar.High >= t.TakeProfit) || (!long && bar.Low <= t.TakeProfit)
	switch {
	case stopHit:
		closeTrade(t, t.CurrentStop, types.ExitStopHit, bar.Ts)
		closed = true
	case targetHit:
		closeTrade(t, t.TakeProfit, types.ExitTargetHit, bar.Ts)
		closed = true
	}
	return trailed, oldStop, closed
}

// closeTrade finalizes a trade at the given exit level and classifies the
// result. P/L is the exit distance expressed in risk units, scaled by the
// per-trade risk amount.
func closeTrade(t *types.Trade, exit float64, reason types.ExitReason, ts int64) {
	pnlRatio := (exit - t.EntryPrice) / t.RiskDistance
	if t.Direction == types.Short {
		pnlRatio = (t.EntryPrice - exit) / t.RiskDistance
	}
	pnl := pnlRatio * t.RiskAmount

	t.ExitPrice = exit
	t.ExitTs = ts
	t.ExitReason = reason
	t.PnL = pnl

	noise := breakevenNoiseR * t.RiskAmount
	switch {
	case pnl > 0:
		t.State = types.StateWin
	case pnl < -noise:
		t.State = types.StateLoss
	default:
		t.State = types.StateBreakeven
	}
}
