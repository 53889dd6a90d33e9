// Package risk derives the tradable parameters for an approved signal:
// stop, target, entry band and position size under a fixed risk budget.
package risk

import (
	"errors"
	"math"
	"strings"

	"fx-signal-bot/internal/types"
)

// ErrDegenerateStop is returned when the stop distance collapses to zero;
// no trade can be sized against it.
var ErrDegenerateStop = errors.New("risk: degenerate stop distance")

// Stop-width tiers keyed by trend strength: a strong trend gets room to
// breathe, a weak one gets a tight leash.
const (
	adxTierStrong   = 35.0
	adxTierModerate = 25.0

	atrMultStrong   = 2.0
	atrMultModerate = 1.5
	atrMultWeak     = 1.2

	// Acceptable slippage around the trigger close for a near-market order.
	entryBufferFrac = 0.0003
)

// SymbolSpec describes the contract geometry of one tradable symbol.
type SymbolSpec struct {
	ContractMultiplier float64 `yaml:"contract_multiplier"`
	MinLot             float64 `yaml:"min_lot"`
	LotStep            float64 `yaml:"lot_step"`
}

// SpecFor returns the contract spec for a symbol by asset class:
// metals trade in 100oz lots, forex in 100k-unit lots, crypto unit-for-unit.
func SpecFor(symbol string) SymbolSpec {
	s := strings.ToUpper(symbol)
	switch {
	case strings.Contains(s, "XAU") || strings.Contains(s, "GOLD"):
		return SymbolSpec{ContractMultiplier: 100, MinLot: 0.01, LotStep: 0.01}
	case strings.Contains(s, "BTC") || strings.Contains(s, "ETH"):
		return SymbolSpec{ContractMultiplier: 1, MinLot: 0.001, LotStep: 0.001}
	default:
		// Forex pairs: one standard lot is 100,000 units of base currency.
		return SymbolSpec{ContractMultiplier: 100000, MinLot: 0.01, LotStep: 0.01}
	}
}

// Calculator sizes trades against a fixed per-trade risk budget.
type Calculator struct {
	riskAmount float64
	riskReward float64
	specs      map[string]SymbolSpec
}

// NewCalculator returns a calculator with the given risk budget (account
// currency per trade) and reward:risk target. Per-symbol spec overrides
// take precedence over the asset-class defaults.
func NewCalculator(riskAmount, riskReward float64, overrides map[string]SymbolSpec) *Calculator {
	return &Calculator{riskAmount: riskAmount, riskReward: riskReward, specs: overrides}
}

func (c *Calculator) spec(symbol string) SymbolSpec {
	if sp, ok := c.specs[symbol]; ok {
		return sp
	}
	return SpecFor(symbol)
}

// StopMultiplier returns the volatility multiple for the given trend
// strength.
func StopMultiplier(adx float64) float64 {
	switch {
	case adx > adxTierStrong:
		return atrMultStrong
	case adx > adxTierModerate:
		return atrMultModerate
	default:
		return atrMultWeak
	}
}

// Derive computes the full parameter set for a directional signal off its
// triggering bar. The indicator snapshot is embedded in the result so the
// decision context survives into notifications and the audit trail.
func (c *Calculator) Derive(symbol string, dir types.Direction, bar types.Bar, inds types.Indicators) (types.TradeParams, error) {
	price := bar.Close
	mult := StopMultiplier(inds.ADX)

	var stop float64
	if dir == types.Long {
		stop = bar.Low - mult*inds.ATR
	} else {
		stop = bar.High + mult*inds.ATR
	}

	dist := math.Abs(price - stop)
	if dist == 0 || math.IsNaN(dist) {
		return types.TradeParams{}, ErrDegenerateStop
	}

	var tp float64
	if dir == types.Long {
		tp = price + c.riskReward*dist
	} else {
		tp = price - c.riskReward*dist
	}

	buffer := price * entryBufferFrac
	sp := c.spec(symbol)
	lot := c.lotSize(sp, dist)

	return types.TradeParams{
		Symbol:          symbol,
		Direction:       dir,
		Entry:           price,
		EntryMin:        price - buffer,
		EntryMax:        price + buffer,
		StopLoss:        stop,
		TakeProfit:      tp,
		LotSize:         lot,
		RiskAmount:      c.riskAmount,
		PotentialProfit: round2(lot * sp.ContractMultiplier * math.Abs(tp-price)),
		ATRMultiplier:   mult,
		Snapshot:        inds,
	}, nil
}

// lotSize converts the risk budget into a position size: budget divided by
// the per-lot loss at the stop, snapped to the lot step, never below the
// minimum tradable size.
func (c *Calculator) lotSize(sp SymbolSpec, stopDist float64) float64 {
	lot := c.riskAmount / (sp.ContractMultiplier * stopDist)
	lot = math.Round(lot/sp.LotStep) * sp.LotStep
	if lot < sp.MinLot {
		lot = sp.MinLot
	}
	return lot
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
