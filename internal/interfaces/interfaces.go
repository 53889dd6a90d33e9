// Package interfaces declares the seams between the core and its external
// collaborators. Every implementation lives in its own package; middleware
// wrappers implement the same interfaces.
package interfaces

import (
	"context"

	"fx-signal-bot/internal/types"
)

// BarSource delivers ordered historical bars for a symbol, most recent
// last. Implementations own their own timeout policy.
type BarSource interface {
	RecentBars(ctx context.Context, symbol string, n int) ([]types.Bar, error)
}

// IndicatorProvider augments a bar series with per-bar indicator
// snapshots. Output is aligned with the input; warm-up positions are NaN.
type IndicatorProvider interface {
	Compute(bars []types.Bar) ([]types.Indicators, error)
}

// Advisor is the external approval gate consulted before a trade may be
// opened live. Reasoning is opaque audit text for notifications only; the
// approved flag is the sole gating input.
type Advisor interface {
	Review(ctx context.Context, symbol string, sig types.Signal, params types.TradeParams) (approved bool, reasoning string, err error)
}

// Notifier receives fire-and-forget trade events. Errors are logged by
// callers and never affect trade state.
type Notifier interface {
	SignalRaised(ctx context.Context, params types.TradeParams, sig types.Signal, reasoning string) error
	StopTrailed(ctx context.Context, trade types.Trade, oldStop, closePrice float64) error
	TradeClosed(ctx context.Context, trade types.Trade) error
}

// Executor places orders with an external brokerage. A trade is tracked
// as open only after PlaceOrder reports success.
type Executor interface {
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}

// Engine runs one evaluation pass for one symbol.
type Engine interface {
	Step(ctx context.Context, symbol string) (*types.StepResult, error)
}
