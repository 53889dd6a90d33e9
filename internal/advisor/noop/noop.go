package noop

import (
	"context"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

// NoopAdvisor is the fallback advisor used when no external review model
// is configured. It approves everything so the scorer remains the only
// gate.
type NoopAdvisor struct{}

// NewNoopAdvisor returns a new instance that always approves.
func NewNoopAdvisor() *NoopAdvisor {
	return &NoopAdvisor{}
}

// Review implements the Advisor interface. It always approves.
func (a *NoopAdvisor) Review(ctx context.Context, symbol string, _ types.Signal, _ types.TradeParams) (bool, string, error) {
	logger.Debug(ctx, "Noop advisor called - always approves", "symbol", symbol)
	return true, "review skipped (no advisor configured)", nil
}
