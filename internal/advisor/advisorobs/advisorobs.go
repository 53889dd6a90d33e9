package advisorobs

import (
	"context"

	"fx-signal-bot/internal/interfaces"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/trace"
	"fx-signal-bot/internal/types"
)

// observableAdvisor wraps an Advisor with observability (logging & tracing)
type observableAdvisor struct {
	advisor interfaces.Advisor
}

// Compile-time interface check
var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: advisor,
	}
}

// Review requests a trade review with observability
func (oa *observableAdvisor) Review(
	ctx context.Context,
	symbol string,
	sig types.Signal,
	params types.TradeParams,
) (bool, string, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Review")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting trade review",
		"symbol", symbol,
		"direction", sig.Direction,
		"score", sig.Score(),
	)

	approved, reasoning, err := oa.advisor.Review(ctx, symbol, sig, params)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get trade review", err,
			"symbol", symbol,
			"direction", sig.Direction,
		)
		return false, "", err
	}

	logger.InfoSkip(ctx, 1, "Trade review received",
		"symbol", symbol,
		"approved", approved,
		"reasoning", reasoning,
	)

	return approved, reasoning, nil
}
