package notify

import (
	"context"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

// LogNotifier writes alerts to the structured log only. It is the
// fallback when Telegram credentials are not configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SignalRaised(ctx context.Context, params types.TradeParams, sig types.Signal, reasoning string) error {
	logger.Info(ctx, "ALERT signal",
		"symbol", params.Symbol,
		"direction", params.Direction,
		"entry", params.Entry,
		"sl", params.StopLoss,
		"tp", params.TakeProfit,
		"lot", params.LotSize,
		"score", sig.Score(),
		"reasoning", reasoning,
	)
	return nil
}

func (n *LogNotifier) StopTrailed(ctx context.Context, trade types.Trade, oldStop, closePrice float64) error {
	logger.Info(ctx, "ALERT trailing stop",
		"symbol", trade.Symbol,
		"trade_id", trade.ID,
		"old_sl", oldStop,
		"new_sl", trade.CurrentStop,
		"price", closePrice,
	)
	return nil
}

func (n *LogNotifier) TradeClosed(ctx context.Context, trade types.Trade) error {
	logger.Info(ctx, "ALERT trade closed",
		"symbol", trade.Symbol,
		"trade_id", trade.ID,
		"state", trade.State,
		"exit", trade.ExitPrice,
		"reason", trade.ExitReason,
		"pnl", trade.PnL,
	)
	return nil
}
