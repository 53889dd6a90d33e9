// Package executor places orders. SimExecutor is the paper-trading
// implementation; BridgeExecutor forwards orders to an MT5 bridge over
// HTTP.
package executor

import (
	"context"
	"fmt"
	"sync/atomic"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

// SimExecutor accepts every order without touching a broker. Used in
// paper mode and in tests.
type SimExecutor struct {
	seq atomic.Int64
}

func NewSimExecutor() *SimExecutor {
	return &SimExecutor{}
}

func (e *SimExecutor) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	id := e.seq.Add(1)
	logger.Info(ctx, "Simulated order accepted",
		"symbol", req.Symbol,
		"direction", req.Direction,
		"entry", req.Entry,
		"sl", req.StopLoss,
		"tp", req.TakeProfit,
		"lot", req.LotSize,
	)
	return types.OrderResp{
		OrderID: fmt.Sprintf("sim-%d", id),
		Status:  "FILLED",
	}, nil
}
