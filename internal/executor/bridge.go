package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fx-signal-bot/internal/types"
)

// BridgeExecutor posts orders to an MT5 bridge endpoint. The bridge is a
// thin HTTP shim running next to the terminal; it fills pending orders at
// the requested levels and reports back a ticket ID.
type BridgeExecutor struct {
	baseURL string
	client  *http.Client
}

func NewBridgeExecutor(baseURL string, timeout time.Duration) *BridgeExecutor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &BridgeExecutor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *BridgeExecutor) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	payload := map[string]any{
		"symbol":    req.Symbol,
		"direction": req.Direction,
		"entry":     req.Entry,
		"sl":        req.StopLoss,
		"tp":        req.TakeProfit,
		"lot":       req.LotSize,
		"tag":       req.Tag,
	}
	bb, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/order", bytes.NewReader(bb))
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("bridge: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("bridge: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.OrderResp{}, fmt.Errorf("bridge: http %d", resp.StatusCode)
	}

	var out types.OrderResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.OrderResp{}, fmt.Errorf("bridge: decode response: %w", err)
	}
	if out.Status == "" {
		out.Status = "ACCEPTED"
	}
	return out, nil
}
