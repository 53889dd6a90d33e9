// Package notify delivers trade event alerts. The Telegram notifier mirrors
// the alerts a manual trader acts on: new signals with copyable levels,
// stop moves that must be mirrored at the broker, and close summaries.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/types"
)

const pipFactor = 10000

// TelegramNotifier sends alerts via the Telegram Bot API using HTML parse
// mode. When Telegram rejects the HTML payload it retries once with the
// tags stripped.
type TelegramNotifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegramNotifier creates a Telegram notifier.
// botToken: Bot API token from @BotFather
// chatID: Target chat/group/channel ID
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (t *TelegramNotifier) SignalRaised(ctx context.Context, params types.TradeParams, sig types.Signal, reasoning string) error {
	emoji := "🟢"
	action := "BUY"
	if params.Direction == types.Short {
		emoji = "🔴"
		action = "SELL"
	}

	slPips := math.Abs(params.Entry-params.StopLoss) * pipFactor
	tpPips := math.Abs(params.Entry-params.TakeProfit) * pipFactor

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s %s</b> %s\n\n", emoji, action, params.Symbol, emoji)
	sb.WriteString("📍 <b>COPY THESE VALUES:</b>\n\n")
	fmt.Fprintf(&sb, "Entry: <code>%.5f</code>\n", params.Entry)
	fmt.Fprintf(&sb, "SL: <code>%.5f</code> - %.0f pips\n", params.StopLoss, slPips)
	fmt.Fprintf(&sb, "TP: <code>%.5f</code> - %.0f pips\n", params.TakeProfit, tpPips)
	fmt.Fprintf(&sb, "Lot: <code>%.2f</code>\n\n", params.LotSize)
	fmt.Fprintf(&sb, "💰 Risk: $%.0f | Reward: $%.0f\n", params.RiskAmount, params.PotentialProfit)
	fmt.Fprintf(&sb, "📊 Score: %.1f\n", sig.Score())
	fmt.Fprintf(&sb, "📈 ADX: %.0f | RSI: %.0f\n\n", params.Snapshot.ADX, params.Snapshot.RSI)
	fmt.Fprintf(&sb, "🤖 <b>AI:</b> %s", sanitizeHTML(reasoning))

	return t.send(ctx, sb.String())
}

func (t *TelegramNotifier) StopTrailed(ctx context.Context, trade types.Trade, oldStop, closePrice float64) error {
	emoji := "🟢"
	if trade.Direction == types.Short {
		emoji = "🔴"
	}

	var lockedPips float64
	if trade.Direction == types.Long {
		lockedPips = (trade.CurrentStop - trade.EntryPrice) * pipFactor
	} else {
		lockedPips = (trade.EntryPrice - trade.CurrentStop) * pipFactor
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔄 <b>TRAILING STOP UPDATE: %s</b>\n\n", trade.Symbol)
	sb.WriteString("⚡ <b>ACTION REQUIRED:</b>\nUpdate your Stop Loss in your broker NOW!\n\n")
	fmt.Fprintf(&sb, "%s <b>Trade:</b> %s\n", emoji, trade.Direction)
	fmt.Fprintf(&sb, "Entry: %.5f\nCurrent: %.5f\n\n", trade.EntryPrice, closePrice)
	sb.WriteString("🛡️ <b>Stop Loss Change:</b>\n")
	fmt.Fprintf(&sb, "OLD SL: <code>%.5f</code> ❌\n", oldStop)
	fmt.Fprintf(&sb, "NEW SL: <code>%.5f</code> ✅\n", trade.CurrentStop)
	fmt.Fprintf(&sb, "Profit Locked: %.1f pips\n\n", lockedPips)
	sb.WriteString("💰 Trade is now RISK-FREE!")

	return t.send(ctx, sb.String())
}

func (t *TelegramNotifier) TradeClosed(ctx context.Context, trade types.Trade) error {
	var emoji, result string
	switch trade.State {
	case types.StateWin:
		emoji, result = "✅", "WIN"
	case types.StateLoss:
		emoji, result = "❌", "LOSS"
	default:
		emoji, result = "⚖️", "BREAKEVEN"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>TRADE CLOSED: %s</b>\n\n", emoji, trade.Symbol)
	fmt.Fprintf(&sb, "📊 <b>Result:</b> %s\n\n", result)
	sb.WriteString("💵 <b>Trade Details:</b>\n")
	fmt.Fprintf(&sb, "Type: %s\n", trade.Direction)
	fmt.Fprintf(&sb, "Entry: %.5f\nExit: %.5f\n", trade.EntryPrice, trade.ExitPrice)
	fmt.Fprintf(&sb, "Reason: %s\n\n", trade.ExitReason)
	fmt.Fprintf(&sb, "💰 <b>P/L:</b> $%+.2f", trade.PnL)

	return t.send(ctx, sb.String())
}

func (t *TelegramNotifier) send(ctx context.Context, text string) error {
	if err := t.post(ctx, text, "HTML"); err != nil {
		// Retry once without formatting in case the HTML was rejected.
		logger.Warn(ctx, "Telegram HTML send failed, retrying plain", "error", err)
		return t.post(ctx, stripTags(text), "")
	}
	return nil
}

func (t *TelegramNotifier) post(ctx context.Context, text, parseMode string) error {
	payload := map[string]any{
		"chat_id": t.chatID,
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// sanitizeHTML removes characters that would break Telegram's HTML parse
// mode from free-form advisor text.
func sanitizeHTML(s string) string {
	if len(s) > 200 {
		s = s[:200]
	}
	r := strings.NewReplacer("<", "", ">", "", "&", "and")
	return r.Replace(s)
}

func stripTags(s string) string {
	r := strings.NewReplacer("<b>", "", "</b>", "", "<code>", "", "</code>", "")
	return r.Replace(s)
}
