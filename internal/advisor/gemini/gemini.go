// Package gemini reviews trade proposals with the Gemini generateContent
// API. The model is asked for a strict JSON verdict; anything that cannot
// be parsed as an approval is treated as a rejection.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"fx-signal-bot/internal/trace"
	"fx-signal-bot/internal/types"
)

const defaultModel = "gemini-2.0-flash"

// Config holds the advisor settings from the bot config.
type Config struct {
	Model   string
	Timeout time.Duration
}

type Advisor struct {
	cfg    Config
	client *http.Client
}

func NewAdvisor(cfg Config) *Advisor {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Advisor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (a *Advisor) Review(ctx context.Context, symbol string, sig types.Signal, params types.TradeParams) (bool, string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return false, "", errors.New("GEMINI_API_KEY missing")
	}

	prompt := buildPrompt(symbol, sig, params)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"response_mime_type": "application/json",
		},
	}
	bb, _ := json.Marshal(body)

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", a.cfg.Model)
	req, _ := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bb))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return false, "", fmt.Errorf("gemini http %d", resp.StatusCode)
	}

	var r struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return false, "", err
	}
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return false, "", errors.New("no candidates")
	}

	out := strings.TrimSpace(r.Candidates[0].Content.Parts[0].Text)

	var verdict struct {
		Approved  bool   `json:"approved"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(out), &verdict); err != nil {
		return false, "invalid verdict JSON", nil
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = "no reasoning provided"
	}
	return verdict.Approved, verdict.Reasoning, nil
}

func buildPrompt(symbol string, sig types.Signal, params types.TradeParams) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a professional risk manager reviewing a technical signal for %s.\n\n", symbol)
	fmt.Fprintf(&sb, "Signal: %s (buy score %.1f, sell score %.1f)\n", sig.Direction, sig.BuyScore, sig.SellScore)
	fmt.Fprintf(&sb, "Current Price: %.5f\n", params.Entry)
	fmt.Fprintf(&sb, "RSI (14): %.2f\n", params.Snapshot.RSI)
	fmt.Fprintf(&sb, "EMA (200): %.5f\n", params.Snapshot.EMA200)
	fmt.Fprintf(&sb, "ATR (14): %.5f\n\n", params.Snapshot.ATR)
	fmt.Fprintf(&sb, "Proposed Trade:\nEntry Zone: %.5f - %.5f\nStop Loss: %.5f\nTake Profit: %.5f\n\n",
		params.EntryMin, params.EntryMax, params.StopLoss, params.TakeProfit)
	for _, reason := range sig.Reasons {
		fmt.Fprintf(&sb, "- %s (%s %+.1f)\n", reason.Name, reason.Side, reason.Points)
	}
	sb.WriteString("\nDecide if this is a high-probability setup. Reply ONLY with a JSON object: " +
		`{"approved": true/false, "reasoning": "concise reason, max 2 sentences"}`)
	return sb.String()
}
