// Package engine runs the per-symbol evaluation pass: manage open trades
// against the newest bar, score the fresh indicator state, derive trade
// parameters, pass the advisor gate and hand approved trades to the
// lifecycle manager.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fx-signal-bot/internal/interfaces"
	"fx-signal-bot/internal/journal"
	"fx-signal-bot/internal/lifecycle"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/risk"
	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/store"
	"fx-signal-bot/internal/types"
)

type Engine struct {
	cfg       *store.Config
	bars      interfaces.BarSource
	inds      interfaces.IndicatorProvider
	scorer    *scorer.Scorer
	calc      *risk.Calculator
	advisor   interfaces.Advisor
	notifier  interfaces.Notifier
	executor  interfaces.Executor
	lifecycle *lifecycle.Manager

	// lastSignalTs tracks the most recent signal per symbol for cooldown.
	lastSignalTs map[string]time.Time
}

func New(
	cfg *store.Config,
	bars interfaces.BarSource,
	inds interfaces.IndicatorProvider,
	sc *scorer.Scorer,
	calc *risk.Calculator,
	advisor interfaces.Advisor,
	notifier interfaces.Notifier,
	executor interfaces.Executor,
	lm *lifecycle.Manager,
) *Engine {
	return &Engine{
		cfg:          cfg,
		bars:         bars,
		inds:         inds,
		scorer:       sc,
		calc:         calc,
		advisor:      advisor,
		notifier:     notifier,
		executor:     executor,
		lifecycle:    lm,
		lastSignalTs: map[string]time.Time{},
	}
}

func (e *Engine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	logger.Debug(ctx, "Starting evaluation step", "symbol", symbol)

	bars, err := e.bars.RecentBars(ctx, symbol, e.cfg.Lookback)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch bars", err, "symbol", symbol)
		return nil, err
	}
	if len(bars) < e.cfg.Lookback {
		err := errors.New("not enough bars")
		logger.Error(ctx, "Insufficient bar data", "symbol", symbol, "received", len(bars), "required", e.cfg.Lookback)
		return nil, err
	}

	latest := bars[len(bars)-1]
	result := &types.StepResult{Symbol: symbol, Price: latest.Close, Ts: latest.Ts}

	indSeries, err := e.inds.Compute(bars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to compute indicators", err, "symbol", symbol)
		return nil, err
	}

	// Manage open trades first so a stop hit on this bar is handled
	// before any new signal is considered.
	closed := e.lifecycle.OnBar(ctx, symbol, latest)
	for _, t := range closed {
		_ = journal.AppendTrade("CLOSED", *t)
	}

	if !e.marketOpen(latest.Ts) {
		result.Reason = "market closed"
		logger.Debug(ctx, "Market closed, skipping evaluation", "symbol", symbol)
		return result, nil
	}

	sig := e.scorer.Evaluate(bars, indSeries)
	result.Signal = sig
	if !sig.Active() {
		result.Reason = "no signal"
		return result, nil
	}

	logger.Signal(ctx, symbol, string(sig.Direction), sig.BuyScore, sig.SellScore,
		"price", latest.Close,
		"reasons", len(sig.Reasons),
	)

	if e.lifecycle.HasOpen(symbol) {
		result.Reason = "trade already open"
		logger.Info(ctx, "Signal ignored, trade already open", "symbol", symbol, "direction", sig.Direction)
		return result, nil
	}
	if last, ok := e.lastSignalTs[symbol]; ok {
		cooldown := time.Duration(e.cfg.Risk.CooldownMinutes) * time.Minute
		if elapsed := time.Unix(latest.Ts, 0).Sub(last); elapsed < cooldown {
			result.Reason = fmt.Sprintf("cooldown (%s remaining)", (cooldown - elapsed).Round(time.Second))
			logger.Info(ctx, "Signal ignored, cooldown active", "symbol", symbol, "elapsed", elapsed)
			return result, nil
		}
	}

	curInds := indSeries[len(indSeries)-1]
	params, err := e.calc.Derive(symbol, sig.Direction, latest, curInds)
	if err != nil {
		if errors.Is(err, risk.ErrDegenerateStop) {
			result.Reason = "degenerate stop distance"
			logger.Warn(ctx, "Signal dropped, degenerate stop", "symbol", symbol, "atr", curInds.ATR)
			return result, nil
		}
		return nil, err
	}
	params.RiskAmount = e.cfg.Risk.AmountUSD
	result.Params = &params

	approved, reasoning, err := e.advisor.Review(ctx, symbol, sig, params)
	if err != nil {
		// Advisor failure rejects the trade but never aborts the step.
		logger.ErrorWithErr(ctx, "Advisor review failed, trade rejected", err, "symbol", symbol)
		approved, reasoning = false, "advisor error: "+err.Error()
	}
	_ = journal.AppendSignal(journal.SignalEntry{
		Symbol:    symbol,
		Direction: sig.Direction,
		BuyScore:  sig.BuyScore,
		SellScore: sig.SellScore,
		Price:     latest.Close,
		Approved:  approved,
		Reasoning: reasoning,
		Reasons:   sig.Reasons,
	})
	e.lastSignalTs[symbol] = time.Unix(latest.Ts, 0)

	if !approved {
		result.Reason = "rejected by advisor"
		logger.Info(ctx, "Trade rejected by advisor", "symbol", symbol, "reasoning", reasoning)
		return result, nil
	}

	resp, err := e.executor.PlaceOrder(ctx, types.OrderReq{
		Symbol:     symbol,
		Direction:  sig.Direction,
		Entry:      params.Entry,
		StopLoss:   params.StopLoss,
		TakeProfit: params.TakeProfit,
		LotSize:    params.LotSize,
		Tag:        "SIGNAL",
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err, "symbol", symbol)
		result.Reason = "order failed: " + err.Error()
		return result, nil
	}
	result.Orders = append(result.Orders, resp)

	trade, err := e.lifecycle.Open(ctx, params, latest.Ts)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to track trade", err, "symbol", symbol)
		result.Reason = "tracking failed: " + err.Error()
		return result, nil
	}
	_ = journal.AppendTrade("OPENED", *trade)

	if err := e.notifier.SignalRaised(ctx, params, sig, reasoning); err != nil {
		logger.Warn(ctx, "Signal notification failed", "symbol", symbol, "error", err)
	}

	result.Reason = "trade opened"
	logger.Debug(ctx, "Evaluation step completed", "symbol", symbol, "trade_id", trade.ID)
	return result, nil
}

// marketOpen applies the configured trading window to the bar timestamp.
func (e *Engine) marketOpen(ts int64) bool {
	mh := e.cfg.MarketHours
	if !mh.Enabled {
		return true
	}
	t := time.Unix(ts, 0).UTC()
	if !mh.AllowWeekends {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	h := t.Hour()
	return h >= mh.OpenHour && h < mh.CloseHour
}
