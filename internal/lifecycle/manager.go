package lifecycle

import (
	"context"
	"fmt"

	"fx-signal-bot/internal/interfaces"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/statestore"
	"fx-signal-bot/internal/types"
)

// Manager owns the set of open trades in live operation. Every
// state-changing operation mutates in memory, persists the full document,
// and only then emits notifications, so a notifier failure can never
// corrupt or roll back trade state.
type Manager struct {
	store    *statestore.Store
	notifier interfaces.Notifier
	doc      *statestore.Document
}

// NewManager loads persisted state and returns a manager over it.
func NewManager(ctx context.Context, store *statestore.Store, notifier interfaces.Notifier) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		doc:      store.Load(ctx),
	}
}

// HasOpen reports whether any open trade exists for the symbol.
func (m *Manager) HasOpen(symbol string) bool {
	for _, t := range m.doc.ActiveTrades {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

// OpenTrades returns the open trades for a symbol.
func (m *Manager) OpenTrades(symbol string) []*types.Trade {
	var out []*types.Trade
	for _, t := range m.doc.ActiveTrades {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out
}

// OpenCount returns the number of tracked open trades.
func (m *Manager) OpenCount() int { return len(m.doc.ActiveTrades) }

// History returns the retained closed-trade tail.
func (m *Manager) History() []*types.Trade { return m.doc.History }

// Open records a new trade seeded from approved parameters. Identity is
// keyed by symbol and open timestamp; a second open for the same symbol
// gets its own identity and never overwrites an existing trade. An exact
// identity collision is rejected rather than silently replaced.
func (m *Manager) Open(ctx context.Context, params types.TradeParams, ts int64) (*types.Trade, error) {
	t := NewTrade(params, ts)
	if _, exists := m.doc.ActiveTrades[t.ID]; exists {
		return nil, fmt.Errorf("lifecycle: trade %s already tracked", t.ID)
	}
	m.doc.ActiveTrades[t.ID] = t
	if err := m.store.Save(ctx, m.doc); err != nil {
		// The trade stays tracked in memory; persistence is retried on the
		// next state change.
		logger.ErrorWithErr(ctx, "Failed to persist trade open", err, "trade_id", t.ID)
	}
	logger.Trade(ctx, t.Symbol, "OPENED", t.ID,
		"direction", string(t.Direction),
		"entry", t.EntryPrice,
		"stop", t.OriginalStop,
		"take_profit", t.TakeProfit,
		"lot_size", t.LotSize,
		"risk_distance", t.RiskDistance,
		"breakeven_trigger", t.BreakevenTrigger,
	)
	return t, nil
}

// OnBar advances every open trade for the symbol through one bar and
// returns the trades that closed. Transitions are persisted before the
// side-channel notifications fire; notification failures are logged and
// dropped.
func (m *Manager) OnBar(ctx context.Context, symbol string, bar types.Bar) []*types.Trade {
	var closedTrades []*types.Trade

	for id, t := range m.doc.ActiveTrades {
		if t.Symbol != symbol {
			continue
		}

		trailed, oldStop, closed := Advance(t, bar)

		if trailed {
			if err := m.store.Save(ctx, m.doc); err != nil {
				logger.ErrorWithErr(ctx, "Failed to persist stop move", err, "trade_id", id)
			}
			logger.Trade(ctx, symbol, "STOP_TRAILED", id,
				"old_stop", oldStop,
				"new_stop", t.CurrentStop,
				"breakeven_trigger", t.BreakevenTrigger,
			)
			if err := m.notifier.StopTrailed(ctx, *t, oldStop, bar.Close); err != nil {
				logger.Warn(ctx, "Stop-trailed notification failed", "trade_id", id, "error", err)
			}
		}

		if closed {
			delete(m.doc.ActiveTrades, id)
			m.doc.History = append(m.doc.History, t)
			if err := m.store.Save(ctx, m.doc); err != nil {
				logger.ErrorWithErr(ctx, "Failed to persist trade close", err, "trade_id", id)
			}
			logger.Trade(ctx, symbol, "CLOSED", id,
				"state", string(t.State),
				"exit", t.ExitPrice,
				"exit_reason", string(t.ExitReason),
				"pnl", t.PnL,
				"stop_at_breakeven", t.StopAtBreakeven,
			)
			if err := m.notifier.TradeClosed(ctx, *t); err != nil {
				logger.Warn(ctx, "Trade-closed notification failed", "trade_id", id, "error", err)
			}
			closedTrades = append(closedTrades, t)
		}
	}
	return closedTrades
}
