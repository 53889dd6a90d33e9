package types

import "math"

// Direction of a trade or signal.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Bar is one OHLCV sample. Timestamps are unix seconds and strictly
// increasing within a series.
type Bar struct {
	Ts     int64   `json:"ts"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Indicators is the per-bar snapshot produced by the indicator provider.
// A NaN field means the indicator is still inside its warm-up window and
// the bar cannot be evaluated.
type Indicators struct {
	EMA20       float64 `json:"ema20"`
	EMA50       float64 `json:"ema50"`
	EMA200      float64 `json:"ema200"`
	RSI         float64 `json:"rsi"`
	MACDHist    float64 `json:"macd_hist"`
	ADX         float64 `json:"adx"`
	StochK      float64 `json:"stoch_k"`
	StochD      float64 `json:"stoch_d"`
	BBPosition  float64 `json:"bb_position"`
	ATR         float64 `json:"atr"`
	VolumeRatio float64 `json:"volume_ratio"`
}

// Defined reports whether every indicator the scorer requires has a value.
// VolumeRatio is optional: forex feeds often carry no volume.
func (in Indicators) Defined() bool {
	for _, v := range []float64{
		in.EMA20, in.EMA50, in.EMA200, in.RSI, in.MACDHist,
		in.ADX, in.StochK, in.StochD, in.BBPosition, in.ATR,
	} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Reason is one named, weighted contribution to a signal score.
type Reason struct {
	Name   string    `json:"name"`
	Side   Direction `json:"side"`
	Points float64   `json:"points"`
}

// Signal is the ephemeral output of one scorer evaluation. Direction is
// empty when no signal is emitted; both side scores are kept so the margin
// rule stays auditable.
type Signal struct {
	Direction Direction `json:"direction,omitempty"`
	BuyScore  float64   `json:"buy_score"`
	SellScore float64   `json:"sell_score"`
	Reasons   []Reason  `json:"reasons,omitempty"`
}

// Active reports whether a directional signal was emitted.
func (s Signal) Active() bool { return s.Direction == Long || s.Direction == Short }

// Score returns the emitted side's score, or zero for an inactive signal.
func (s Signal) Score() float64 {
	switch s.Direction {
	case Long:
		return s.BuyScore
	case Short:
		return s.SellScore
	}
	return 0
}

// TradeParams is everything needed to place and bound one trade. Derived
// once per signal and immutable; Snapshot carries the indicator values the
// decision was based on, for audit and notification.
type TradeParams struct {
	Symbol          string     `json:"symbol"`
	Direction       Direction  `json:"direction"`
	Entry           float64    `json:"entry"`
	EntryMin        float64    `json:"entry_min"`
	EntryMax        float64    `json:"entry_max"`
	StopLoss        float64    `json:"stop_loss"`
	TakeProfit      float64    `json:"take_profit"`
	LotSize         float64    `json:"lot_size"`
	RiskAmount      float64    `json:"risk_amount"`
	PotentialProfit float64    `json:"potential_profit"`
	ATRMultiplier   float64    `json:"atr_multiplier"`
	Snapshot        Indicators `json:"snapshot"`
}

// TradeState is the lifecycle state of a tracked trade.
type TradeState string

const (
	StateArmed     TradeState = "OPEN_ARMED"
	StateTrailed   TradeState = "OPEN_TRAILED"
	StateWin       TradeState = "CLOSED_WIN"
	StateLoss      TradeState = "CLOSED_LOSS"
	StateBreakeven TradeState = "CLOSED_BREAKEVEN"
)

// Open reports whether the state is a non-terminal one.
func (st TradeState) Open() bool { return st == StateArmed || st == StateTrailed }

// ExitReason records which level closed a trade.
type ExitReason string

const (
	ExitStopHit   ExitReason = "SL_HIT"
	ExitTargetHit ExitReason = "TP_HIT"
)

// StopUpdate is one entry in a trade's stop-adjustment log.
type StopUpdate struct {
	Ts      int64   `json:"ts"`
	OldStop float64 `json:"old_stop"`
	NewStop float64 `json:"new_stop"`
	Reason  string  `json:"reason"`
}

// Trade is one tracked position, owned by the lifecycle manager while open
// and moved to history on close. OriginalStop is never mutated after open;
// CurrentStop only ever moves in the trade's favor.
type Trade struct {
	ID               string       `json:"id"`
	Symbol           string       `json:"symbol"`
	Direction        Direction    `json:"direction"`
	State            TradeState   `json:"state"`
	EntryPrice       float64      `json:"entry_price"`
	EntryTs          int64        `json:"entry_ts"`
	OriginalStop     float64      `json:"original_stop"`
	CurrentStop      float64      `json:"current_stop"`
	TakeProfit       float64      `json:"take_profit"`
	LotSize          float64      `json:"lot_size"`
	RiskAmount       float64      `json:"risk_amount"`
	RiskDistance     float64      `json:"risk_distance"`
	BreakevenTrigger float64      `json:"breakeven_trigger"`
	StopAtBreakeven  bool         `json:"stop_at_breakeven"`
	StopUpdates      []StopUpdate `json:"stop_updates,omitempty"`

	ExitPrice  float64    `json:"exit_price,omitempty"`
	ExitTs     int64      `json:"exit_ts,omitempty"`
	ExitReason ExitReason `json:"exit_reason,omitempty"`
	PnL        float64    `json:"pnl,omitempty"`
}

// StepResult summarizes one engine pass over one symbol.
type StepResult struct {
	Symbol string       `json:"symbol"`
	Price  float64      `json:"price"`
	Ts     int64        `json:"ts"`
	Signal Signal       `json:"signal"`
	Params *TradeParams `json:"params,omitempty"`
	Orders []OrderResp  `json:"orders,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

// OrderReq is the request handed to an execution backend.
type OrderReq struct {
	Symbol     string
	Direction  Direction
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	LotSize    float64
	Tag        string
}

// OrderResp is the execution backend's acknowledgement.
type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
