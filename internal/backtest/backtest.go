// Package backtest replays the scorer, the parameter calculator and the
// lifecycle transition rules over a historical bar series. It calls the
// exact same Advance used live, so simulated trades transition
// bit-for-bit the way live trades do.
package backtest

import (
	"errors"
	"math"

	"fx-signal-bot/internal/lifecycle"
	"fx-signal-bot/internal/risk"
	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/types"
)

// DefaultWarmup excludes the indicator settling window from simulation.
const DefaultWarmup = 250

// ErrMisaligned is returned when bars and snapshots differ in length.
var ErrMisaligned = errors.New("backtest: bars and indicators misaligned")

// Config drives one simulation run.
type Config struct {
	Symbol         string
	Profile        scorer.Profile
	RiskAmount     float64
	InitialCapital float64
	Warmup         int
}

func (c *Config) applyDefaults() {
	if c.Warmup <= 0 {
		c.Warmup = DefaultWarmup
	}
	if c.InitialCapital <= 0 {
		c.InitialCapital = 10000
	}
	if c.RiskAmount <= 0 {
		c.RiskAmount = 100
	}
}

// Report aggregates one run's performance.
type Report struct {
	ProfileName string `json:"profile"`
	Trades      int    `json:"trades"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Breakevens  int    `json:"breakevens"`

	WinRate      float64 `json:"win_rate_pct"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	NetPnL       float64 `json:"net_pnl"`
	ProfitFactor float64 `json:"profit_factor"`

	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	AvgHoldingBars float64 `json:"avg_holding_bars"`

	LongTrades  int `json:"long_trades"`
	ShortTrades int `json:"short_trades"`
	LongWins    int `json:"long_wins"`
	ShortWins   int `json:"short_wins"`

	// Trailing-stop usage: how often the breakeven move fired, and how
	// many of those trades avoided a losing close.
	TrailedCount int `json:"trailed_count"`
	TrailedSaved int `json:"trailed_saved"`

	Closed []*types.Trade `json:"-"`
}

// Simulator replays one configuration over a dataset.
type Simulator struct {
	cfg  Config
	sc   *scorer.Scorer
	calc *risk.Calculator
}

// NewSimulator builds a simulator for one run configuration.
func NewSimulator(cfg Config) *Simulator {
	cfg.applyDefaults()
	return &Simulator{
		cfg:  cfg,
		sc:   scorer.New(cfg.Profile),
		calc: risk.NewCalculator(cfg.RiskAmount, cfg.Profile.RiskReward, nil),
	}
}

// Run simulates bar-by-bar with at most one open trade at a time. bars and
// inds must be aligned; both are read-only and may be shared across
// concurrent runs.
func (s *Simulator) Run(bars []types.Bar, inds []types.Indicators) (*Report, error) {
	if len(bars) != len(inds) {
		return nil, ErrMisaligned
	}

	rep := &Report{ProfileName: s.cfg.Profile.Name}
	equity := s.cfg.InitialCapital
	peak := equity

	var active *types.Trade
	entryBar := 0
	holdingSum := 0

	for i := s.cfg.Warmup; i < len(bars); i++ {
		bar := bars[i]

		if active != nil {
			_, _, closed := lifecycle.Advance(active, bar)
			if closed {
				equity += active.PnL
				holdingSum += i - entryBar
				record(rep, active)
				active = nil
			}
		}

		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak * 100; dd > rep.MaxDrawdownPct {
			rep.MaxDrawdownPct = dd
		}

		if active != nil {
			continue
		}

		sig := s.sc.Evaluate(bars[:i+1], inds[:i+1])
		if !sig.Active() {
			continue
		}
		params, err := s.calc.Derive(s.cfg.Symbol, sig.Direction, bar, inds[i])
		if err != nil {
			// Degenerate stop: no trade for this signal.
			continue
		}
		active = lifecycle.NewTrade(params, bar.Ts)
		entryBar = i
	}

	finalize(rep, holdingSum)
	return rep, nil
}

func record(rep *Report, t *types.Trade) {
	rep.Trades++
	rep.Closed = append(rep.Closed, t)
	rep.NetPnL += t.PnL

	switch t.State {
	case types.StateWin:
		rep.Wins++
		rep.GrossProfit += t.PnL
	case types.StateLoss:
		rep.Losses++
		rep.GrossLoss += -t.PnL
	default:
		rep.Breakevens++
		if t.PnL > 0 {
			rep.GrossProfit += t.PnL
		} else {
			rep.GrossLoss += -t.PnL
		}
	}

	if t.Direction == types.Long {
		rep.LongTrades++
		if t.State == types.StateWin {
			rep.LongWins++
		}
	} else {
		rep.ShortTrades++
		if t.State == types.StateWin {
			rep.ShortWins++
		}
	}

	if t.StopAtBreakeven {
		rep.TrailedCount++
		if t.PnL >= 0 {
			rep.TrailedSaved++
		}
	}
}

func finalize(rep *Report, holdingSum int) {
	if rep.Trades > 0 {
		rep.WinRate = float64(rep.Wins) / float64(rep.Trades) * 100
		rep.AvgHoldingBars = float64(holdingSum) / float64(rep.Trades)
	}
	if rep.GrossLoss > 0 {
		rep.ProfitFactor = rep.GrossProfit / rep.GrossLoss
	} else if rep.GrossProfit > 0 {
		rep.ProfitFactor = math.Inf(1)
	}
}
