package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-signal-bot/internal/indicators"
	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/types"
)

func flatBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = types.Bar{
			Ts:     int64(1700000000 + i*3600),
			Open:   1.1,
			High:   1.1,
			Low:    1.1,
			Close:  1.1,
			Volume: 1000,
		}
	}
	return bars
}

func computed(t *testing.T, bars []types.Bar) []types.Indicators {
	t.Helper()
	inds, err := indicators.New(indicators.DefaultConfig()).Compute(bars)
	require.NoError(t, err)
	return inds
}

func TestRunMisaligned(t *testing.T) {
	sim := NewSimulator(Config{Symbol: "EURUSD", Profile: scorer.DefaultProfile()})
	bars := flatBars(300)
	_, err := sim.Run(bars, nil)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestRunFlatSeriesNoTrades(t *testing.T) {
	bars := flatBars(400)
	inds := computed(t, bars)

	sim := NewSimulator(Config{Symbol: "EURUSD", Profile: scorer.DefaultProfile(), RiskAmount: 50})
	rep, err := sim.Run(bars, inds)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Trades)
	assert.Equal(t, 0.0, rep.NetPnL)
	assert.Equal(t, 0.0, rep.MaxDrawdownPct)
	assert.Equal(t, 0.0, rep.ProfitFactor)
	assert.Empty(t, rep.Closed)
}

func TestRunDeterministic(t *testing.T) {
	bars := trendingBars(800)
	inds := computed(t, bars)

	cfg := Config{Symbol: "EURUSD", Profile: scorer.DefaultProfile(), RiskAmount: 50}
	rep1, err := NewSimulator(cfg).Run(bars, inds)
	require.NoError(t, err)
	rep2, err := NewSimulator(cfg).Run(bars, inds)
	require.NoError(t, err)

	assert.Equal(t, rep1.Trades, rep2.Trades)
	assert.Equal(t, rep1.NetPnL, rep2.NetPnL)
	assert.Equal(t, rep1.MaxDrawdownPct, rep2.MaxDrawdownPct)
	assert.Equal(t, rep1.Wins, rep2.Wins)
}

// trendingBars produces a wavy series with enough movement for indicators
// to define and occasionally signal.
func trendingBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	price := 1.1
	for i := 0; i < n; i++ {
		drift := 0.0004 * math.Sin(float64(i)/40)
		wiggle := 0.0015 * math.Sin(float64(i)/7)
		open := price
		cls := price * (1 + drift + wiggle)
		hi := math.Max(open, cls) * 1.0008
		lo := math.Min(open, cls) * 0.9992
		bars[i] = types.Bar{
			Ts:     int64(1700000000 + i*3600),
			Open:   open,
			High:   hi,
			Low:    lo,
			Close:  cls,
			Volume: 1000 + 200*math.Abs(math.Sin(float64(i)/5)),
		}
		price = cls
	}
	return bars
}

func TestReportAccounting(t *testing.T) {
	rep := &Report{}

	record(rep, &types.Trade{Direction: types.Long, State: types.StateWin, PnL: 100})
	record(rep, &types.Trade{Direction: types.Short, State: types.StateLoss, PnL: -50})
	record(rep, &types.Trade{Direction: types.Long, State: types.StateBreakeven, PnL: -2, StopAtBreakeven: true})
	finalize(rep, 30)

	assert.Equal(t, 3, rep.Trades)
	assert.Equal(t, 1, rep.Wins)
	assert.Equal(t, 1, rep.Losses)
	assert.Equal(t, 1, rep.Breakevens)
	assert.Equal(t, 2, rep.LongTrades)
	assert.Equal(t, 1, rep.ShortTrades)
	assert.InDelta(t, 100.0, rep.GrossProfit, 1e-9)
	assert.InDelta(t, 52.0, rep.GrossLoss, 1e-9)
	assert.InDelta(t, 48.0, rep.NetPnL, 1e-9)
	assert.InDelta(t, 100.0/52.0, rep.ProfitFactor, 1e-9)
	assert.InDelta(t, 100.0/3.0, rep.WinRate, 1e-9)
	assert.InDelta(t, 10.0, rep.AvgHoldingBars, 1e-9)
	assert.Equal(t, 1, rep.TrailedCount)
	assert.Equal(t, 0, rep.TrailedSaved)
}

func TestProfitFactorInfiniteOnZeroLoss(t *testing.T) {
	rep := &Report{}
	record(rep, &types.Trade{Direction: types.Long, State: types.StateWin, PnL: 75})
	finalize(rep, 5)

	assert.True(t, math.IsInf(rep.ProfitFactor, 1))
}
