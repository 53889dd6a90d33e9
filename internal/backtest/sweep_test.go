package backtest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx-signal-bot/internal/scorer"
)

func TestGridProfilesCartesian(t *testing.T) {
	g := GridSpec{
		ADXFloors:      []float64{20, 25},
		RSIOversolds:   []float64{30},
		RSIOverboughts: []float64{70},
		RiskRewards:    []float64{2.0, 2.5},
		MinScores:      []float64{5.0},
		TrendFilters:   []bool{true, false},
	}
	profiles := g.Profiles()
	require.Len(t, profiles, 8)

	names := map[string]bool{}
	for _, p := range profiles {
		assert.False(t, names[p.Name], "duplicate profile name %s", p.Name)
		names[p.Name] = true
		assert.NoError(t, p.Validate())
		if p.TrendFilter {
			assert.Equal(t, 1.0, p.Margin)
		} else {
			assert.Equal(t, 1.5, p.Margin)
		}
	}
}

func TestRunSweepFiltersAndRanks(t *testing.T) {
	bars := flatBars(400)
	inds := computed(t, bars)

	// A flat series produces zero trades everywhere, so every
	// configuration falls under the minimum-trade filter.
	profiles := GridSpec{
		ADXFloors:      []float64{20, 25},
		RSIOversolds:   []float64{30},
		RSIOverboughts: []float64{70},
		RiskRewards:    []float64{2.5},
		MinScores:      []float64{5.0},
		TrendFilters:   []bool{false},
	}.Profiles()

	results, err := RunSweep(context.Background(), Config{Symbol: "EURUSD", RiskAmount: 50}, profiles, bars, inds, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunSweepDeterministic(t *testing.T) {
	bars := trendingBars(700)
	inds := computed(t, bars)

	profiles := DefaultGrid().Profiles()[:12]
	cfg := Config{Symbol: "EURUSD", RiskAmount: 50}

	// Different worker counts must produce identical rankings.
	r1, err := RunSweep(context.Background(), cfg, profiles, bars, inds, 1)
	require.NoError(t, err)
	r4, err := RunSweep(context.Background(), cfg, profiles, bars, inds, 4)
	require.NoError(t, err)

	require.Equal(t, len(r1), len(r4))
	for i := range r1 {
		assert.Equal(t, r1[i].Profile.Name, r4[i].Profile.Name)
		assert.Equal(t, r1[i].Report.NetPnL, r4[i].Report.NetPnL)
	}
}

func TestRunSweepCancellation(t *testing.T) {
	bars := trendingBars(700)
	inds := computed(t, bars)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSweep(ctx, Config{Symbol: "EURUSD", RiskAmount: 50}, DefaultGrid().Profiles(), bars, inds, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortResultsOrdering(t *testing.T) {
	mk := func(name string, pf, pnl, dd float64) SweepResult {
		return SweepResult{
			Profile: scorer.Profile{Name: name},
			Report:  &Report{ProfitFactor: pf, NetPnL: pnl, MaxDrawdownPct: dd},
		}
	}
	rs := []SweepResult{
		mk("low-pf", 1.1, 500, 5),
		mk("inf-pf-small", math.Inf(1), 50, 2),
		mk("inf-pf-big", math.Inf(1), 200, 2),
		mk("tie-dd", 1.1, 500, 3),
	}
	sortResults(rs)

	assert.Equal(t, "inf-pf-big", rs[0].Profile.Name)
	assert.Equal(t, "inf-pf-small", rs[1].Profile.Name)
	// Equal PF and P/L: lower drawdown ranks higher.
	assert.Equal(t, "tie-dd", rs[2].Profile.Name)
	assert.Equal(t, "low-pf", rs[3].Profile.Name)
}
