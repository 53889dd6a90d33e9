package backtest

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/types"
)

// minSweepTrades filters out configurations with too few trades to rank
// meaningfully.
const minSweepTrades = 15

// GridSpec is the cartesian parameter space a sweep explores.
type GridSpec struct {
	ADXFloors     []float64 `yaml:"adx_floors"`
	RSIOversolds  []float64 `yaml:"rsi_oversolds"`
	RSIOverboughts []float64 `yaml:"rsi_overboughts"`
	RiskRewards   []float64 `yaml:"risk_rewards"`
	MinScores     []float64 `yaml:"min_scores"`
	TrendFilters  []bool    `yaml:"trend_filters"`
}

// DefaultGrid mirrors the parameter space the live profile was tuned on.
func DefaultGrid() GridSpec {
	return GridSpec{
		ADXFloors:      []float64{20, 25, 30},
		RSIOversolds:   []float64{30, 35},
		RSIOverboughts: []float64{65, 70},
		RiskRewards:    []float64{2.0, 2.5, 3.0},
		MinScores:      []float64{4.0, 4.5, 5.0},
		TrendFilters:   []bool{true, false},
	}
}

// Profiles expands the grid into concrete scorer profiles. The margin
// follows the trend-filter choice: trend-filtered runs use the narrower
// margin, unfiltered runs the wider one.
func (g GridSpec) Profiles() []scorer.Profile {
	var out []scorer.Profile
	n := 0
	for _, adx := range g.ADXFloors {
		for _, os := range g.RSIOversolds {
			for _, ob := range g.RSIOverboughts {
				for _, rr := range g.RiskRewards {
					for _, ms := range g.MinScores {
						for _, tf := range g.TrendFilters {
							p := scorer.DefaultProfile()
							n++
							p.Name = fmt.Sprintf("sweep-%03d", n)
							p.ADXFloor = adx
							p.RSIOversold = os
							p.RSIOverbought = ob
							p.RiskReward = rr
							p.MinScore = ms
							p.TrendFilter = tf
							if tf {
								p.Margin = 1.0
							} else {
								p.Margin = 1.5
							}
							out = append(out, p)
						}
					}
				}
			}
		}
	}
	return out
}

// SweepResult pairs one profile with its simulation report.
type SweepResult struct {
	Profile scorer.Profile
	Report  *Report
}

// RunSweep simulates every profile over the shared read-only dataset, using
// a pool of workers (defaulting to GOMAXPROCS). Each run is fully
// independent; nothing mutable is shared between workers. Results are
// returned ranked best-first by profit factor, then net P/L, then drawdown.
func RunSweep(ctx context.Context, base Config, profiles []scorer.Profile, bars []types.Bar, inds []types.Indicators, workers int) ([]SweepResult, error) {
	if len(bars) != len(inds) {
		return nil, ErrMisaligned
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan scorer.Profile)
	results := make(chan SweepResult, len(profiles))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				cfg := base
				cfg.Profile = p
				rep, err := NewSimulator(cfg).Run(bars, inds)
				if err != nil {
					continue
				}
				results <- SweepResult{Profile: p, Report: rep}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range profiles {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	var out []SweepResult
	for r := range results {
		if r.Report.Trades < minSweepTrades {
			continue
		}
		out = append(out, r)
	}
	sortResults(out)
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func sortResults(rs []SweepResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i].Report, rs[j].Report
		if !almostEqual(a.ProfitFactor, b.ProfitFactor) {
			return a.ProfitFactor > b.ProfitFactor
		}
		if a.NetPnL != b.NetPnL {
			return a.NetPnL > b.NetPnL
		}
		if a.MaxDrawdownPct != b.MaxDrawdownPct {
			return a.MaxDrawdownPct < b.MaxDrawdownPct
		}
		// Fully tied reports order by name so rankings are reproducible
		// regardless of worker scheduling.
		return rs[i].Profile.Name < rs[j].Profile.Name
	})
}

func almostEqual(a, b float64) bool {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	return math.Abs(a-b) < 1e-9
}
