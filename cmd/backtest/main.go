// Command backtest replays a scorer profile over a historical bar series
// (CSV or synthetic) and prints a performance report.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fx-signal-bot/internal/backtest"
	"fx-signal-bot/internal/indicators"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/marketdata"
	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/types"
)

func main() {
	var (
		csvPath = flag.String("csv", "", "path to a bars CSV (time,open,high,low,close,volume)")
		symbol  = flag.String("symbol", "EURUSD", "symbol the dataset belongs to")
		profile = flag.String("profile", "default", "built-in scorer profile name")
		riskUSD = flag.Float64("risk", 100, "risk per trade in USD")
		capital = flag.Float64("capital", 10000, "starting capital for drawdown tracking")
		warmup  = flag.Int("warmup", backtest.DefaultWarmup, "bars to skip for indicator warm-up")
		nBars   = flag.Int("bars", 2000, "synthetic bar count when no CSV is given")
		asJSON  = flag.Bool("json", false, "print the full report as JSON")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	bars, err := loadBars(ctx, *csvPath, *symbol, *nBars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load bars", err)
		os.Exit(1)
	}

	prof, err := scorer.BuiltinProfile(*profile)
	if err != nil {
		logger.ErrorWithErr(ctx, "Unknown profile", err)
		os.Exit(1)
	}

	inds, err := indicators.New(indicators.DefaultConfig()).Compute(bars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to compute indicators", err)
		os.Exit(1)
	}

	sim := backtest.NewSimulator(backtest.Config{
		Symbol:         *symbol,
		Profile:        prof,
		RiskAmount:     *riskUSD,
		InitialCapital: *capital,
		Warmup:         *warmup,
	})
	rep, err := sim.Run(bars, inds)
	if err != nil {
		logger.ErrorWithErr(ctx, "Simulation failed", err)
		os.Exit(1)
	}

	if *asJSON {
		b, _ := json.MarshalIndent(rep, "", "  ")
		fmt.Println(string(b))
		return
	}
	printReport(*symbol, len(bars), rep)
}

func loadBars(ctx context.Context, csvPath, symbol string, n int) ([]types.Bar, error) {
	if csvPath != "" {
		logger.Info(ctx, "Loading bars from CSV", "path", csvPath)
		return marketdata.LoadCSV(csvPath)
	}
	logger.Info(ctx, "No CSV given, using synthetic bars", "symbol", symbol, "count", n)
	return marketdata.NewStaticSource(time.Hour).RecentBars(ctx, symbol, n)
}

func printReport(symbol string, barCount int, rep *backtest.Report) {
	fmt.Printf("Backtest %s (%d bars, profile %s)\n", symbol, barCount, rep.ProfileName)
	fmt.Printf("  Trades:        %d (%d long / %d short)\n", rep.Trades, rep.LongTrades, rep.ShortTrades)
	fmt.Printf("  Wins:          %d  Losses: %d  Breakevens: %d\n", rep.Wins, rep.Losses, rep.Breakevens)
	fmt.Printf("  Win rate:      %.1f%%\n", rep.WinRate)
	fmt.Printf("  Net P/L:       $%.2f (gross +%.2f / -%.2f)\n", rep.NetPnL, rep.GrossProfit, rep.GrossLoss)
	fmt.Printf("  Profit factor: %.2f\n", rep.ProfitFactor)
	fmt.Printf("  Max drawdown:  %.2f%%\n", rep.MaxDrawdownPct)
	fmt.Printf("  Avg holding:   %.1f bars\n", rep.AvgHoldingBars)
	fmt.Printf("  Stops trailed: %d (%d saved from loss)\n", rep.TrailedCount, rep.TrailedSaved)
}
