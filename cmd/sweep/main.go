// Command sweep grid-searches scorer profiles over a historical dataset
// and ranks the surviving configurations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fx-signal-bot/internal/backtest"
	"fx-signal-bot/internal/indicators"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/marketdata"
	"fx-signal-bot/internal/types"
)

func main() {
	var (
		csvPath = flag.String("csv", "", "path to a bars CSV (time,open,high,low,close,volume)")
		symbol  = flag.String("symbol", "EURUSD", "symbol the dataset belongs to")
		riskUSD = flag.Float64("risk", 100, "risk per trade in USD")
		warmup  = flag.Int("warmup", backtest.DefaultWarmup, "bars to skip for indicator warm-up")
		nBars   = flag.Int("bars", 4000, "synthetic bar count when no CSV is given")
		workers = flag.Int("workers", 0, "concurrent simulations (0 = GOMAXPROCS)")
		topN    = flag.Int("top", 10, "print the N best configurations")
	)
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Interrupt received, cancelling sweep")
		cancel()
	}()

	bars, err := loadBars(ctx, *csvPath, *symbol, *nBars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load bars", err)
		os.Exit(1)
	}

	inds, err := indicators.New(indicators.DefaultConfig()).Compute(bars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to compute indicators", err)
		os.Exit(1)
	}

	profiles := backtest.DefaultGrid().Profiles()
	logger.Info(ctx, "Sweep starting",
		"symbol", *symbol,
		"bars", len(bars),
		"configurations", len(profiles),
		"workers", *workers,
	)

	start := time.Now()
	results, err := backtest.RunSweep(ctx, backtest.Config{
		Symbol:     *symbol,
		RiskAmount: *riskUSD,
		Warmup:     *warmup,
	}, profiles, bars, inds, *workers)
	if err != nil {
		logger.ErrorWithErr(ctx, "Sweep failed", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Sweep finished",
		"qualified", len(results),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	if len(results) == 0 {
		fmt.Println("No configuration produced enough trades to qualify.")
		return
	}

	n := *topN
	if n > len(results) {
		n = len(results)
	}
	fmt.Printf("%-4s %-11s %6s %7s %6s %9s %8s %7s\n",
		"rank", "profile", "adx", "rsi", "rr", "trades", "pf", "net")
	for i := 0; i < n; i++ {
		r := results[i]
		p, rep := r.Profile, r.Report
		fmt.Printf("%-4d %-11s %6.0f %3.0f/%-3.0f %6.1f %9d %8.2f %+7.0f\n",
			i+1, p.Name, p.ADXFloor, p.RSIOversold, p.RSIOverbought,
			p.RiskReward, rep.Trades, rep.ProfitFactor, rep.NetPnL)
	}
}

func loadBars(ctx context.Context, csvPath, symbol string, n int) ([]types.Bar, error) {
	if csvPath != "" {
		logger.Info(ctx, "Loading bars from CSV", "path", csvPath)
		return marketdata.LoadCSV(csvPath)
	}
	logger.Info(ctx, "No CSV given, using synthetic bars", "symbol", symbol, "count", n)
	return marketdata.NewStaticSource(time.Hour).RecentBars(ctx, symbol, n)
}
