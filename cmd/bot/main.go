package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-signal-bot/internal/eod"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldJournals(ctx)

	eng, err := initializeEngine(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize engine", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Bot started",
		"mode", cfg.Mode,
		"data_source", cfg.DataSource,
		"symbols", cfg.Symbols,
		"poll_seconds", cfg.PollSeconds,
	)

	for {
		select {
		case <-tick.C:
			for _, sym := range cfg.Symbols {
				if _, err := eng.Step(ctx, sym); err != nil {
					logger.ErrorWithErr(ctx, "Step failed", err, "symbol", sym)
				}
			}
		case <-eodTick.C:
			if ok, _ := eod.ShouldRunNow(); ok {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "EOD CSV written", "path", p)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			if p, err := eod.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "EOD CSV written", "path", p)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
