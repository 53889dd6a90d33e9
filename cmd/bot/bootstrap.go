package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fx-signal-bot/internal/advisor/advisorobs"
	"fx-signal-bot/internal/advisor/gemini"
	"fx-signal-bot/internal/advisor/noop"
	"fx-signal-bot/internal/engine"
	"fx-signal-bot/internal/engine/engineobs"
	"fx-signal-bot/internal/executor"
	"fx-signal-bot/internal/indicators"
	"fx-signal-bot/internal/interfaces"
	"fx-signal-bot/internal/journal"
	"fx-signal-bot/internal/lifecycle"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/marketdata"
	"fx-signal-bot/internal/notify"
	"fx-signal-bot/internal/risk"
	"fx-signal-bot/internal/scorer"
	"fx-signal-bot/internal/statestore"
	"fx-signal-bot/internal/store"
	"fx-signal-bot/internal/trace"
)

// initializeSystem initializes the logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration.
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	journal.SetDir(cfg.JournalDir)
	return cfg, nil
}

// compressOldJournals compresses old journal files if retention is configured.
func compressOldJournals(ctx context.Context) {
	if v := os.Getenv("JOURNAL_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := journal.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old journals", "error", err)
		}
	}
}

// initializeBarSource returns the configured bar source.
func initializeBarSource(ctx context.Context, cfg *store.Config) interfaces.BarSource {
	if cfg.DataSource == "BINANCE" {
		logger.Info(ctx, "Using LIVE bar data from Binance")
		return marketdata.NewBinanceSource(os.Getenv("BAR_INTERVAL"))
	}
	logger.Info(ctx, "Using STATIC synthetic bar data for testing")
	return marketdata.NewStaticSource(time.Hour)
}

// initializeAdvisor returns the configured advisor with observability.
func initializeAdvisor(ctx context.Context, cfg *store.Config) interfaces.Advisor {
	var adv interfaces.Advisor

	switch cfg.Advisor.Provider {
	case "GEMINI":
		adv = gemini.NewAdvisor(gemini.Config{
			Model:   cfg.Advisor.Model,
			Timeout: time.Duration(cfg.Advisor.TimeoutSeconds) * time.Second,
		})
	default:
		adv = noop.NewNoopAdvisor()
		logger.Warn(ctx, "No advisor provider configured - using Noop advisor (always approves)")
	}

	return advisorobs.Wrap(adv)
}

// initializeNotifier returns the Telegram notifier when credentials are
// present, the log-only notifier otherwise.
func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if cfg.Telegram.Enabled && token != "" && chatID != "" {
		logger.Info(ctx, "Telegram notifications enabled")
		return notify.NewTelegramNotifier(token, chatID)
	}
	logger.Warn(ctx, "Telegram credentials missing - alerts go to log only")
	return notify.NewLogNotifier()
}

// initializeExecutor returns the order executor for the configured mode.
func initializeExecutor(ctx context.Context, cfg *store.Config) interfaces.Executor {
	if cfg.Mode == "LIVE" {
		logger.Info(ctx, "LIVE mode - orders go to the MT5 bridge", "url", cfg.Executor.BridgeURL)
		return executor.NewBridgeExecutor(cfg.Executor.BridgeURL, time.Duration(cfg.Executor.TimeoutSeconds)*time.Second)
	}
	logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	return executor.NewSimExecutor()
}

// initializeEngine wires the full evaluation pipeline with observability.
func initializeEngine(ctx context.Context, cfg *store.Config) (interfaces.Engine, error) {
	profile, err := cfg.ActiveProfile()
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Scorer profile active",
		"profile", profile.Name,
		"min_score", profile.MinScore,
		"margin", profile.Margin,
		"trend_filter", profile.TrendFilter,
	)

	bars := initializeBarSource(ctx, cfg)
	provider := indicators.New(cfg.Indicators)
	sc := scorer.New(profile)
	calc := risk.NewCalculator(cfg.Risk.AmountUSD, profile.RiskReward, nil)
	adv := initializeAdvisor(ctx, cfg)
	notifier := initializeNotifier(ctx, cfg)
	exec := initializeExecutor(ctx, cfg)
	lm := lifecycle.NewManager(ctx, statestore.New(cfg.StatePath), notifier)

	eng := engine.New(cfg, bars, provider, sc, calc, adv, notifier, exec, lm)
	return engineobs.Wrap(eng), nil
}
