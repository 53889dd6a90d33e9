// Package store loads and validates the bot configuration.
package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fx-signal-bot/internal/indicators"
	"fx-signal-bot/internal/scorer"
)

type Config struct {
	Mode        string   `yaml:"mode"`
	DataSource  string   `yaml:"data_source"`
	PollSeconds int      `yaml:"poll_seconds"`
	Lookback    int      `yaml:"lookback"`
	Symbols     []string `yaml:"symbols"`

	// Profile selects a built-in scorer profile by name. When the inline
	// profile block is present it takes precedence.
	Profile       string          `yaml:"profile"`
	CustomProfile *scorer.Profile `yaml:"custom_profile"`

	Indicators indicators.Config `yaml:"indicators"`

	Risk struct {
		AmountUSD       float64 `yaml:"amount_usd"`
		CooldownMinutes int     `yaml:"cooldown_minutes"`
	} `yaml:"risk"`

	MarketHours struct {
		Enabled bool `yaml:"enabled"`
		// UTC hours, inclusive start / exclusive end.
		OpenHour  int `yaml:"open_hour"`
		CloseHour int `yaml:"close_hour"`
		// Weekend trading is off unless the symbol trades 24/7.
		AllowWeekends bool `yaml:"allow_weekends"`
	} `yaml:"market_hours"`

	Advisor struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"advisor"`

	Telegram struct {
		Enabled bool `yaml:"enabled"`
		// Credentials come from TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID env
		// vars so they stay out of the config file.
	} `yaml:"telegram"`

	Executor struct {
		BridgeURL      string `yaml:"bridge_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"executor"`

	StatePath  string `yaml:"state_path"`
	JournalDir string `yaml:"journal_dir"`

	Backtest struct {
		Warmup         int     `yaml:"warmup"`
		InitialCapital float64 `yaml:"initial_capital"`
	} `yaml:"backtest"`
}

// ActiveProfile resolves the scorer profile the config selects.
func (c *Config) ActiveProfile() (scorer.Profile, error) {
	if c.CustomProfile != nil {
		p := c.CustomProfile.Normalize()
		if p.Name == "" {
			p.Name = "custom"
		}
		return p, p.Validate()
	}
	return scorer.BuiltinProfile(c.Profile)
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.DataSource != "STATIC" && c.DataSource != "BINANCE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'BINANCE'", c.DataSource)
	}
	if len(c.Symbols) == 0 {
		return errors.New("symbols cannot be empty")
	}
	if c.Risk.AmountUSD <= 0 {
		return fmt.Errorf("risk.amount_usd must be positive, got %.2f", c.Risk.AmountUSD)
	}
	if c.Lookback < 250 {
		return fmt.Errorf("lookback must be at least 250 bars for indicator warm-up, got %d", c.Lookback)
	}
	if c.Advisor.Provider != "" && c.Advisor.Provider != "GEMINI" && c.Advisor.Provider != "NOOP" {
		return fmt.Errorf("advisor.provider must be 'GEMINI' or 'NOOP', got '%s'", c.Advisor.Provider)
	}
	if c.Mode == "LIVE" && c.Executor.BridgeURL == "" {
		return errors.New("executor.bridge_url required in LIVE mode")
	}
	if c.MarketHours.Enabled {
		if c.MarketHours.OpenHour < 0 || c.MarketHours.OpenHour > 23 ||
			c.MarketHours.CloseHour < 1 || c.MarketHours.CloseHour > 24 ||
			c.MarketHours.OpenHour >= c.MarketHours.CloseHour {
			return fmt.Errorf("market_hours: bad window %d-%d", c.MarketHours.OpenHour, c.MarketHours.CloseHour)
		}
	}
	if _, err := c.ActiveProfile(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 60
	}
	if c.Lookback == 0 {
		c.Lookback = 300
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.Profile == "" && c.CustomProfile == nil {
		c.Profile = "default"
	}
	if c.Risk.CooldownMinutes == 0 {
		c.Risk.CooldownMinutes = 60
	}
	if c.Advisor.Provider == "" {
		c.Advisor.Provider = "NOOP"
	}
	if c.StatePath == "" {
		c.StatePath = "data/active_trades.json"
	}
	if c.JournalDir == "" {
		c.JournalDir = "data/journal"
	}
	if c.Backtest.Warmup == 0 {
		c.Backtest.Warmup = 250
	}
	if c.Backtest.InitialCapital == 0 {
		c.Backtest.InitialCapital = 10000
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
