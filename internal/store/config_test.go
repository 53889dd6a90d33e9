package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
mode: DRY_RUN
symbols: [EURUSD]
risk:
  amount_usd: 50
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PollSeconds != 60 {
		t.Errorf("Expected poll default 60, got %d", cfg.PollSeconds)
	}
	if cfg.Lookback != 300 {
		t.Errorf("Expected lookback default 300, got %d", cfg.Lookback)
	}
	if cfg.DataSource != "STATIC" {
		t.Errorf("Expected STATIC data source default, got %s", cfg.DataSource)
	}
	if cfg.Advisor.Provider != "NOOP" {
		t.Errorf("Expected NOOP advisor default, got %s", cfg.Advisor.Provider)
	}
	if cfg.Backtest.Warmup != 250 {
		t.Errorf("Expected warmup default 250, got %d", cfg.Backtest.Warmup)
	}

	p, err := cfg.ActiveProfile()
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "default" {
		t.Errorf("Expected default profile, got %s", p.Name)
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, strings.Replace(minimalConfig, "DRY_RUN", "YOLO", 1)))
	if err == nil {
		t.Fatal("Expected invalid mode to fail validation")
	}
}

func TestLoadConfigNoSymbols(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: DRY_RUN
symbols: []
risk:
  amount_usd: 50
`))
	if err == nil {
		t.Fatal("Expected empty symbols to fail validation")
	}
}

func TestLoadConfigLiveNeedsBridge(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
mode: LIVE
symbols: [EURUSD]
risk:
  amount_usd: 50
`))
	if err == nil {
		t.Fatal("Expected LIVE mode without bridge_url to fail")
	}
}

func TestLoadConfigShortLookback(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+"lookback: 100\n"))
	if err == nil {
		t.Fatal("Expected lookback under warm-up length to fail")
	}
}

func TestLoadConfigCustomProfile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig+`
custom_profile:
  min_score: 4.5
  trend_filter: true
`))
	if err != nil {
		t.Fatal(err)
	}
	p, err := cfg.ActiveProfile()
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "custom" {
		t.Errorf("Expected custom profile name, got %s", p.Name)
	}
	if p.MinScore != 4.5 {
		t.Errorf("Expected min_score 4.5, got %f", p.MinScore)
	}
	if !p.TrendFilter {
		t.Error("Expected trend filter on")
	}
	// Unset fields inherit the defaults.
	if p.ADXFloor != 25 {
		t.Errorf("Expected inherited ADX floor 25, got %f", p.ADXFloor)
	}
	if p.RiskReward != 2.5 {
		t.Errorf("Expected inherited risk:reward 2.5, got %f", p.RiskReward)
	}
}

func TestLoadConfigUnknownProfile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+"profile: aggressive\n"))
	if err == nil {
		t.Fatal("Expected unknown profile name to fail validation")
	}
}

func TestLoadConfigBadMarketHours(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, minimalConfig+`
market_hours:
  enabled: true
  open_hour: 20
  close_hour: 8
`))
	if err == nil {
		t.Fatal("Expected inverted market hours to fail validation")
	}
}
