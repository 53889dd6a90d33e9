package scorer

import "fmt"

// Profile is one named weight/threshold tuning of the scorer. The engine
// takes a profile as configuration; several tunings have been validated
// empirically and the sweep tool generates profiles programmatically.
type Profile struct {
	Name string `yaml:"name"`

	// Pre-filters.
	ADXFloor        float64 `yaml:"adx_floor"`         // below this the market is ranging
	RSIExtremeLow   float64 `yaml:"rsi_extreme_low"`   // outer band, no entries below
	RSIExtremeHigh  float64 `yaml:"rsi_extreme_high"`  // outer band, no entries above
	OverextensionATR float64 `yaml:"overextension_atr"` // max |close-EMA50| in ATR units

	// Scoring thresholds.
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`

	// Decision rule.
	MinScore    float64 `yaml:"min_score"`
	Margin      float64 `yaml:"margin"`
	TrendFilter bool    `yaml:"trend_filter"`

	// Trade geometry, consumed by the parameter calculator.
	RiskReward float64 `yaml:"risk_reward"`
}

// DefaultProfile is the grid-search optimum the live bot runs with.
func DefaultProfile() Profile {
	return Profile{
		Name:             "default",
		ADXFloor:         25,
		RSIExtremeLow:    100.0 / 6.0,
		RSIExtremeHigh:   100.0 - 100.0/6.0,
		OverextensionATR: 3.0,
		RSIOversold:      30,
		RSIOverbought:    70,
		MinScore:         5.0,
		Margin:           1.0,
		TrendFilter:      false,
		RiskReward:       2.5,
	}
}

// StrictProfile only trades with the major trend and demands a wider
// score margin. Lower trade count, higher profit factor in testing.
func StrictProfile() Profile {
	p := DefaultProfile()
	p.Name = "strict"
	p.Margin = 1.5
	p.TrendFilter = true
	return p
}

// BuiltinProfile resolves a preset by name.
func BuiltinProfile(name string) (Profile, error) {
	switch name {
	case "", "default":
		return DefaultProfile(), nil
	case "strict":
		return StrictProfile(), nil
	}
	return Profile{}, fmt.Errorf("unknown scorer profile %q", name)
}

// Normalize fills unset fields from the default profile so partial
// tunings (config files, grid cells) stay valid.
func (p Profile) Normalize() Profile {
	d := DefaultProfile()
	if p.ADXFloor == 0 {
		p.ADXFloor = d.ADXFloor
	}
	if p.RSIExtremeLow == 0 {
		p.RSIExtremeLow = d.RSIExtremeLow
	}
	if p.RSIExtremeHigh == 0 {
		p.RSIExtremeHigh = d.RSIExtremeHigh
	}
	if p.OverextensionATR == 0 {
		p.OverextensionATR = d.OverextensionATR
	}
	if p.RSIOversold == 0 {
		p.RSIOversold = d.RSIOversold
	}
	if p.RSIOverbought == 0 {
		p.RSIOverbought = d.RSIOverbought
	}
	if p.MinScore == 0 {
		p.MinScore = d.MinScore
	}
	if p.Margin == 0 {
		p.Margin = d.Margin
	}
	if p.RiskReward == 0 {
		p.RiskReward = d.RiskReward
	}
	return p
}

// Validate rejects profiles that cannot produce a sane decision rule.
func (p Profile) Validate() error {
	if p.ADXFloor < 0 || p.ADXFloor > 100 {
		return fmt.Errorf("adx_floor must be within 0-100, got %.1f", p.ADXFloor)
	}
	if p.RSIOversold <= 0 || p.RSIOverbought >= 100 || p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("rsi thresholds invalid: oversold %.1f overbought %.1f", p.RSIOversold, p.RSIOverbought)
	}
	if p.MinScore <= 0 {
		return fmt.Errorf("min_score must be positive, got %.1f", p.MinScore)
	}
	if p.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %.1f", p.Margin)
	}
	if p.RiskReward <= 0 {
		return fmt.Errorf("risk_reward must be positive, got %.1f", p.RiskReward)
	}
	return nil
}
