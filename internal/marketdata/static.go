package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"fx-signal-bot/internal/types"
)

// StaticSource generates deterministic synthetic bars. The same symbol
// always yields the same series, which makes dry runs and tests
// reproducible without network access.
type StaticSource struct {
	basePrice float64
	interval  time.Duration
}

// NewStaticSource returns a synthetic source. Bars are spaced by interval
// and anchored so the newest bar ends at a fixed epoch boundary.
func NewStaticSource(interval time.Duration) *StaticSource {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StaticSource{basePrice: 100.0, interval: interval}
}

// RecentBars returns n bars, oldest first.
func (s *StaticSource) RecentBars(_ context.Context, symbol string, n int) ([]types.Bar, error) {
	seed := symbolSeed(symbol)
	step := int64(s.interval / time.Second)

	// Anchor to a fixed point so repeated calls return identical series.
	end := int64(1700000000)
	start := end - int64(n-1)*step

	bars := make([]types.Bar, 0, n)
	price := s.basePrice * (1 + float64(seed%17)/100)
	for i := 0; i < n; i++ {
		phase := float64(i) / 12
		drift := 0.0008 * math.Sin(phase+float64(seed%7))
		wiggle := 0.0025 * math.Sin(phase*3.7+float64(seed%11))

		open := price
		cls := price * (1 + drift + wiggle)
		high := math.Max(open, cls) * 1.0012
		low := math.Min(open, cls) * 0.9988
		vol := 1000 + 400*math.Abs(math.Sin(phase*2.1+float64(seed%5)))

		bars = append(bars, types.Bar{
			Ts:     start + int64(i)*step,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: vol,
		})
		price = cls
	}
	return bars, nil
}

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return h.Sum64()
}
