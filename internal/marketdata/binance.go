// Package marketdata provides the bar sources the engine and the backtest
// tools pull history from: a Binance kline client for crypto symbols, a
// deterministic synthetic source for dry runs and tests, and a CSV loader
// for offline datasets.
package marketdata

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"

	"fx-signal-bot/internal/types"
)

// BinanceSource fetches klines from Binance. Read-only market data needs
// no API credentials.
type BinanceSource struct {
	client   *binance.Client
	interval string
}

// NewBinanceSource returns a source for the given kline interval
// (e.g. "1h").
func NewBinanceSource(interval string) *BinanceSource {
	if interval == "" {
		interval = "1h"
	}
	return &BinanceSource{
		client:   binance.NewClient("", ""),
		interval: interval,
	}
}

// RecentBars returns the most recent n closed klines, oldest first.
func (s *BinanceSource) RecentBars(ctx context.Context, symbol string, n int) ([]types.Bar, error) {
	klines, err := s.client.NewKlinesService().
		Symbol(symbol).
		Interval(s.interval).
		Limit(n).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(klines))
	for _, k := range klines {
		b, err := klineToBar(k)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func klineToBar(k *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.Bar{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.Bar{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.Bar{}, err
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.Bar{}, err
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.Bar{}, err
	}
	return types.Bar{
		Ts:     k.OpenTime / 1000,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: vol,
	}, nil
}
