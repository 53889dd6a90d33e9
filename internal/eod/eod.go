// Package eod summarizes the day's closed trades from the trade journal
// into a CSV report, one row per symbol plus a totals row.
package eod

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"fx-signal-bot/internal/journal"
	"fx-signal-bot/internal/types"
)

type aggRow struct {
	Symbol     string
	Trades     int
	Wins       int
	Losses     int
	Breakevens int
	NetPnL     float64
}

func outDir() string {
	return filepath.Join(journal.Dir(), "eod")
}

func eodCSVPath(t time.Time) string {
	return filepath.Join(outDir(), t.UTC().Format("2006-01-02")+".csv")
}

// SummarizeDay aggregates the day's CLOSED trade events into a CSV file
// and returns its path. Returns "" with a nil error when there is nothing
// to summarize.
func SummarizeDay(t time.Time) (string, error) {
	entries, err := journal.ReadTrades(t)
	if err != nil {
		return "", err
	}

	aggs := map[string]*aggRow{}
	for _, e := range entries {
		if e.Event != "CLOSED" {
			continue
		}
		tr := e.Trade
		row := aggs[tr.Symbol]
		if row == nil {
			row = &aggRow{Symbol: tr.Symbol}
			aggs[tr.Symbol] = row
		}
		row.Trades++
		switch tr.State {
		case types.StateWin:
			row.Wins++
		case types.StateLoss:
			row.Losses++
		case types.StateBreakeven:
			row.Breakevens++
		}
		row.NetPnL += tr.PnL
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"symbol", "trades", "wins", "losses", "breakevens", "win_rate", "net_pnl"}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalTrades, totalWins int
	var totalPnL float64
	for _, k := range keys {
		r := aggs[k]
		winRate := 0.0
		if r.Wins+r.Losses > 0 {
			winRate = float64(r.Wins) / float64(r.Wins+r.Losses) * 100
		}
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Trades),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			strconv.Itoa(r.Breakevens),
			fmt.Sprintf("%.1f", winRate),
			fmt.Sprintf("%.2f", r.NetPnL),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalTrades += r.Trades
		totalWins += r.Wins
		totalPnL += r.NetPnL
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(totalTrades), strconv.Itoa(totalWins), "", "", "", fmt.Sprintf("%.2f", totalPnL)})
	return outPath, nil
}

// SummarizeToday summarizes the current UTC day.
func SummarizeToday() (string, error) { return SummarizeDay(time.Now().UTC()) }

// ShouldRunNow reports whether the daily summary is due: past 21:00 UTC
// (after the New York close) and not yet written for today.
func ShouldRunNow() (bool, string) {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 21, 0, 0, 0, time.UTC)
	outPath := eodCSVPath(now)
	if now.After(cutoff) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
