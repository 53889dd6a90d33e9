// Package journal appends signal and trade events to daily JSONL files.
// The files are the audit trail the EOD summarizer reads back.
package journal

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fx-signal-bot/internal/types"
)

var mu sync.Mutex

// SignalEntry records one raised signal, approved or not.
type SignalEntry struct {
	Time      string          `json:"time"`
	Symbol    string          `json:"symbol"`
	Direction types.Direction `json:"direction"`
	BuyScore  float64         `json:"buy_score"`
	SellScore float64         `json:"sell_score"`
	Price     float64         `json:"price"`
	Approved  bool            `json:"approved"`
	Reasoning string          `json:"reasoning,omitempty"`
	Reasons   []types.Reason  `json:"reasons,omitempty"`
}

// TradeEntry records an opened or closed trade.
type TradeEntry struct {
	Time  string      `json:"time"`
	Event string      `json:"event"`
	Trade types.Trade `json:"trade"`
}

var dir = defaultDir

func defaultDir() string {
	if v := os.Getenv("JOURNAL_DIR"); v != "" {
		return v
	}
	return filepath.Join("data", "journal")
}

// SetDir overrides the journal directory. Call once at startup.
func SetDir(d string) {
	mu.Lock()
	defer mu.Unlock()
	if d != "" {
		dir = func() string { return d }
	}
}

// Dir returns the active journal directory.
func Dir() string {
	mu.Lock()
	defer mu.Unlock()
	return dir()
}

func signalsFilepath(t time.Time) string {
	return filepath.Join(dir(), "signals", t.UTC().Format("2006-01-02")+".jsonl")
}

func tradesFilepath(t time.Time) string {
	return filepath.Join(dir(), "trades", t.UTC().Format("2006-01-02")+".jsonl")
}

// AppendSignal writes one signal entry to today's signal journal.
func AppendSignal(e SignalEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(signalsFilepath(now), e)
}

// AppendTrade writes one trade event to today's trade journal.
func AppendTrade(event string, trade types.Trade) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e := TradeEntry{
		Time:  now.Format("2006-01-02 15:04:05"),
		Event: event,
		Trade: trade,
	}
	return appendLine(tradesFilepath(now), e)
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// ReadTrades returns the trade events journaled for the given day.
func ReadTrades(day time.Time) ([]TradeEntry, error) {
	mu.Lock()
	p := tradesFilepath(day)
	mu.Unlock()

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []TradeEntry
	dec := json.NewDecoder(f)
	for {
		var e TradeEntry
		if err := dec.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("journal %s: %w", p, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// CompressOlder gzips journal files older than retentionDays. Already
// compressed files are left alone.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := dir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
