package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fx-signal-bot/internal/types"
)

// LoadCSV reads bars from a CSV file with columns
// time,open,high,low,close,volume. The time column accepts either a unix
// epoch in seconds or an RFC 3339 timestamp. A header row is skipped when
// the first field is not parseable as a time.
func LoadCSV(path string) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []types.Bar
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars csv %s: %w", path, err)
		}
		line++
		if len(rec) < 6 {
			return nil, fmt.Errorf("bars csv %s line %d: want 6 columns, got %d", path, line, len(rec))
		}

		ts, err := parseBarTime(rec[0])
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("bars csv %s line %d: %w", path, line, err)
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("bars csv %s line %d col %d: %w", path, line, i+2, err)
			}
			vals[i] = v
		}

		bars = append(bars, types.Bar{
			Ts:     ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("bars csv %s: no rows", path)
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Ts <= bars[i-1].Ts {
			return nil, fmt.Errorf("bars csv %s: timestamps not strictly increasing at row %d", path, i+1)
		}
	}
	return bars, nil
}

func parseBarTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	return t.Unix(), nil
}
