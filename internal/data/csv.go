package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"strategy-backtest/internal/model"
)

// LoadBarsCSV reads a bar series from a headered CSV file. Required columns:
// timestamp, open, high, low, close, volume, signal. Optional columns: atr,
// atr_sl, atr_tp (empty cells mean "not supplied"). Timestamps are RFC3339 or
// unix seconds.
func LoadBarsCSV(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"timestamp", "open", "high", "low", "close", "volume", "signal"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for line, rec := range records[1:] {
		ts, err := parseTimestamp(rec[col["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line+2, err)
		}
		bar := model.Bar{Timestamp: ts}
		if bar.Open, err = strconv.ParseFloat(rec[col["open"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: open: %w", path, line+2, err)
		}
		if bar.High, err = strconv.ParseFloat(rec[col["high"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: high: %w", path, line+2, err)
		}
		if bar.Low, err = strconv.ParseFloat(rec[col["low"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: low: %w", path, line+2, err)
		}
		if bar.Close, err = strconv.ParseFloat(rec[col["close"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: close: %w", path, line+2, err)
		}
		if bar.Volume, err = strconv.ParseFloat(rec[col["volume"]], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: volume: %w", path, line+2, err)
		}
		if bar.Signal, err = strconv.Atoi(rec[col["signal"]]); err != nil {
			return nil, fmt.Errorf("%s line %d: signal: %w", path, line+2, err)
		}

		if bar.ATR, err = optionalFloat(rec, col, "atr"); err != nil {
			return nil, fmt.Errorf("%s line %d: atr: %w", path, line+2, err)
		}
		if bar.ATRStop, err = optionalFloat(rec, col, "atr_sl"); err != nil {
			return nil, fmt.Errorf("%s line %d: atr_sl: %w", path, line+2, err)
		}
		if bar.ATRTarget, err = optionalFloat(rec, col, "atr_tp"); err != nil {
			return nil, fmt.Errorf("%s line %d: atr_tp: %w", path, line+2, err)
		}

		bars = append(bars, bar)
	}

	if err := model.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

func optionalFloat(rec []string, col map[string]int, name string) (*float64, error) {
	i, ok := col[name]
	if !ok || i >= len(rec) || rec[i] == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(rec[i], 64)
	if err != nil {
		return nil, err
	}
	return model.Float(v), nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
