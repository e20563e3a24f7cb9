package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"strategy-backtest/internal/model"
)

// BarFile is the JSON file shape for a bar series.
//
// Example:
// {
//   "bars": [ {"timestamp": "...", "open": 1, ...}, ... ]
// }
//
// A bare top-level array is accepted as well.
type BarFile struct {
	Bars []model.Bar `json:"bars"`
}

// LoadBarsJSON reads a signal-annotated bar series from a JSON file and
// checks the series contract.
func LoadBarsJSON(path string) ([]model.Bar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	var bars []model.Bar
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &bars); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		var f BarFile
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		bars = f.Bars
	}

	if err := model.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}
