package model

import (
	"fmt"
	"time"
)

// Bar is one time step of the price series the engine replays.
// Signal is precomputed upstream: 1 = enter long / exit short,
// -1 = enter short / exit long, 0 = nothing.
//
// ATR and the ATR-derived stop/target levels are optional; a nil field means
// the upstream pipeline did not supply it and the engine falls back to its
// default behavior for that bar.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Signal    int       `json:"signal"`

	ATR       *float64 `json:"atr,omitempty"`
	ATRStop   *float64 `json:"atr_sl,omitempty"`
	ATRTarget *float64 `json:"atr_tp,omitempty"`
}

// ValidateSeries checks the contract the engine relies on: a non-empty series
// with strictly increasing timestamps. Violations are rejected up front rather
// than producing silently wrong numbers.
func ValidateSeries(bars []Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("empty bar series")
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("bar series not strictly increasing at index %d (%s >= %s)",
				i, bars[i-1].Timestamp.Format(time.RFC3339), bars[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Float is a convenience for building optional bar fields.
func Float(v float64) *float64 { return &v }
