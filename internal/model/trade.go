package model

import "time"

// Direction of an open position or completed trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// ExitReason records which rule closed a trade.
// Keep these values stable; they are intended for CSV output.
type ExitReason string

const (
	ExitStopLoss           ExitReason = "stop_loss"
	ExitTrailingStopLoss   ExitReason = "trailing_stop_loss"
	ExitTakeProfit         ExitReason = "take_profit"
	ExitTrailingTakeProfit ExitReason = "trailing_take_profit"
	ExitStrategy           ExitReason = "strategy_exit"
)

// Position is the transient state of one open trade. It exists only between
// entry and exit and is owned exclusively by a single engine run.
type Position struct {
	Direction  Direction
	Size       float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
}

// Trade is one ledger entry. It is appended at entry with the exit fields
// nil, and mutated exactly once at exit, when all exit fields are set
// together. Commission accumulates the entry fee at open and the exit fee at
// close.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	EntryPrice float64   `json:"entry_price"`
	Size       float64   `json:"size"`
	StopLoss   float64   `json:"stop_loss"`
	TakeProfit float64   `json:"take_profit"`
	Direction  Direction `json:"direction"`
	Commission float64   `json:"commission"`

	ExitTime   *time.Time `json:"exit_time,omitempty"`
	ExitPrice  *float64   `json:"exit_price,omitempty"`
	ExitReason ExitReason `json:"exit_reason,omitempty"`
	NetPnL     *float64   `json:"net_pnl,omitempty"`
}

// Closed reports whether the trade has been exited.
func (t Trade) Closed() bool { return t.ExitTime != nil }

// EquityPoint is the account balance after settling all fills up to and
// including one bar. Points are monotonic in time, not in value.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}
