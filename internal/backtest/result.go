package backtest

import "strategy-backtest/internal/model"

// Result is the full output of one engine run: the ordered trade ledger, the
// equity curve and the balances bracketing the run. It is plain data for
// downstream consumers.
type Result struct {
	InitialBalance float64             `json:"initial_balance"`
	FinalBalance   float64             `json:"final_balance"`
	Trades         []model.Trade       `json:"trades"`
	Equity         []model.EquityPoint `json:"equity"`
}

// OpenTrades counts ledger entries that were never exited.
func (r *Result) OpenTrades() int {
	n := 0
	for _, t := range r.Trades {
		if !t.Closed() {
			n++
		}
	}
	return n
}
