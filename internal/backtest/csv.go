package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"strategy-backtest/internal/model"
)

// WriteTradesCSV writes the trade ledger, one row per entry. Open trades have
// empty exit columns.
func WriteTradesCSV(path string, trades []model.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"entry_time",
		"entry_price",
		"size",
		"stop_loss",
		"take_profit",
		"direction",
		"commission",
		"exit_time",
		"exit_price",
		"exit_reason",
		"net_pnl",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			fmtTime(t.EntryTime),
			fmtFloat(t.EntryPrice),
			fmtFloat(t.Size),
			fmtFloat(t.StopLoss),
			fmtFloat(t.TakeProfit),
			string(t.Direction),
			fmtFloat(t.Commission),
			fmtTimePtr(t.ExitTime),
			fmtFloatPtr(t.ExitPrice),
			string(t.ExitReason),
			fmtFloatPtr(t.NetPnL),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteEquityCSV writes the equity curve.
func WriteEquityCSV(path string, equity []model.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "equity"}); err != nil {
		return err
	}
	for _, pt := range equity {
		if err := w.Write([]string{fmtTime(pt.Timestamp), fmtFloat(pt.Equity)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtTime(*t)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtFloatPtr(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
