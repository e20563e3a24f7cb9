package backtest

import (
	"math"

	"strategy-backtest/internal/model"
)

// DefaultPeriodsPerYear annualizes hourly bars.
const DefaultPeriodsPerYear = 365 * 24

// Performance is the reduced metric set for one finished run.
type Performance struct {
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	WinRatePct     float64 `json:"win_rate_pct"`
	TotalReturnPct float64 `json:"total_return_pct"`
	EndingBalance  float64 `json:"ending_balance"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// Analyze reduces a run to scalar metrics. It never mutates the result and
// produces zero-safe defaults on empty input. periodsPerYear is the number of
// bars per year implied by the bar interval (8760 for hourly); pass 0 for the
// default.
func Analyze(r *Result, periodsPerYear float64) Performance {
	if periodsPerYear <= 0 {
		periodsPerYear = DefaultPeriodsPerYear
	}

	p := Performance{
		TotalTrades:   len(r.Trades),
		EndingBalance: r.FinalBalance,
	}

	for _, t := range r.Trades {
		// A net PnL of exactly 0, and a still-open trade, both count as
		// losing.
		if t.NetPnL != nil && *t.NetPnL > 0 {
			p.WinningTrades++
		}
	}
	p.LosingTrades = p.TotalTrades - p.WinningTrades
	if p.TotalTrades > 0 {
		p.WinRatePct = float64(p.WinningTrades) / float64(p.TotalTrades) * 100
	}

	if r.InitialBalance != 0 {
		p.TotalReturnPct = (r.FinalBalance - r.InitialBalance) / r.InitialBalance * 100
	}

	p.SharpeRatio = sharpe(r.Equity, periodsPerYear)
	p.MaxDrawdownPct = maxDrawdown(r.Equity)
	return p
}

// sharpe computes mean/stddev of per-point fractional equity returns, scaled
// by sqrt(periodsPerYear). Sample standard deviation; 0 when the deviation is
// zero or undefined.
func sharpe(equity []model.EquityPoint, periodsPerYear float64) float64 {
	returns := make([]float64, 0, len(equity))
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}

// maxDrawdown is the most negative fractional decline from the running peak,
// expressed as a percentage (<= 0). Empty curves report 0.
func maxDrawdown(equity []model.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0].Equity
	worst := 0.0
	for _, pt := range equity {
		if pt.Equity > peak {
			peak = pt.Equity
		}
		if peak == 0 {
			continue
		}
		dd := (pt.Equity - peak) / peak
		if dd < worst {
			worst = dd
		}
	}
	return worst * 100
}
