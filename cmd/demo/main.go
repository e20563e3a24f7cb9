package main

import (
	"fmt"
	"math"
	"time"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/optimize"
	"strategy-backtest/internal/risk"
	"strategy-backtest/internal/strategy"
)

// Self-contained demonstration: build a synthetic hourly series with a simple
// cyclical signal, run one backtest, then sweep the ATR bracket multipliers.
func main() {
	bars := syntheticBars(24 * 90)

	riskCfg := risk.Config{
		AccountBalance: 10000,
		RiskPerTrade:   0.01,
	}
	engineCfg := backtest.Config{
		Direction:      backtest.DirectionLong,
		UseATRExits:    true,
		Slippage:       0.001,
		CommissionRate: 0.0005,
	}

	strat, err := strategy.FromParams("atr_bracket", map[string]any{
		"stop_multiplier":   2.0,
		"target_multiplier": 4.0,
	})
	if err != nil {
		panic(err)
	}
	annotated, err := strat.Annotate(bars)
	if err != nil {
		panic(err)
	}

	engine, err := backtest.New(engineCfg, riskCfg, annotated)
	if err != nil {
		panic(err)
	}
	res := engine.Run()
	perf := backtest.Analyze(res, backtest.DefaultPeriodsPerYear)

	fmt.Println("=== Single run (atr_bracket 2.0 / 4.0) ===")
	fmt.Printf("trades=%d winners=%d win_rate=%.1f%% return=%.2f%% sharpe=%.2f max_dd=%.2f%%\n",
		perf.TotalTrades, perf.WinningTrades, perf.WinRatePct,
		perf.TotalReturnPct, perf.SharpeRatio, perf.MaxDrawdownPct)

	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams("atr_bracket", params)
	}
	opt, err := optimize.New(factory, bars, optimize.Settings{
		Risk:   riskCfg,
		Engine: engineCfg,
	})
	if err != nil {
		panic(err)
	}

	grid := optimize.Grid{
		{Name: "stop_multiplier", Values: []any{1.0, 1.5, 2.0, 2.5}},
		{Name: "target_multiplier", Values: []any{2.0, 3.0, 4.0}},
	}
	rows, err := opt.Run(grid)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\n=== Sweep (%d combinations) ===\n", len(rows))
	fmt.Printf("%-8s %-8s %-8s %-10s %-8s\n", "stop", "target", "trades", "return%", "sharpe")
	for _, row := range rows {
		if row.Performance == nil {
			fmt.Printf("%-8v %-8v failed: %s\n", row.Params["stop_multiplier"], row.Params["target_multiplier"], row.Err)
			continue
		}
		p := row.Performance
		fmt.Printf("%-8v %-8v %-8d %-10.2f %-8.2f\n",
			row.Params["stop_multiplier"], row.Params["target_multiplier"],
			p.TotalTrades, p.TotalReturnPct, p.SharpeRatio)
	}

	if best, ok := optimize.Best(rows, "total_return_pct"); ok {
		fmt.Printf("\nBest: stop=%v target=%v return=%.2f%%\n",
			best.Params["stop_multiplier"], best.Params["target_multiplier"],
			best.Performance.TotalReturnPct)
	}
}

// syntheticBars builds an hourly series: a slow sine cycle on top of a mild
// upward drift, entries near cycle troughs and exit signals near crests.
func syntheticBars(n int) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		phase := float64(i) / 48 * 2 * math.Pi
		price := 100 + 0.01*float64(i) + 5*math.Sin(phase)

		signal := 0
		switch {
		case math.Sin(phase) < -0.95:
			signal = 1
		case math.Sin(phase) > 0.95:
			signal = -1
		}

		bars[i] = model.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price * 1.004,
			Low:       price * 0.996,
			Close:     price,
			Volume:    1000,
			Signal:    signal,
			ATR:       model.Float(price * 0.01),
		}
	}
	return bars
}
