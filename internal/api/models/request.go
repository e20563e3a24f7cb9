package models

import (
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/optimize"
	"strategy-backtest/internal/risk"
)

// BacktestRequest represents the request body for running a single backtest.
// The caller supplies the already-annotated bar series; the server does not
// fetch market data.
type BacktestRequest struct {
	Bars    []model.Bar     `json:"bars" binding:"required"`
	Config  RunConfig       `json:"config" binding:"required"`
	Options BacktestOptions `json:"options,omitempty"`
}

// RunConfig bundles the risk, engine and strategy settings for one run.
type RunConfig struct {
	Risk     risk.Config     `json:"risk"`
	Backtest backtest.Config `json:"backtest"`
	Strategy StrategyConfig  `json:"strategy,omitempty"`
}

// StrategyConfig selects a strategy and its parameters.
type StrategyConfig struct {
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// BacktestOptions contains optional backtest parameters.
type BacktestOptions struct {
	IncludeTrades  bool    `json:"include_trades,omitempty"`
	IncludeEquity  bool    `json:"include_equity,omitempty"`
	PeriodsPerYear float64 `json:"periods_per_year,omitempty"` // 0 = hourly default
}

// OptimizeRequest represents a request to sweep a parameter grid.
type OptimizeRequest struct {
	Bars    []model.Bar     `json:"bars" binding:"required"`
	Config  RunConfig       `json:"config" binding:"required"`
	Grid    optimize.Grid   `json:"grid" binding:"required"`
	Options OptimizeOptions `json:"options,omitempty"`
}

// OptimizeOptions contains optional sweep parameters.
type OptimizeOptions struct {
	Workers        int     `json:"workers,omitempty"` // 0 = available parallelism
	Metric         string  `json:"metric,omitempty"`  // default: total_return_pct
	PeriodsPerYear float64 `json:"periods_per_year,omitempty"`
}
