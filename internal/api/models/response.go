package models

import (
	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/optimize"
)

// BacktestResponse represents the response from a backtest run.
type BacktestResponse struct {
	Status         string                `json:"status"`
	InitialBalance float64               `json:"initial_balance"`
	FinalBalance   float64               `json:"final_balance"`
	Summary        backtest.Performance  `json:"summary"`
	Trades         []model.Trade         `json:"trades,omitempty"`
	Equity         []model.EquityPoint   `json:"equity,omitempty"`
}

// OptimizeResponse represents the response from a grid sweep. Rows appear in
// combination order; Best is the row maximizing the requested metric, absent
// when every combination failed.
type OptimizeResponse struct {
	Status string         `json:"status"`
	Metric string         `json:"metric"`
	Rows   []optimize.Row `json:"rows"`
	Best   *optimize.Row  `json:"best,omitempty"`
}

// StrategyInfo describes one selectable strategy.
type StrategyInfo struct {
	Name string `json:"name"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
