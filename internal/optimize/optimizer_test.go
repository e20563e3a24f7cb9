package optimize

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/risk"
	"strategy-backtest/internal/strategy"
)

func sweepBars() []model.Bar {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{100, 100, 100, 104, 104, 100}
	signals := []int{1, 0, -1, 1, -1, 0}
	bars := make([]model.Bar, len(prices))
	for i := range prices {
		bars[i] = model.Bar{
			Timestamp: origin.Add(time.Duration(i) * time.Hour),
			Open:      prices[i], High: prices[i], Low: prices[i], Close: prices[i],
			Volume: 1000,
			Signal: signals[i],
			ATR:    model.Float(2),
		}
	}
	return bars
}

func sweepSettings() Settings {
	return Settings{
		Risk:   risk.Config{AccountBalance: 10000, RiskPerTrade: 0.01},
		Engine: backtest.Config{Direction: backtest.DirectionLong},
	}
}

func TestRun_OneRowPerCombination(t *testing.T) {
	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams("atr_bracket", params)
	}
	opt, err := New(factory, sweepBars(), sweepSettings())
	require.NoError(t, err)

	grid := Grid{
		{Name: "stop_multiplier", Values: []any{1.0, 2.0}},
		{Name: "target_multiplier", Values: []any{3.0, 4.0, 5.0}},
	}
	rows, err := opt.Run(grid)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	// Rows come back in combination order regardless of worker scheduling.
	combos := grid.Combinations()
	for i, row := range rows {
		assert.Equal(t, combos[i], row.Params)
		require.NotNil(t, row.Performance, "row %d should have metrics", i)
		assert.Empty(t, row.Err)
	}
}

func TestRun_FailedCombinationDoesNotAbortSweep(t *testing.T) {
	// A negative multiplier makes the strategy's Annotate call fail.
	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams("atr_bracket", params)
	}
	opt, err := New(factory, sweepBars(), sweepSettings())
	require.NoError(t, err)

	grid := Grid{
		{Name: "stop_multiplier", Values: []any{-1.0, 2.0}},
		{Name: "target_multiplier", Values: []any{4.0}},
	}
	rows, err := opt.Run(grid)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Performance)
	assert.NotEmpty(t, rows[0].Err)
	assert.True(t, math.IsNaN(MetricValue(rows[0], "total_return_pct")))

	require.NotNil(t, rows[1].Performance)
	assert.Empty(t, rows[1].Err)
}

func TestRun_PanicBecomesRow(t *testing.T) {
	factory := func(params map[string]any) (strategy.Strategy, error) {
		if params["boom"] == true {
			panic("strategy blew up")
		}
		return strategy.Precomputed{}, nil
	}
	opt, err := New(factory, sweepBars(), sweepSettings())
	require.NoError(t, err)

	rows, err := opt.Run(Grid{{Name: "boom", Values: []any{true, false}}})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Performance)
	assert.Contains(t, rows[0].Err, "panic")
	require.NotNil(t, rows[1].Performance)
}

func TestRun_CombinationsAreIsolated(t *testing.T) {
	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams("atr_bracket", params)
	}
	settings := sweepSettings()
	settings.Workers = 4
	opt, err := New(factory, sweepBars(), settings)
	require.NoError(t, err)

	grid := Grid{{Name: "stop_multiplier", Values: []any{1.0, 1.0, 1.0, 1.0}}}

	// Identical combinations must produce identical rows however the pool
	// schedules them.
	rows, err := opt.Run(grid)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, rows[0].Performance, rows[i].Performance)
	}
}

func TestBestAndSort(t *testing.T) {
	perf := func(ret float64) *backtest.Performance {
		return &backtest.Performance{TotalReturnPct: ret}
	}
	rows := []Row{
		{Params: map[string]any{"x": 1}, Performance: perf(1.5)},
		{Params: map[string]any{"x": 2}, Err: "bad combo"},
		{Params: map[string]any{"x": 3}, Performance: perf(4.0)},
		{Params: map[string]any{"x": 4}, Performance: perf(-2.0)},
	}

	best, ok := Best(rows, "total_return_pct")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 3}, best.Params)

	SortByMetric(rows, "total_return_pct")
	assert.Equal(t, map[string]any{"x": 3}, rows[0].Params)
	assert.Equal(t, map[string]any{"x": 1}, rows[1].Params)
	assert.Equal(t, map[string]any{"x": 4}, rows[2].Params)
	// Failed rows sink to the end.
	assert.Equal(t, map[string]any{"x": 2}, rows[3].Params)

	_, ok = Best([]Row{{Err: "nope"}}, "total_return_pct")
	assert.False(t, ok)
}

func TestNew_RejectsBadInput(t *testing.T) {
	factory := func(map[string]any) (strategy.Strategy, error) {
		return strategy.Precomputed{}, nil
	}

	_, err := New(nil, sweepBars(), sweepSettings())
	assert.Error(t, err)

	_, err = New(factory, nil, sweepSettings())
	assert.Error(t, err)

	bad := sweepSettings()
	bad.Risk.AccountBalance = 0
	_, err = New(factory, sweepBars(), bad)
	assert.Error(t, err)
}

func TestMetricValue_UnknownMetric(t *testing.T) {
	row := Row{Performance: &backtest.Performance{TotalTrades: 3}}
	assert.Equal(t, 3.0, MetricValue(row, "total_trades"))
	assert.True(t, math.IsNaN(MetricValue(row, "no_such_metric")))

	for _, name := range MetricNames() {
		assert.False(t, math.IsNaN(MetricValue(row, name)), fmt.Sprintf("metric %s", name))
	}
}
