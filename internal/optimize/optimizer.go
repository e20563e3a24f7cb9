package optimize

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/risk"
	"strategy-backtest/internal/strategy"
)

// Settings are shared across every combination of a sweep. The risk and
// engine configs seed a fresh manager/engine per task, so no run-local state
// leaks between combinations.
type Settings struct {
	Risk           risk.Config
	Engine         backtest.Config
	PeriodsPerYear float64
	Workers        int // 0 = runtime.NumCPU()
}

// Row is one line of the sweep result table: the combination that produced it
// plus its metrics. A failed combination carries a nil Performance and the
// error text; it still occupies its row.
type Row struct {
	Params      map[string]any        `json:"params"`
	Performance *backtest.Performance `json:"performance,omitempty"`
	Err         string                `json:"error,omitempty"`
}

// Optimizer fans independent backtest runs out over a parameter grid. The bar
// series is shared read-only across all tasks.
type Optimizer struct {
	factory  strategy.Factory
	bars     []model.Bar
	settings Settings
}

func New(factory strategy.Factory, bars []model.Bar, settings Settings) (*Optimizer, error) {
	if factory == nil {
		return nil, fmt.Errorf("nil strategy factory")
	}
	if err := model.ValidateSeries(bars); err != nil {
		return nil, err
	}
	if err := settings.Risk.Validate(); err != nil {
		return nil, fmt.Errorf("risk config invalid: %w", err)
	}
	settings.Engine.ApplyDefaults()
	if err := settings.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("engine config invalid: %w", err)
	}
	return &Optimizer{factory: factory, bars: bars, settings: settings}, nil
}

// Run evaluates every combination in the grid on a bounded worker pool and
// returns one row per combination, in combination order. A failure inside one
// task never aborts the rest of the sweep.
func (o *Optimizer) Run(grid Grid) ([]Row, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	combos := grid.Combinations()
	workers := o.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	slog.Info("starting grid search", "combinations", len(combos), "workers", workers)

	rows := make([]Row, len(combos))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i] = o.runOne(combos[i])
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return rows, nil
}

// runOne executes one combination end to end. Errors and panics are contained
// here and converted into a metric-less row.
func (o *Optimizer) runOne(params map[string]any) (row Row) {
	row = Row{Params: params}
	defer func() {
		if r := recover(); r != nil {
			row.Performance = nil
			row.Err = fmt.Sprintf("panic: %v", r)
			slog.Error("combination panicked", "params", params, "panic", r)
		}
	}()

	strat, err := o.factory(params)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	bars, err := strat.Annotate(o.bars)
	if err != nil {
		row.Err = err.Error()
		return row
	}
	eng, err := backtest.New(o.settings.Engine, o.settings.Risk, bars)
	if err != nil {
		row.Err = err.Error()
		return row
	}

	perf := backtest.Analyze(eng.Run(), o.settings.PeriodsPerYear)
	row.Performance = &perf
	return row
}

// MetricNames lists the metric columns of the result table, in output order.
func MetricNames() []string {
	return []string{
		"total_trades",
		"winning_trades",
		"losing_trades",
		"win_rate_pct",
		"total_return_pct",
		"ending_balance",
		"sharpe_ratio",
		"max_drawdown_pct",
	}
}

// MetricValue extracts a named metric from a row; failed rows and unknown
// metrics report NaN.
func MetricValue(row Row, metric string) float64 {
	if row.Performance == nil {
		return math.NaN()
	}
	p := row.Performance
	switch metric {
	case "total_trades":
		return float64(p.TotalTrades)
	case "winning_trades":
		return float64(p.WinningTrades)
	case "losing_trades":
		return float64(p.LosingTrades)
	case "win_rate_pct":
		return p.WinRatePct
	case "total_return_pct":
		return p.TotalReturnPct
	case "ending_balance":
		return p.EndingBalance
	case "sharpe_ratio":
		return p.SharpeRatio
	case "max_drawdown_pct":
		return p.MaxDrawdownPct
	default:
		return math.NaN()
	}
}

// SortByMetric orders rows descending by the given metric, failed rows last.
func SortByMetric(rows []Row, metric string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := MetricValue(rows[i], metric), MetricValue(rows[j], metric)
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
}

// Best returns the row maximizing the metric, skipping failed rows. ok is
// false when no row produced the metric.
func Best(rows []Row, metric string) (best Row, ok bool) {
	bestVal := math.Inf(-1)
	for _, row := range rows {
		v := MetricValue(row, metric)
		if math.IsNaN(v) {
			continue
		}
		if v > bestVal {
			bestVal = v
			best = row
			ok = true
		}
	}
	return best, ok
}
