package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/config"
	"strategy-backtest/internal/data"
	"strategy-backtest/internal/model"
	"strategy-backtest/internal/optimize"
	"strategy-backtest/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "optimize":
		cmdOptimize(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --data bars.csv --config examples/config.yaml --out results/")
	fmt.Println("  cli optimize --data bars.csv --config examples/config.yaml --out results/")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest writes trades.csv and equity.csv plus a printed summary")
	fmt.Println("  - optimize writes optimization_results.csv, one row per grid combination")
	fmt.Println("  - --data accepts .csv or .json bar series")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to bar series (.csv or .json)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	cfg, bars := loadInputs(*dataPath, *cfgPath)

	strat, err := strategy.FromParams(cfg.Strategy.Name, cfg.Strategy.Params)
	if err != nil {
		fatal(err)
	}
	bars, err = strat.Annotate(bars)
	if err != nil {
		fatal(err)
	}

	engine, err := backtest.New(cfg.Backtest, cfg.Risk, bars)
	if err != nil {
		fatal(err)
	}
	res := engine.Run()
	perf := backtest.Analyze(res, cfg.Optimize.PeriodsPerYear)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err)
	}
	tradesPath := filepath.Join(*outDir, "trades.csv")
	equityPath := filepath.Join(*outDir, "equity.csv")
	if err := backtest.WriteTradesCSV(tradesPath, res.Trades); err != nil {
		fatal(err)
	}
	if err := backtest.WriteEquityCSV(equityPath, res.Equity); err != nil {
		fatal(err)
	}

	printPerformance(perf)
	fmt.Printf("\nWrote %d trades to %s and %d equity points to %s\n",
		len(res.Trades), tradesPath, len(res.Equity), equityPath)
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to bar series (.csv or .json)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	cfg, bars := loadInputs(*dataPath, *cfgPath)
	if len(cfg.Optimize.Grid) == 0 {
		fatal(fmt.Errorf("config has no optimize.grid section"))
	}

	name := cfg.Strategy.Name
	factory := func(params map[string]any) (strategy.Strategy, error) {
		return strategy.FromParams(name, params)
	}

	opt, err := optimize.New(factory, bars, optimize.Settings{
		Risk:           cfg.Risk,
		Engine:         cfg.Backtest,
		PeriodsPerYear: cfg.Optimize.PeriodsPerYear,
		Workers:        cfg.Optimize.Workers,
	})
	if err != nil {
		fatal(err)
	}
	rows, err := opt.Run(cfg.Optimize.Grid)
	if err != nil {
		fatal(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err)
	}
	outPath := filepath.Join(*outDir, "optimization_results.csv")
	if err := optimize.WriteResultsCSV(outPath, cfg.Optimize.Grid, rows); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), outPath)

	if best, ok := optimize.Best(rows, cfg.Optimize.Metric); ok {
		fmt.Printf("\nBest combination by %s:\n", cfg.Optimize.Metric)
		for _, p := range cfg.Optimize.Grid.Names() {
			fmt.Printf("  %-24s %v\n", p, best.Params[p])
		}
		printPerformance(*best.Performance)
	} else {
		fmt.Println("No combination completed successfully.")
	}
}

func loadInputs(dataPath, cfgPath string) (*config.Config, []model.Bar) {
	if dataPath == "" || cfgPath == "" {
		fmt.Println("--data and --config are required")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}

	var bars []model.Bar
	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".json":
		bars, err = data.LoadBarsJSON(dataPath)
	default:
		bars, err = data.LoadBarsCSV(dataPath)
	}
	if err != nil {
		fatal(err)
	}
	return cfg, bars
}

func printPerformance(p backtest.Performance) {
	fmt.Println("\n=== Performance ===")
	fmt.Printf("Total Trades:     %d\n", p.TotalTrades)
	fmt.Printf("Winning Trades:   %d\n", p.WinningTrades)
	fmt.Printf("Losing Trades:    %d\n", p.LosingTrades)
	fmt.Printf("Win Rate:         %.2f%%\n", p.WinRatePct)
	fmt.Printf("Total Return:     %.2f%%\n", p.TotalReturnPct)
	fmt.Printf("Ending Balance:   %.2f\n", p.EndingBalance)
	fmt.Printf("Sharpe Ratio:     %.3f\n", p.SharpeRatio)
	fmt.Printf("Max Drawdown:     %.2f%%\n", p.MaxDrawdownPct)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
