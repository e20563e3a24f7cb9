package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"strategy-backtest/internal/backtest"
	"strategy-backtest/internal/optimize"
	"strategy-backtest/internal/risk"
	"strategy-backtest/internal/strategy"
)

// Config is the on-disk configuration shape (YAML) for the CLI.
type Config struct {
	Risk     risk.Config     `yaml:"risk"`
	Backtest backtest.Config `yaml:"backtest"`
	Strategy StrategyConfig  `yaml:"strategy"`
	Optimize OptimizeConfig  `yaml:"optimize"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type OptimizeConfig struct {
	Metric         string        `yaml:"metric"`
	Workers        int           `yaml:"workers"`
	PeriodsPerYear float64       `yaml:"periods_per_year"`
	Grid           optimize.Grid `yaml:"grid"`
}

// Load reads, defaults and validates a config file. Out-of-domain values are
// rejected here, before any run starts.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config without defaulting or validating it. Useful
// for debugging partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) ApplyDefaults() {
	c.Backtest.ApplyDefaults()
	if c.Optimize.Metric == "" {
		c.Optimize.Metric = "total_return_pct"
	}
	if c.Optimize.PeriodsPerYear == 0 {
		c.Optimize.PeriodsPerYear = backtest.DefaultPeriodsPerYear
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk config invalid: %w", err)
	}
	if err := c.Backtest.Validate(); err != nil {
		return fmt.Errorf("backtest config invalid: %w", err)
	}
	// Validate the strategy name by constructing one.
	if _, err := strategy.FromParams(c.Strategy.Name, c.Strategy.Params); err != nil {
		return fmt.Errorf("strategy config invalid: %w", err)
	}
	if c.Optimize.Workers < 0 {
		return errors.New("optimize.workers must be >= 0")
	}
	if len(c.Optimize.Grid) > 0 {
		if err := c.Optimize.Grid.Validate(); err != nil {
			return fmt.Errorf("optimize grid invalid: %w", err)
		}
	}
	return nil
}
