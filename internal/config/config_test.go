package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-backtest/internal/backtest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const sampleConfig = `
risk:
  account_balance: 10000
  risk_per_trade: 0.01
backtest:
  trade_direction: long
  use_atr_exits: true
  slippage: 0.001
  commission_rate: 0.0005
strategy:
  name: atr_bracket
  params:
    stop_multiplier: 2.0
    target_multiplier: 4.0
optimize:
  metric: sharpe_ratio
  workers: 4
  grid:
    - name: stop_multiplier
      values: [1.0, 1.5, 2.0]
    - name: target_multiplier
      values: [3.0, 4.0]
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.Risk.AccountBalance)
	assert.Equal(t, backtest.DirectionLong, cfg.Backtest.Direction)
	assert.True(t, cfg.Backtest.UseATRExits)
	assert.Equal(t, "atr_bracket", cfg.Strategy.Name)
	assert.Equal(t, "sharpe_ratio", cfg.Optimize.Metric)
	assert.Equal(t, 4, cfg.Optimize.Workers)
	require.Len(t, cfg.Optimize.Grid, 2)
	assert.Equal(t, 6, cfg.Optimize.Grid.Size())

	// Engine defaults are filled in during load.
	assert.Equal(t, 1.5, cfg.Backtest.TrailingStopMult)
	assert.Equal(t, 0.02, cfg.Backtest.DefaultStopPct)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
risk:
  account_balance: 5000
  risk_per_trade: 0.02
`))
	require.NoError(t, err)

	assert.Equal(t, backtest.DirectionLong, cfg.Backtest.Direction)
	assert.Equal(t, "total_return_pct", cfg.Optimize.Metric)
	assert.Equal(t, float64(backtest.DefaultPeriodsPerYear), cfg.Optimize.PeriodsPerYear)
	// Empty strategy name means the precomputed passthrough.
	assert.Equal(t, "", cfg.Strategy.Name)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
risk:
  account_balance: -1
  risk_per_trade: 0.01
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
risk:
  account_balance: 10000
  risk_per_trade: 0.01
strategy:
  name: no_such_strategy
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
risk:
  account_balance: 10000
  risk_per_trade: 0.01
optimize:
  grid:
    - name: x
      values: []
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "not: [valid"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadUnchecked_SkipsValidation(t *testing.T) {
	cfg, err := LoadUnchecked(writeConfig(t, `
risk:
  account_balance: -1
`))
	require.NoError(t, err)
	assert.Equal(t, -1.0, cfg.Risk.AccountBalance)
}
