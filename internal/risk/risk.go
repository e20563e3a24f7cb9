package risk

import (
	"errors"
	"math"
)

// Config holds the risk settings for one backtest run. It is immutable once
// the run starts.
//
// MaxPositionSize == 0 means no cap.
type Config struct {
	AccountBalance  float64 `yaml:"account_balance" json:"account_balance"`
	RiskPerTrade    float64 `yaml:"risk_per_trade" json:"risk_per_trade"`
	DynamicSizing   bool    `yaml:"dynamic_position_sizing" json:"dynamic_position_sizing"`
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size"`
}

func (c Config) Validate() error {
	if c.AccountBalance <= 0 {
		return errors.New("account_balance must be > 0")
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return errors.New("risk_per_trade must be in (0, 1]")
	}
	if c.MaxPositionSize < 0 {
		return errors.New("max_position_size must be >= 0")
	}
	return nil
}

// Manager converts prices and volatility into position sizes and stop/target
// levels. All methods are pure functions over the fixed config; none of them
// fail, degenerate inputs resolve to defined fallbacks.
type Manager struct {
	cfg Config
}

func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

func (m *Manager) Balance() float64 { return m.cfg.AccountBalance }

// PositionSize returns the size for a trade entered at entry with the given
// stop. With dynamic sizing enabled and a volatility value supplied, size
// scales inversely with volatility; otherwise it is the risk amount divided
// by the stop distance. A nil or zero volatility value falls back to the
// distance formula even when dynamic sizing is enabled. A zero stop distance
// yields size 0, which the caller must treat as "do not enter".
func (m *Manager) PositionSize(entry, stop float64, atr *float64) float64 {
	riskAmount := m.cfg.AccountBalance * m.cfg.RiskPerTrade

	var size float64
	if m.cfg.DynamicSizing && atr != nil && *atr != 0 {
		size = riskAmount * (entry / *atr)
	} else {
		dist := math.Abs(entry - stop)
		if dist == 0 {
			return 0
		}
		size = riskAmount / dist
	}

	if m.cfg.MaxPositionSize > 0 {
		size = math.Min(size, m.cfg.MaxPositionSize)
	}
	if size < 0 {
		return 0
	}
	return size
}

// StopPrice places an initial stop a volatility multiple away from entry.
func (m *Manager) StopPrice(entry, atr, multiplier float64, short bool) float64 {
	if short {
		return entry + atr*multiplier
	}
	return entry - atr*multiplier
}

// TargetPrice places an initial target a volatility multiple away from entry.
func (m *Manager) TargetPrice(entry, atr, multiplier float64, short bool) float64 {
	if short {
		return entry - atr*multiplier
	}
	return entry + atr*multiplier
}

// TrailingStop proposes a stop recomputed from the current price and only
// ever tightens: for longs the stop may only move up, for shorts only down.
func (m *Manager) TrailingStop(current, atr, currentStop, multiplier float64, short bool) float64 {
	if short {
		return math.Min(current+atr*multiplier, currentStop)
	}
	return math.Max(current-atr*multiplier, currentStop)
}

// TrailingTarget proposes a target recomputed from the current price and only
// ever moves toward the price: down for longs, up for shorts.
func (m *Manager) TrailingTarget(current, atr, currentTarget, multiplier float64, short bool) float64 {
	if short {
		return math.Max(current-atr*multiplier, currentTarget)
	}
	return math.Min(current+atr*multiplier, currentTarget)
}
