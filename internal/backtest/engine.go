package backtest

import (
	"errors"
	"fmt"
	"log/slog"

	"strategy-backtest/internal/model"
	"strategy-backtest/internal/risk"
)

// TradeDirection selects which entries the engine is allowed to take.
type TradeDirection string

const (
	DirectionLong  TradeDirection = "long"
	DirectionShort TradeDirection = "short"
	DirectionBoth  TradeDirection = "both"
)

func (d TradeDirection) allowsLong() bool  { return d == DirectionLong || d == DirectionBoth }
func (d TradeDirection) allowsShort() bool { return d == DirectionShort || d == DirectionBoth }

// Config is the engine configuration for one run.
type Config struct {
	Direction             TradeDirection `yaml:"trade_direction" json:"trade_direction"`
	UseATRExits           bool           `yaml:"use_atr_exits" json:"use_atr_exits"`
	DisableIndicatorExits bool           `yaml:"disable_indicator_exits" json:"disable_indicator_exits"`
	UseTrailing           bool           `yaml:"use_trailing_sl_tp" json:"use_trailing_sl_tp"`
	Slippage              float64        `yaml:"slippage" json:"slippage"`
	CommissionRate        float64        `yaml:"commission_rate" json:"commission_rate"`

	// Trailing recomputation multipliers, applied when UseTrailing is set and
	// the bar carries an ATR value.
	TrailingStopMult   float64 `yaml:"trailing_stop_multiplier" json:"trailing_stop_multiplier"`
	TrailingTargetMult float64 `yaml:"trailing_target_multiplier" json:"trailing_target_multiplier"`

	// Fallback bracket around the entry price when a bar has no precomputed
	// ATR stop/target levels.
	DefaultStopPct   float64 `yaml:"default_stop_pct" json:"default_stop_pct"`
	DefaultTargetPct float64 `yaml:"default_target_pct" json:"default_target_pct"`
}

// ApplyDefaults fills zero values with the standard settings.
func (c *Config) ApplyDefaults() {
	if c.Direction == "" {
		c.Direction = DirectionLong
	}
	if c.TrailingStopMult == 0 {
		c.TrailingStopMult = 1.5
	}
	if c.TrailingTargetMult == 0 {
		c.TrailingTargetMult = 3.0
	}
	if c.DefaultStopPct == 0 {
		c.DefaultStopPct = 0.02
	}
	if c.DefaultTargetPct == 0 {
		c.DefaultTargetPct = 0.02
	}
}

func (c Config) Validate() error {
	switch c.Direction {
	case DirectionLong, DirectionShort, DirectionBoth:
	default:
		return fmt.Errorf("trade_direction must be long, short or both, got %q", c.Direction)
	}
	if c.Slippage < 0 {
		return errors.New("slippage must be >= 0")
	}
	if c.CommissionRate < 0 {
		return errors.New("commission_rate must be >= 0")
	}
	if c.TrailingStopMult <= 0 || c.TrailingTargetMult <= 0 {
		return errors.New("trailing multipliers must be > 0")
	}
	// Both bracket percentages must stay below 100%: a stop or target a full
	// entry price away produces a non-positive level on one side.
	if c.DefaultStopPct <= 0 || c.DefaultStopPct >= 1 || c.DefaultTargetPct <= 0 || c.DefaultTargetPct >= 1 {
		return errors.New("default bracket percentages out of range")
	}
	return nil
}

// Engine replays a signal-annotated bar series once per Run call, simulating
// fills, stops, targets, commissions and slippage. It is strictly sequential:
// each bar's transition depends on the previous bar's position state.
type Engine struct {
	cfg  Config
	rm   *risk.Manager
	bars []model.Bar
}

// New validates the configuration and the bar series contract up front.
// The bars slice is shared read-only; the engine never mutates it.
func New(cfg Config, riskCfg risk.Config, bars []model.Bar) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config invalid: %w", err)
	}
	rm, err := risk.NewManager(riskCfg)
	if err != nil {
		return nil, fmt.Errorf("risk config invalid: %w", err)
	}
	if err := model.ValidateSeries(bars); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, rm: rm, bars: bars}, nil
}

// run-local mutable state; a fresh one is built per Run call so repeated runs
// over the same series are byte-identical.
type runState struct {
	balance float64
	pos     *model.Position
	openIdx int
	trades  []model.Trade
	equity  []model.EquityPoint
}

// Run executes the bar-by-bar state machine and returns the trade ledger,
// equity curve and final balance.
func (e *Engine) Run() *Result {
	st := &runState{
		balance: e.rm.Balance(),
		openIdx: -1,
		trades:  []model.Trade{},
		equity:  []model.EquityPoint{},
	}

	slog.Debug("starting backtest",
		"bars", len(e.bars),
		"initial_balance", st.balance,
		"direction", e.cfg.Direction)

	for _, bar := range e.bars {
		if st.pos == nil {
			e.tryEnter(st, bar)
			// No equity point while flat: the curve is only traced across
			// bars that begin with an open position.
			continue
		}
		e.manage(st, bar)
		st.equity = append(st.equity, model.EquityPoint{Timestamp: bar.Timestamp, Equity: st.balance})
	}

	return &Result{
		InitialBalance: e.rm.Balance(),
		FinalBalance:   st.balance,
		Trades:         st.trades,
		Equity:         st.equity,
	}
}

// tryEnter opens a position if the bar's signal fires an allowed entry.
func (e *Engine) tryEnter(st *runState, bar model.Bar) {
	var dir model.Direction
	switch {
	case bar.Signal == 1 && e.cfg.Direction.allowsLong():
		dir = model.Long
	case bar.Signal == -1 && e.cfg.Direction.allowsShort():
		dir = model.Short
	default:
		return
	}

	var entry, stop, target float64
	if dir == model.Long {
		entry = bar.Close * (1 + e.cfg.Slippage)
		stop, target = e.longBracket(entry, bar)
	} else {
		entry = bar.Close * (1 - e.cfg.Slippage)
		stop, target = e.shortBracket(entry, bar)
	}

	size := e.rm.PositionSize(entry, stop, bar.ATR)
	if size <= 0 {
		slog.Debug("entry skipped, zero position size", "timestamp", bar.Timestamp, "entry", entry, "stop", stop)
		return
	}

	entryCommission := entry * size * e.cfg.CommissionRate
	st.balance -= entryCommission

	st.trades = append(st.trades, model.Trade{
		EntryTime:  bar.Timestamp,
		EntryPrice: entry,
		Size:       size,
		StopLoss:   stop,
		TakeProfit: target,
		Direction:  dir,
		Commission: entryCommission,
	})
	st.openIdx = len(st.trades) - 1
	st.pos = &model.Position{
		Direction:  dir,
		Size:       size,
		EntryPrice: entry,
		StopLoss:   stop,
		TakeProfit: target,
	}

	slog.Debug("opened position",
		"direction", dir, "timestamp", bar.Timestamp,
		"entry", entry, "size", size, "stop", stop, "target", target)
}

// longBracket returns the initial stop/target for a long entry: the bar's
// precomputed ATR levels when ATR exits are enabled and present, otherwise
// the default percentage bracket around entry.
func (e *Engine) longBracket(entry float64, bar model.Bar) (stop, target float64) {
	if e.cfg.UseATRExits && bar.ATRStop != nil && bar.ATRTarget != nil {
		return *bar.ATRStop, *bar.ATRTarget
	}
	return entry * (1 - e.cfg.DefaultStopPct), entry * (1 + e.cfg.DefaultTargetPct)
}

// shortBracket mirrors longBracket. The precomputed levels on a bar are
// long-side prices, so for shorts the bracket reuses the distances they imply
// relative to the bar close. Non-positive distances fall back to the default
// percentage bracket.
func (e *Engine) shortBracket(entry float64, bar model.Bar) (stop, target float64) {
	if e.cfg.UseATRExits && bar.ATRStop != nil && bar.ATRTarget != nil {
		stopDist := bar.Close - *bar.ATRStop
		targetDist := *bar.ATRTarget - bar.Close
		if stopDist > 0 && targetDist > 0 {
			return entry + stopDist, entry - targetDist
		}
	}
	return entry * (1 + e.cfg.DefaultStopPct), entry * (1 - e.cfg.DefaultTargetPct)
}

// manage advances an open position through one bar: trailing updates first,
// then the exit tests. The stop is tested before the target on the same bar
// as an explicit tie-break, and ATR exits are tested before indicator exits.
func (e *Engine) manage(st *runState, bar model.Bar) {
	pos := st.pos
	short := pos.Direction == model.Short

	var exitPrice float64
	var reason model.ExitReason

	if e.cfg.UseATRExits && pos.StopLoss != 0 && pos.TakeProfit != 0 {
		if e.cfg.UseTrailing && bar.ATR != nil {
			pos.StopLoss = e.rm.TrailingStop(bar.Close, *bar.ATR, pos.StopLoss, e.cfg.TrailingStopMult, short)
			pos.TakeProfit = e.rm.TrailingTarget(bar.Close, *bar.ATR, pos.TakeProfit, e.cfg.TrailingTargetMult, short)
		}

		stopHit := bar.Low <= pos.StopLoss
		targetHit := bar.High >= pos.TakeProfit
		if short {
			stopHit = bar.High >= pos.StopLoss
			targetHit = bar.Low <= pos.TakeProfit
		}

		switch {
		case stopHit:
			exitPrice = e.exitFill(pos.StopLoss, short)
			reason = model.ExitStopLoss
			if e.cfg.UseTrailing {
				reason = model.ExitTrailingStopLoss
			}
		case targetHit:
			exitPrice = e.exitFill(pos.TakeProfit, short)
			reason = model.ExitTakeProfit
			if e.cfg.UseTrailing {
				reason = model.ExitTrailingTakeProfit
			}
		}
	}

	if reason == "" && !e.cfg.DisableIndicatorExits {
		exitSignal := -1
		if short {
			exitSignal = 1
		}
		if bar.Signal == exitSignal {
			exitPrice = e.exitFill(bar.Close, short)
			reason = model.ExitStrategy
		}
	}

	if reason == "" {
		return
	}

	gross := (exitPrice - pos.EntryPrice) * pos.Size
	if short {
		gross = (pos.EntryPrice - exitPrice) * pos.Size
	}
	exitCommission := exitPrice * pos.Size * e.cfg.CommissionRate
	st.balance += gross
	st.balance -= exitCommission

	net := gross - exitCommission
	ts := bar.Timestamp
	price := exitPrice

	trade := &st.trades[st.openIdx]
	trade.ExitTime = &ts
	trade.ExitPrice = &price
	trade.ExitReason = reason
	trade.NetPnL = &net
	trade.Commission += exitCommission

	slog.Debug("closed position",
		"timestamp", bar.Timestamp, "exit", exitPrice,
		"reason", reason, "net_pnl", net, "balance", st.balance)

	st.pos = nil
	st.openIdx = -1
}

// exitFill applies slippage against the trader on the exit side.
func (e *Engine) exitFill(level float64, short bool) float64 {
	if short {
		return level * (1 + e.cfg.Slippage)
	}
	return level * (1 - e.cfg.Slippage)
}
