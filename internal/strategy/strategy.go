package strategy

import (
	"fmt"

	"strategy-backtest/internal/model"
)

// Strategy turns a raw bar series into the annotated series the engine
// consumes. Implementations must not mutate the input slice; they return a
// copy when they change anything. The indicator math behind the signal column
// lives upstream; a Strategy here only rewrites the optional exit levels or
// passes precomputed annotations through.
type Strategy interface {
	Name() string
	Annotate(bars []model.Bar) ([]model.Bar, error)
}

// Factory builds a fresh Strategy from one parameter combination. Used by the
// grid search so every sweep task gets its own isolated instance.
type Factory func(params map[string]any) (Strategy, error)

// Precomputed passes an already-annotated series through unchanged.
type Precomputed struct{}

func (Precomputed) Name() string { return "precomputed" }

func (Precomputed) Annotate(bars []model.Bar) ([]model.Bar, error) {
	return bars, nil
}

// ATRBracket recomputes each bar's stop/target levels as close -/+ ATR times
// a multiplier, leaving bars without an ATR value untouched. Signals are kept
// as supplied.
type ATRBracket struct {
	StopMult   float64
	TargetMult float64
}

func (ATRBracket) Name() string { return "atr_bracket" }

func (s ATRBracket) Annotate(bars []model.Bar) ([]model.Bar, error) {
	if s.StopMult <= 0 || s.TargetMult <= 0 {
		return nil, fmt.Errorf("atr_bracket multipliers must be > 0 (stop=%v target=%v)", s.StopMult, s.TargetMult)
	}
	out := make([]model.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		if out[i].ATR == nil {
			continue
		}
		atr := *out[i].ATR
		out[i].ATRStop = model.Float(out[i].Close - atr*s.StopMult)
		out[i].ATRTarget = model.Float(out[i].Close + atr*s.TargetMult)
	}
	return out, nil
}

// FromParams builds a named strategy from a loosely typed parameter map, the
// shape strategy params take in YAML configs and API requests.
func FromParams(name string, params map[string]any) (Strategy, error) {
	switch name {
	case "", "precomputed":
		return Precomputed{}, nil
	case "atr_bracket":
		return ATRBracket{
			StopMult:   numParam(params, "stop_multiplier", 2.0),
			TargetMult: numParam(params, "target_multiplier", 4.0),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}

// Names lists the strategies FromParams accepts.
func Names() []string {
	return []string{"precomputed", "atr_bracket"}
}

func numParam(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}
