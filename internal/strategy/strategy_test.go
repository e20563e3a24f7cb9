package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-backtest/internal/model"
)

func TestPrecomputed_PassesThrough(t *testing.T) {
	bars := []model.Bar{{Timestamp: time.Now(), Close: 100}}
	out, err := Precomputed{}.Annotate(bars)
	require.NoError(t, err)
	assert.Equal(t, bars, out)
}

func TestATRBracket_Annotate(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{Timestamp: origin, Close: 100, ATR: model.Float(2)},
		{Timestamp: origin.Add(time.Hour), Close: 110}, // no ATR, left untouched
	}

	out, err := ATRBracket{StopMult: 2, TargetMult: 4}.Annotate(bars)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NotNil(t, out[0].ATRStop)
	require.NotNil(t, out[0].ATRTarget)
	assert.Equal(t, 96.0, *out[0].ATRStop)
	assert.Equal(t, 108.0, *out[0].ATRTarget)

	assert.Nil(t, out[1].ATRStop)
	assert.Nil(t, out[1].ATRTarget)

	// The input slice is never mutated.
	assert.Nil(t, bars[0].ATRStop)
}

func TestATRBracket_RejectsBadMultipliers(t *testing.T) {
	_, err := ATRBracket{StopMult: 0, TargetMult: 4}.Annotate(nil)
	assert.Error(t, err)
	_, err = ATRBracket{StopMult: 2, TargetMult: -1}.Annotate(nil)
	assert.Error(t, err)
}

func TestFromParams(t *testing.T) {
	s, err := FromParams("", nil)
	require.NoError(t, err)
	assert.Equal(t, "precomputed", s.Name())

	s, err = FromParams("atr_bracket", map[string]any{
		"stop_multiplier":   1.5,
		"target_multiplier": 3,
	})
	require.NoError(t, err)
	require.IsType(t, ATRBracket{}, s)
	assert.Equal(t, 1.5, s.(ATRBracket).StopMult)
	assert.Equal(t, 3.0, s.(ATRBracket).TargetMult)

	// Missing params pick up defaults.
	s, err = FromParams("atr_bracket", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.(ATRBracket).StopMult)
	assert.Equal(t, 4.0, s.(ATRBracket).TargetMult)

	_, err = FromParams("martingale", nil)
	assert.Error(t, err)
}
