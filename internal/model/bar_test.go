package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSeries(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Error(t, ValidateSeries(nil))
	assert.Error(t, ValidateSeries([]Bar{}))

	ordered := []Bar{
		{Timestamp: origin},
		{Timestamp: origin.Add(time.Hour)},
	}
	assert.NoError(t, ValidateSeries(ordered))

	duplicate := []Bar{
		{Timestamp: origin},
		{Timestamp: origin},
	}
	assert.Error(t, ValidateSeries(duplicate))

	backwards := []Bar{
		{Timestamp: origin.Add(time.Hour)},
		{Timestamp: origin},
	}
	assert.Error(t, ValidateSeries(backwards))
}
