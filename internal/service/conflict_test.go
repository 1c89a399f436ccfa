package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	seconds, err := parseClock("09:30:45")
	require.NoError(t, err)
	assert.Equal(t, 9*3600+30*60+45, seconds)

	_, err = parseClock("25:00:00")
	assert.Error(t, err)
}

func TestOverlapsHalfOpen(t *testing.T) {
	// Touching endpoints are allowed.
	assert.False(t, overlaps(540, 660, 660, 780))
	assert.False(t, overlaps(660, 780, 540, 660))
	// Any shared instant conflicts.
	assert.True(t, overlaps(540, 660, 659, 780))
	assert.True(t, overlaps(540, 780, 600, 660))
	assert.True(t, overlaps(600, 660, 540, 780))
}

func TestWindowConflicts(t *testing.T) {
	conflict, err := windowConflicts("10:00:00", "12:00:00", "11:00:00", "13:00:00")
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = windowConflicts("10:00:00", "12:00:00", "12:00:00", "14:00:00")
	require.NoError(t, err)
	assert.False(t, conflict)

	// An overlap only visible at seconds granularity still conflicts.
	conflict, err = windowConflicts("10:00:00", "12:00:30", "12:00:15", "14:00:00")
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestFlightDuration(t *testing.T) {
	minutes, err := flightDuration("09:00:00", "11:30:00")
	require.NoError(t, err)
	assert.Equal(t, 150, minutes)

	// Arrival at or before departure lands the next day.
	minutes, err = flightDuration("23:00:00", "01:00:00")
	require.NoError(t, err)
	assert.Equal(t, 120, minutes)

	minutes, err = flightDuration("10:00:00", "10:00:00")
	require.NoError(t, err)
	assert.Equal(t, 24*60, minutes)
}
