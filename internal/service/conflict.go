package service

import (
	"fmt"
	"time"
)

const clockLayout = "15:04:05"

// parseClock converts an HH:MM:SS wall-clock string to seconds after
// midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", value, err)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints are not a conflict: a flight
// may depart at the exact moment another arrives.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// flightDuration returns the scheduled block time in minutes. An arrival at
// or before the departure is read as landing the next day.
func flightDuration(departure, arrival string) (int, error) {
	dep, err := parseClock(departure)
	if err != nil {
		return 0, err
	}
	arr, err := parseClock(arrival)
	if err != nil {
		return 0, err
	}
	seconds := arr - dep
	if seconds <= 0 {
		seconds += 24 * 3600
	}
	return seconds / 60, nil
}

// windowConflicts reports whether two same-day flight windows, given as
// HH:MM:SS pairs, overlap.
func windowConflicts(aDep, aArr, bDep, bArr string) (bool, error) {
	a1, err := parseClock(aDep)
	if err != nil {
		return false, err
	}
	a2, err := parseClock(aArr)
	if err != nil {
		return false, err
	}
	b1, err := parseClock(bDep)
	if err != nil {
		return false, err
	}
	b2, err := parseClock(bArr)
	if err != nil {
		return false, err
	}
	return overlaps(a1, a2, b1, b2), nil
}
