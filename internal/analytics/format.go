package analytics

import (
	"fmt"
	"strconv"
)

// TimeUnit selects how play durations are rendered. Formatting never
// feeds back into ranking or insight math, which stays in raw
// milliseconds.
type TimeUnit int

const (
	UnitMinutes TimeUnit = iota
	UnitHours
)

func ParseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "minutes":
		return UnitMinutes, nil
	case "hours":
		return UnitHours, nil
	}
	return 0, fmt.Errorf("unknown time unit %q: want minutes or hours", s)
}

func (u TimeUnit) String() string {
	if u == UnitHours {
		return "hours"
	}
	return "minutes"
}

// MaxPrecision bounds the decimal places a caller may request.
const MaxPrecision = 3

// FormatDuration renders a millisecond total in the given unit with a
// fixed number of decimal places, e.g. "90 min" or "1.50h".
func FormatDuration(ms int64, unit TimeUnit, precision int) string {
	if unit == UnitHours {
		hours := float64(ms) / (1000 * 60 * 60)
		return strconv.FormatFloat(hours, 'f', precision, 64) + "h"
	}
	minutes := float64(ms) / (1000 * 60)
	return strconv.FormatFloat(minutes, 'f', precision, 64) + " min"
}
