package normalize

import (
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock parses a time-of-day cell into minutes since midnight.
// Accepts "HH:MM", "HH:MM:SS", "HH.MM", and bare hour strings like "7".
// Returns nil for empty or unparseable input.
func ParseClock(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	sep := ":"
	if !strings.Contains(s, ":") && strings.Contains(s, ".") {
		sep = "."
	}
	parts := strings.Split(s, sep)

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return nil
	}
	m := 0
	if len(parts) > 1 {
		m, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || m < 0 || m > 59 {
			return nil
		}
	}
	v := h*60 + m
	return &v
}

// ClockFromDayFraction converts an Excel time serial (fraction of a day) to
// minutes since midnight. Returns nil when the value is out of [0, 1).
func ClockFromDayFraction(f float64) *int {
	if f < 0 || f >= 1 {
		return nil
	}
	v := int(math.Round(f * minutesPerDay))
	if v >= minutesPerDay {
		v = minutesPerDay - 1
	}
	return &v
}
