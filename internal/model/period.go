package model

import (
	"fmt"
	"time"
)

// Period identifies one settlement month. A batch is keyed by
// (specialty, period); reprocessing the same key replaces its derived rows.
type Period struct {
	Year  int
	Month time.Month
}

// FirstDay returns midnight UTC on the first day of the period. Clinical-shift
// rows with missing dates are substituted with this value.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Valid reports whether the period is a plausible settlement month.
func (p Period) Valid() bool {
	return p.Year >= 2000 && p.Year <= 2100 && p.Month >= time.January && p.Month <= time.December
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
