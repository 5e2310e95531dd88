package normalize

import (
	"strings"
	"time"
)

// Date formats seen in clinic spreadsheet exports. Day-first variants come
// before ISO because ambiguous strings like 03/04/2025 are day-first here.
var dateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/06",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable. The result keeps only the
// calendar date; any time-of-day component is discarded.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
