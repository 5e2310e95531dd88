package normalize

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string // "2006-01-02", empty means nil expected
	}{
		{"15/03/2025", "2025-03-15"},
		{"3/4/2025", "2025-04-03"}, // day-first, never April 3rd read as March 4th
		{"15-03-2025", "2025-03-15"},
		{"2025-03-15", "2025-03-15"},
		{"2025/03/15", "2025-03-15"},
		{"15/03/2025 14:30", "2025-03-15"},
		{"2025-03-15T09:00:00", "2025-03-15"},
		{"", ""},
		{"not a date", ""},
		{"99/99/2025", ""},
	}
	for _, c := range cases {
		got := ParseDate(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q): got %v, want nil", c.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseDate(%q): got nil, want %s", c.in, c.want)
			continue
		}
		if got.Format("2006-01-02") != c.want {
			t.Errorf("ParseDate(%q): got %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
		if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
			t.Errorf("ParseDate(%q): time-of-day not truncated: %v", c.in, got)
		}
		if got.Location() != time.UTC {
			t.Errorf("ParseDate(%q): not UTC: %v", c.in, got.Location())
		}
	}
}
