package normalize

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string // empty means ok=false expected
	}{
		{"1234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1234,56", "1234.56"},
		{"20,000", "20000"},
		{"$ 500", "500"},
		{"ARS 1.500,00", "1500"},
		{"0", "0"},
		{"", ""},
		{"abc", ""},
	}
	for _, c := range cases {
		got, ok := ParseAmount(c.in)
		if c.want == "" {
			if ok {
				t.Errorf("ParseAmount(%q): got %s, want not-ok", c.in, got)
			}
			continue
		}
		if !ok {
			t.Errorf("ParseAmount(%q): got not-ok, want %s", c.in, c.want)
			continue
		}
		if got.String() != c.want {
			t.Errorf("ParseAmount(%q): got %s, want %s", c.in, got, c.want)
		}
	}
}
