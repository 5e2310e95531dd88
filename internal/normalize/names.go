package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiSpace = regexp.MustCompile(`\s+`)

// stripDiacritics decomposes to NFD, drops combining marks, recomposes.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name lowercases, strips diacritics, collapses whitespace, and trims.
// Doctor and payer names from spreadsheets arrive in every imaginable casing
// and accent variant; all matching runs on this canonical form.
func Name(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripDiacritics, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits an already-normalized name on whitespace and commas and keeps
// tokens longer than two runes. Connectives ("de", "la") and initials drop out.
func Tokens(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len([]rune(p)) > 2 {
			out = append(out, p)
		}
	}
	return out
}

// Surname returns the normalized surname segment: the part before the first
// comma, or the first whitespace token when there is no comma.
func Surname(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
