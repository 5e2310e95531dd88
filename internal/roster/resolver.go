package roster

import (
	"strings"

	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
)

// candidate is a roster entry with its precomputed normalized forms.
type candidate struct {
	doctor  *model.Doctor
	raw     string
	norm    string
	tokens  []string
	surname string
}

// query is a free-text name with the same precomputed forms.
type query struct {
	raw     string
	norm    string
	tokens  []string
	surname string
}

// strategy attempts to pick one candidate for the query. Strategies are pure
// and scanned in roster order, so resolution is deterministic for a fixed
// roster ordering.
type strategy func(q query, roster []candidate) *model.Doctor

// strategies in precedence order. The first strategy returning a doctor wins.
var strategies = []strategy{
	matchRawExact,
	matchNormalizedExact,
	matchWordSet,
	matchSurname,
	matchContainment,
	matchTokenOverlap,
}

// Index resolves free-text doctor names against a roster. Resolution is
// memoized: each distinct name is resolved once per batch, so reprocessing a
// 5,000-row export does not rescan the roster per row.
type Index struct {
	roster []candidate
	memo   map[string]*model.Doctor
}

// NewIndex builds an Index over the given roster. The roster slice is not
// copied; callers pass the immutable per-batch snapshot.
func NewIndex(doctors []model.Doctor) *Index {
	cands := make([]candidate, len(doctors))
	for i := range doctors {
		raw := strings.TrimSpace(doctors[i].FullName)
		norm := normalize.Name(raw)
		cands[i] = candidate{
			doctor:  &doctors[i],
			raw:     raw,
			norm:    norm,
			tokens:  normalize.Tokens(norm),
			surname: normalize.Surname(norm),
		}
	}
	return &Index{roster: cands, memo: make(map[string]*model.Doctor)}
}

// Resolve matches a free-text name to a roster entry, or returns nil when no
// strategy qualifies. A nil result is a warning condition for callers, never
// an error: the row keeps processing with a null doctor reference.
func (ix *Index) Resolve(name string) *model.Doctor {
	key := strings.TrimSpace(name)
	if key == "" {
		return nil
	}
	if d, ok := ix.memo[key]; ok {
		return d
	}

	norm := normalize.Name(key)
	q := query{
		raw:     key,
		norm:    norm,
		tokens:  normalize.Tokens(norm),
		surname: normalize.Surname(norm),
	}

	var match *model.Doctor
	for _, s := range strategies {
		if match = s(q, ix.roster); match != nil {
			break
		}
	}
	ix.memo[key] = match
	return match
}

// matchRawExact compares the trimmed input against the trimmed roster name
// without any normalization.
func matchRawExact(q query, roster []candidate) *model.Doctor {
	for i := range roster {
		if roster[i].raw == q.raw {
			return roster[i].doctor
		}
	}
	return nil
}

func matchNormalizedExact(q query, roster []candidate) *model.Doctor {
	if q.norm == "" {
		return nil
	}
	for i := range roster {
		if roster[i].norm == q.norm {
			return roster[i].doctor
		}
	}
	return nil
}

// matchWordSet matches when both names contain exactly the same token set,
// regardless of order ("perez maria" vs "maria perez").
func matchWordSet(q query, roster []candidate) *model.Doctor {
	if len(q.tokens) == 0 {
		return nil
	}
	qset := tokenSet(q.tokens)
	for i := range roster {
		if len(roster[i].tokens) != len(qset) {
			continue
		}
		if sameSet(qset, roster[i].tokens) {
			return roster[i].doctor
		}
	}
	return nil
}

// matchSurname compares surname segments exactly; among candidates sharing
// the surname, the one with the most additional overlapping tokens wins.
// Ties keep the first candidate encountered.
func matchSurname(q query, roster []candidate) *model.Doctor {
	if q.surname == "" {
		return nil
	}
	qset := tokenSet(q.tokens)

	var best *model.Doctor
	bestOverlap := -1
	for i := range roster {
		if roster[i].surname != q.surname {
			continue
		}
		overlap := 0
		for _, t := range roster[i].tokens {
			if t == q.surname {
				continue
			}
			if qset[t] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = roster[i].doctor
			bestOverlap = overlap
		}
	}
	return best
}

// matchContainment matches when every query token appears as a substring of
// the candidate's normalized name, or every candidate token appears in the
// query's. Catches truncated exports like "rodriguez m" vs "rodriguez marta".
func matchContainment(q query, roster []candidate) *model.Doctor {
	if q.norm == "" {
		return nil
	}
	for i := range roster {
		if roster[i].norm == "" {
			continue
		}
		if allContained(q.tokens, roster[i].norm) || allContained(roster[i].tokens, q.norm) {
			return roster[i].doctor
		}
	}
	return nil
}

// matchTokenOverlap is the similarity fallback: at least two tokens must
// overlap (substring match in either direction); the highest count wins and
// ties keep the first candidate.
func matchTokenOverlap(q query, roster []candidate) *model.Doctor {
	var best *model.Doctor
	bestCount := 0
	for i := range roster {
		count := 0
		for _, qt := range q.tokens {
			for _, ct := range roster[i].tokens {
				if strings.Contains(ct, qt) || strings.Contains(qt, ct) {
					count++
					break
				}
			}
		}
		if count >= 2 && count > bestCount {
			best = roster[i].doctor
			bestCount = count
		}
	}
	return best
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func sameSet(set map[string]bool, tokens []string) bool {
	seen := 0
	for _, t := range tokens {
		if !set[t] {
			return false
		}
		seen++
	}
	return seen == len(set)
}

func allContained(tokens []string, in string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !strings.Contains(in, t) {
			return false
		}
	}
	return true
}
