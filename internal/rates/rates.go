package rates

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
)

// The self-pay catch-all exists under two historical spellings in the rate
// configuration. They are synonyms: a rate configured under either spelling
// answers lookups for both.
const (
	SelfPay       = "PARTICULAR"
	SelfPayLegacy = "PARTICULARES"
)

var (
	selfPayNorm       = normalize.Name(SelfPay)
	selfPayLegacyNorm = normalize.Name(SelfPayLegacy)
)

type key struct {
	payer       string
	consultType string
}

// Table resolves (payer, consult type) to a configured unit value for one
// period. Built once per batch from the immutable PayerRate snapshot.
type Table struct {
	period model.Period
	values map[key]decimal.Decimal
}

// NewTable filters the rate snapshot to the given period and folds the
// self-pay aliases: when only one spelling has a configured rate, the other
// spelling is back-filled with the same value before any lookups happen.
func NewTable(rows []model.PayerRate, period model.Period) *Table {
	t := &Table{period: period, values: make(map[key]decimal.Decimal)}

	consultTypes := make(map[string]bool)
	for _, r := range rows {
		if r.Period != period {
			continue
		}
		k := key{payer: normalize.Name(r.PayerName), consultType: r.ConsultType}
		t.values[k] = r.UnitValue
		consultTypes[r.ConsultType] = true
	}

	for ct := range consultTypes {
		a := key{payer: selfPayNorm, consultType: ct}
		b := key{payer: selfPayLegacyNorm, consultType: ct}
		va, haveA := t.values[a]
		vb, haveB := t.values[b]
		switch {
		case haveA && !haveB:
			t.values[b] = va
		case haveB && !haveA:
			t.values[a] = vb
		}
	}
	return t
}

// Lookup returns the unit value for the payer and consult type. An empty
// payer name is the self-pay designation. ok=false means the pair is not
// configured for the period; callers record a warning and bill zero, never
// abort.
func (t *Table) Lookup(payerName, consultType string) (decimal.Decimal, bool) {
	payer := normalize.Name(payerName)
	if payer == "" {
		payer = selfPayNorm
	}
	v, ok := t.values[key{payer: payer, consultType: consultType}]
	if !ok {
		return decimal.Zero, false
	}
	return v, true
}

// SelfPayAlias reports whether the payer name is one of the self-pay
// spellings (or blank, which is treated as self-pay).
func SelfPayAlias(payerName string) bool {
	n := normalize.Name(payerName)
	return n == "" || n == selfPayNorm || n == selfPayLegacyNorm
}
