package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
)

var period = model.Period{Year: 2025, Month: time.March}

func rate(payer, consultType string, value int64, p model.Period) model.PayerRate {
	return model.PayerRate{
		PayerName:   payer,
		ConsultType: consultType,
		Period:      p,
		UnitValue:   decimal.NewFromInt(value),
	}
}

func TestLookup_Basic(t *testing.T) {
	tbl := NewTable([]model.PayerRate{
		rate("OSDE", "consulta_pediatrica", 5000, period),
		rate("Swiss Medical", "consulta_pediatrica", 4500, period),
	}, period)

	v, ok := tbl.Lookup("OSDE", "consulta_pediatrica")
	if !ok || !v.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("got %s ok=%v, want 5000", v, ok)
	}
	// Lookup is case- and accent-insensitive.
	v, ok = tbl.Lookup("  osde ", "consulta_pediatrica")
	if !ok || !v.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("normalized lookup: got %s ok=%v, want 5000", v, ok)
	}
}

func TestLookup_Unconfigured(t *testing.T) {
	tbl := NewTable([]model.PayerRate{
		rate("OSDE", "consulta_pediatrica", 5000, period),
	}, period)

	if v, ok := tbl.Lookup("OSDE", "consulta_ginecologica"); ok {
		t.Errorf("wrong consult type: got %s, want not-ok", v)
	}
	if v, ok := tbl.Lookup("IOMA", "consulta_pediatrica"); ok {
		t.Errorf("unknown payer: got %s, want not-ok", v)
	}
}

func TestLookup_OtherPeriodExcluded(t *testing.T) {
	other := model.Period{Year: 2025, Month: time.February}
	tbl := NewTable([]model.PayerRate{
		rate("OSDE", "consulta_pediatrica", 5000, other),
	}, period)

	if v, ok := tbl.Lookup("OSDE", "consulta_pediatrica"); ok {
		t.Errorf("rate from another period answered: got %s", v)
	}
}

func TestLookup_SelfPayAliasFolding(t *testing.T) {
	cases := []struct {
		name       string
		configured string
	}{
		{"configured_modern", SelfPay},
		{"configured_legacy", SelfPayLegacy},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tbl := NewTable([]model.PayerRate{
				rate(c.configured, "consulta_pediatrica", 3000, period),
			}, period)

			for _, payer := range []string{SelfPay, SelfPayLegacy, "particular", "particulares", ""} {
				v, ok := tbl.Lookup(payer, "consulta_pediatrica")
				if !ok || !v.Equal(decimal.NewFromInt(3000)) {
					t.Errorf("Lookup(%q): got %s ok=%v, want 3000", payer, v, ok)
				}
			}
		})
	}
}

func TestLookup_AliasFoldingKeepsExplicitRates(t *testing.T) {
	// Both spellings configured with different values: no back-fill happens
	// and each spelling answers with its own rate.
	tbl := NewTable([]model.PayerRate{
		rate(SelfPay, "consulta_pediatrica", 3000, period),
		rate(SelfPayLegacy, "consulta_pediatrica", 3500, period),
	}, period)

	v, _ := tbl.Lookup(SelfPay, "consulta_pediatrica")
	if !v.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("modern spelling: got %s, want 3000", v)
	}
	v, _ = tbl.Lookup(SelfPayLegacy, "consulta_pediatrica")
	if !v.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("legacy spelling: got %s, want 3500", v)
	}
}

func TestSelfPayAlias(t *testing.T) {
	for _, s := range []string{"", "  ", SelfPay, SelfPayLegacy, "Particular", "PARTICULARES"} {
		if !SelfPayAlias(s) {
			t.Errorf("SelfPayAlias(%q): got false, want true", s)
		}
	}
	for _, s := range []string{"OSDE", "particularidad"} {
		if SelfPayAlias(s) {
			t.Errorf("SelfPayAlias(%q): got true, want false", s)
		}
	}
}
