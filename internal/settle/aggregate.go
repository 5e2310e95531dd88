package settle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
	"github.com/gyeh/medliq/internal/rates"
	"github.com/gyeh/medliq/internal/roster"
)

// doctorKey groups lines by resolved doctor id, falling back to the
// normalized free-text name for unresolved doctors.
func doctorKey(id *int64, name string) string {
	if id != nil {
		return fmt.Sprintf("id:%d", *id)
	}
	return "name:" + normalize.Name(name)
}

// grouper accumulates per-doctor totals in first-appearance order so output
// ordering is stable across runs.
type grouper struct {
	order []string
	byKey map[string]*DoctorTotals
}

func newGrouper() *grouper {
	return &grouper{byKey: make(map[string]*DoctorTotals)}
}

func (g *grouper) get(id *int64, name string) *DoctorTotals {
	k := doctorKey(id, name)
	if t, ok := g.byKey[k]; ok {
		return t
	}
	t := &DoctorTotals{DoctorID: id, DoctorName: name}
	g.byKey[k] = t
	g.order = append(g.order, k)
	return t
}

func (g *grouper) list() []DoctorTotals {
	out := make([]DoctorTotals, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, *g.byKey[k])
	}
	return out
}

// aggregateSimple is the one-pass rollup used by pediatrics, gynecology and
// admissions: per-line amounts are already final, so totals are plain sums.
// Gynecology's retention is the one wrinkle: it applies to the doctor's gross,
// not to individual lines.
func aggregateSimple(res *Result, pol *policy) {
	doctors := newGrouper()
	payers := newPayerGrouper()

	for i := range res.Lines {
		l := &res.Lines[i]
		if l.Duplicate {
			continue
		}
		t := doctors.get(l.DoctorID, l.DoctorName)
		t.Lines++
		t.Gross = t.Gross.Add(l.Billed)
		t.Retained = t.Retained.Add(l.Retention)
		t.Additional = t.Additional.Add(l.Additional)
		t.Net = t.Net.Add(l.Computed)

		p := payers.get(l.DoctorID, l.DoctorName, payerLabel(l.Payer))
		p.Lines++
		p.Gross = p.Gross.Add(l.Billed)
		p.Amount = p.Amount.Add(l.Computed)
	}

	if pol.aggRetentionPct.IsPositive() {
		for _, k := range doctors.order {
			t := doctors.byKey[k]
			t.Retained = t.Gross.Mul(pol.aggRetentionPct).Div(hundred).Round(2)
			t.Net = t.Net.Sub(t.Retained)
		}
	}

	res.PerDoctor = doctors.list()
	res.PerPayer = payers.list()

	var totals model.BatchTotals
	for i := range res.PerDoctor {
		t := &res.PerDoctor[i]
		totals.LineCount += t.Lines
		totals.Gross = totals.Gross.Add(t.Gross)
		totals.Retained = totals.Retained.Add(t.Retained)
		totals.Additive = totals.Additive.Add(t.Additional)
		totals.Net = totals.Net.Add(t.Net)
	}
	res.Totals = totals
}

// buildHourLines sums the hour-band rows per doctor and prices each band with
// the period's configured rates.
func buildHourLines(rows []HourRow, ix *roster.Index, cfg *model.HourlyRateConfig,
	batchID uuid.UUID, res *Result) []model.HoursLineItem {

	type acc struct {
		doctorID   *int64
		doctorName string
		bands      [4]decimal.Decimal
	}
	var order []string
	byKey := make(map[string]*acc)

	for _, row := range rows {
		doctor := ix.Resolve(row.DoctorName)
		var id *int64
		name := row.DoctorName
		if doctor != nil {
			v := doctor.ID
			id = &v
			name = doctor.FullName
		} else {
			res.warn(row.Index, model.ReasonUnresolvedDoctor, row.DoctorName)
		}
		k := doctorKey(id, row.DoctorName)
		a, ok := byKey[k]
		if !ok {
			a = &acc{doctorID: id, doctorName: name}
			byKey[k] = a
			order = append(order, k)
		}
		a.bands[0] = a.bands[0].Add(row.Weekday8To16)
		a.bands[1] = a.bands[1].Add(row.Weekday16To8)
		a.bands[2] = a.bands[2].Add(row.Weekend)
		a.bands[3] = a.bands[3].Add(row.WeekendNight)
	}

	out := make([]model.HoursLineItem, 0, len(order))
	for _, k := range order {
		a := byKey[k]
		h := model.HoursLineItem{
			BatchID:           batchID,
			DoctorID:          a.doctorID,
			DoctorName:        a.doctorName,
			Weekday8To16Hours: a.bands[0],
			Weekday16To8Hours: a.bands[1],
			WeekendHours:      a.bands[2],
			WeekendNightHours: a.bands[3],
		}
		h.Weekday8To16Value = a.bands[0].Mul(cfg.Weekday8To16).Round(2)
		h.Weekday16To8Value = a.bands[1].Mul(cfg.Weekday16To8).Round(2)
		h.WeekendValue = a.bands[2].Mul(cfg.Weekend).Round(2)
		h.WeekendNightValue = a.bands[3].Mul(cfg.WeekendNight).Round(2)
		h.TotalBandValue = h.Weekday8To16Value.
			Add(h.Weekday16To8Value).
			Add(h.WeekendValue).
			Add(h.WeekendNightValue)
		out = append(out, h)
	}
	return out
}

// aggregateShifts runs the two-pass guaranteed-minimum correction.
//
// Pass 1 sums each doctor's gross consultation billing, applies the tier
// percentage, and collects the hour-band values. Pass 2 computes the floor
// (guaranteed minimum × worked hours) and clamps the doctor's total up to it.
// The split is structural: the floor depends on totals that only exist after
// every row for the doctor has been seen, so per-line computation cannot do
// this.
func aggregateShifts(res *Result, groups map[int64]model.GroupType, cfg *model.HourlyRateConfig) {
	doctors := newGrouper()
	payers := newPayerGrouper()

	// Pass 1: per-doctor gross consultation totals.
	for i := range res.Lines {
		l := &res.Lines[i]
		t := doctors.get(l.DoctorID, l.DoctorName)
		t.Lines++
		t.Gross = t.Gross.Add(l.Billed)
	}

	for _, k := range doctors.order {
		t := doctors.byKey[k]
		group := model.TierB
		if t.DoctorID != nil {
			if g, ok := groups[*t.DoctorID]; ok {
				group = g
			} else {
				res.warn(0, model.ReasonMissingGroup, t.DoctorName)
			}
		} else {
			res.warn(0, model.ReasonMissingGroup, t.DoctorName)
		}
		t.TierPercent = group.SharePercent()
		t.NetConsult = t.Gross.Mul(t.TierPercent).Div(hundred).Round(2)
		t.Retained = t.Gross.Sub(t.NetConsult)
	}

	// Apportion each doctor's net consultation total across their lines by
	// the line's share of gross billing. Proportional, not per-row-flat.
	for i := range res.Lines {
		l := &res.Lines[i]
		t := doctors.byKey[doctorKey(l.DoctorID, l.DoctorName)]
		if t.Gross.IsPositive() {
			l.Computed = t.NetConsult.Mul(l.Billed).Div(t.Gross).Round(2)
		}
		p := payers.get(l.DoctorID, l.DoctorName, payerLabel(l.Payer))
		p.Lines++
		p.Gross = p.Gross.Add(l.Billed)
		p.Amount = p.Amount.Add(l.Computed)
	}

	// Fold hour-band totals into the per-doctor records. Doctors who only
	// appear on the hours sheet still get a totals entry.
	for i := range res.HourLines {
		h := &res.HourLines[i]
		t := doctors.get(h.DoctorID, h.DoctorName)
		t.TotalBandValue = t.TotalBandValue.Add(h.TotalBandValue)
		t.WorkedHours = t.WorkedHours.Add(h.WorkedHours())
	}

	// Pass 2: guaranteed-minimum floor per doctor.
	for _, k := range doctors.order {
		t := doctors.byKey[k]
		t.Floor = cfg.GuaranteedMinHour.Mul(t.WorkedHours).Round(2)
		base := t.NetConsult.Add(t.TotalBandValue)
		if base.LessThan(t.Floor) {
			t.TopUp = t.Floor.Sub(base)
			t.Net = t.Floor
			res.warn(0, model.ReasonMinimumTopUp,
				fmt.Sprintf("%s: top-up %s to reach floor %s", t.DoctorName, t.TopUp, t.Floor))
		} else {
			t.Net = base
		}
	}

	res.PerDoctor = doctors.list()
	res.PerPayer = payers.list()

	var totals model.BatchTotals
	for i := range res.PerDoctor {
		t := &res.PerDoctor[i]
		totals.LineCount += t.Lines
		totals.Gross = totals.Gross.Add(t.Gross)
		totals.Retained = totals.Retained.Add(t.Retained)
		totals.TopUp = totals.TopUp.Add(t.TopUp)
		totals.Net = totals.Net.Add(t.Net)
	}
	res.Totals = totals
}

// payerGrouper mirrors grouper for the doctor+payer rollups. The key carries
// both the doctor and the normalized payer label so two doctors billing the
// same payer stay separate rows.
type payerGrouper struct {
	order []string
	byKey map[string]*PayerTotals
}

func newPayerGrouper() *payerGrouper {
	return &payerGrouper{byKey: make(map[string]*PayerTotals)}
}

func (g *payerGrouper) get(id *int64, name, label string) *PayerTotals {
	k := doctorKey(id, name) + "|" + normalize.Name(label)
	if t, ok := g.byKey[k]; ok {
		return t
	}
	t := &PayerTotals{DoctorID: id, DoctorName: name, Payer: label}
	g.byKey[k] = t
	g.order = append(g.order, k)
	return t
}

func (g *payerGrouper) list() []PayerTotals {
	out := make([]PayerTotals, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, *g.byKey[k])
	}
	return out
}

// payerLabel canonicalizes the rollup label: blank payers and both historical
// self-pay spellings collapse to the one self-pay label.
func payerLabel(payer string) string {
	if rates.SelfPayAlias(payer) {
		return rates.SelfPay
	}
	return payer
}
