package settle

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/medliq/internal/model"
)

func shiftsInput() Input {
	return Input{
		BatchID:   uuid.New(),
		Specialty: model.ClinicalShifts,
		Period:    testPeriod,
		Roster:    testDoctors(),
		Rates: []model.PayerRate{
			{PayerName: "OSDE", ConsultType: "consulta_guardia", Period: testPeriod, UnitValue: dec(1000)},
			{PayerName: "IOMA", ConsultType: "consulta_guardia", Period: testPeriod, UnitValue: dec(3000)},
		},
		Groups: []model.DoctorGroupConfig{
			{DoctorID: 1, Period: testPeriod, Group: model.TierA},
			{DoctorID: 2, Period: testPeriod, Group: model.TierB},
		},
		Hourly: &model.HourlyRateConfig{
			Period:            testPeriod,
			Weekday8To16:      dec(300),
			Weekday16To8:      dec(400),
			Weekend:           dec(500),
			WeekendNight:      dec(800),
			GuaranteedMinHour: dec(600),
		},
	}
}

func shiftRow(index int, doctor, payer string, day int) ConsultRow {
	return ConsultRow{
		Index:      index,
		DoctorName: doctor,
		Patient:    "PACIENTE",
		Payer:      payer,
		Date:       datePtr(2025, time.March, day),
	}
}

func findDoctor(t *testing.T, res *Result, id int64) DoctorTotals {
	t.Helper()
	for _, d := range res.PerDoctor {
		if d.DoctorID != nil && *d.DoctorID == id {
			return d
		}
	}
	t.Fatalf("doctor %d not in PerDoctor", id)
	return DoctorTotals{}
}

func TestCompute_ShiftsTierAndApportionment(t *testing.T) {
	in := shiftsInput()
	in.Rows = []ConsultRow{
		shiftRow(2, "PEREZ, MARIA", "OSDE", 10),
		shiftRow(3, "PEREZ, MARIA", "IOMA", 11),
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Tier A: 70% of 4000 gross.
	d := findDoctor(t, res, 1)
	if !d.TierPercent.Equal(dec(70)) {
		t.Errorf("TierPercent: got %s, want 70", d.TierPercent)
	}
	if !d.Gross.Equal(dec(4000)) {
		t.Errorf("Gross: got %s, want 4000", d.Gross)
	}
	if !d.NetConsult.Equal(dec(2800)) {
		t.Errorf("NetConsult: got %s, want 2800", d.NetConsult)
	}
	if !d.Retained.Equal(dec(1200)) {
		t.Errorf("Retained: got %s, want 1200", d.Retained)
	}

	// Apportionment follows each line's share of gross, not a flat split.
	if !res.Lines[0].Computed.Equal(dec(700)) {
		t.Errorf("line 1 Computed: got %s, want 700 (2800 × 1000/4000)", res.Lines[0].Computed)
	}
	if !res.Lines[1].Computed.Equal(dec(2100)) {
		t.Errorf("line 2 Computed: got %s, want 2100 (2800 × 3000/4000)", res.Lines[1].Computed)
	}
}

func TestCompute_ShiftsHourBandsAndFloor(t *testing.T) {
	in := shiftsInput()
	in.Rows = []ConsultRow{
		shiftRow(2, "PEREZ, MARIA", "OSDE", 10),
	}
	in.HourRows = []HourRow{
		// Doctor 2 works only hour bands: 10 weekend + 2 weekend-night hours.
		{Index: 2, DoctorName: "GOMEZ, ANA", Weekend: dec(10), WeekendNight: dec(2)},
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(res.HourLines) != 1 {
		t.Fatalf("HourLines: got %d, want 1", len(res.HourLines))
	}
	h := res.HourLines[0]
	if !h.WeekendValue.Equal(dec(5000)) {
		t.Errorf("WeekendValue: got %s, want 5000", h.WeekendValue)
	}
	if !h.WeekendNightValue.Equal(dec(1600)) {
		t.Errorf("WeekendNightValue: got %s, want 1600", h.WeekendNightValue)
	}
	if !h.TotalBandValue.Equal(dec(6600)) {
		t.Errorf("TotalBandValue: got %s, want 6600", h.TotalBandValue)
	}

	// 12 worked hours × 600 guaranteed minimum = 7200 floor; band value 6600
	// falls short, so the difference tops the doctor up.
	d := findDoctor(t, res, 2)
	if !d.WorkedHours.Equal(dec(12)) {
		t.Errorf("WorkedHours: got %s, want 12", d.WorkedHours)
	}
	if !d.Floor.Equal(dec(7200)) {
		t.Errorf("Floor: got %s, want 7200", d.Floor)
	}
	if !d.TopUp.Equal(dec(600)) {
		t.Errorf("TopUp: got %s, want 600", d.TopUp)
	}
	if !d.Net.Equal(dec(7200)) {
		t.Errorf("Net: got %s, want floor 7200", d.Net)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Reason == model.ReasonMinimumTopUp {
			found = true
		}
	}
	if !found {
		t.Error("missing minimum-topup warning")
	}

	// Doctor 1 clears the floor on consultations alone: no top-up.
	d1 := findDoctor(t, res, 1)
	if !d1.TopUp.IsZero() {
		t.Errorf("doctor 1 TopUp: got %s, want 0", d1.TopUp)
	}
	if !d1.Net.Equal(d1.NetConsult.Add(d1.TotalBandValue)) {
		t.Errorf("doctor 1 Net: got %s, want NetConsult + band value", d1.Net)
	}

	if !res.Totals.TopUp.Equal(dec(600)) {
		t.Errorf("batch TopUp: got %s, want 600", res.Totals.TopUp)
	}
}

func TestCompute_ShiftsAboveFloorNoTopUp(t *testing.T) {
	in := shiftsInput()
	in.HourRows = []HourRow{
		// 2 weekend-night hours: band value 1600, floor 2 × 600 = 1200.
		{Index: 2, DoctorName: "GOMEZ, ANA", WeekendNight: dec(2)},
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	d := findDoctor(t, res, 2)
	if !d.TopUp.IsZero() {
		t.Errorf("TopUp: got %s, want 0", d.TopUp)
	}
	if !d.Net.Equal(dec(1600)) {
		t.Errorf("Net: got %s, want 1600", d.Net)
	}
}

func TestCompute_ShiftsWeekdayBandsDoNotCountTowardFloor(t *testing.T) {
	in := shiftsInput()
	in.HourRows = []HourRow{
		{Index: 2, DoctorName: "GOMEZ, ANA", Weekday8To16: dec(8), Weekend: dec(1)},
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	d := findDoctor(t, res, 2)
	// Only the single weekend hour counts: floor 600, not 5400.
	if !d.WorkedHours.Equal(dec(1)) {
		t.Errorf("WorkedHours: got %s, want 1", d.WorkedHours)
	}
	if !d.Floor.Equal(dec(600)) {
		t.Errorf("Floor: got %s, want 600", d.Floor)
	}
	// The weekday band still pays: 8 × 300 + 1 × 500 = 2900.
	if !d.Net.Equal(dec(2900)) {
		t.Errorf("Net: got %s, want 2900", d.Net)
	}
}

func TestCompute_ShiftsMissingGroupDefaultsToTierB(t *testing.T) {
	in := shiftsInput()
	in.Groups = nil
	in.Rows = []ConsultRow{
		shiftRow(2, "PEREZ, MARIA", "OSDE", 10),
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	d := findDoctor(t, res, 1)
	if !d.TierPercent.Equal(dec(40)) {
		t.Errorf("TierPercent: got %s, want default 40", d.TierPercent)
	}
	if !d.NetConsult.Equal(dec(400)) {
		t.Errorf("NetConsult: got %s, want 400", d.NetConsult)
	}

	found := false
	for _, w := range res.Warnings {
		if w.Reason == model.ReasonMissingGroup {
			found = true
		}
	}
	if !found {
		t.Error("missing missing-group warning")
	}
}

func TestCompute_ShiftsDateSubstitution(t *testing.T) {
	in := shiftsInput()
	noDate := shiftRow(2, "PEREZ, MARIA", "OSDE", 10)
	noDate.Date = nil
	outOfPeriod := shiftRow(3, "PEREZ, MARIA", "OSDE", 10)
	outOfPeriod.Date = datePtr(2024, time.December, 5)
	in.Rows = []ConsultRow{noDate, outOfPeriod}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2 (rows kept, not excluded)", len(res.Lines))
	}
	first := testPeriod.FirstDay()
	for _, l := range res.Lines {
		if !l.Date.Equal(first) {
			t.Errorf("row %d: date %s, want substituted %s", l.SourceRow, l.Date, first)
		}
	}
	if !hasWarning(res.Warnings, 2, model.ReasonDateSubstituted) ||
		!hasWarning(res.Warnings, 3, model.ReasonDateSubstituted) {
		t.Error("missing date-substituted warnings")
	}
}

func TestCompute_PayerRollupGrain(t *testing.T) {
	res, err := Compute(pediatricsInput([]ConsultRow{
		pedRow(2, "PEREZ, MARIA", "A", "OSDE", 10),
		pedRow(3, "PEREZ, MARIA", "B", "osde", 11),
		pedRow(4, "GOMEZ, ANA", "C", "OSDE", 12),
		pedRow(5, "PEREZ, MARIA", "D", "", 13),
	}))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(res.PerPayer) != 3 {
		t.Fatalf("PerPayer: got %d entries, want 3 (two doctors on OSDE stay separate)", len(res.PerPayer))
	}

	perez := res.PerPayer[0]
	if perez.DoctorID == nil || *perez.DoctorID != 1 || perez.Payer != "OSDE" {
		t.Fatalf("entry 0: got doctor %v payer %q, want 1 / OSDE", perez.DoctorID, perez.Payer)
	}
	if perez.Lines != 2 || !perez.Gross.Equal(dec(2000)) {
		t.Errorf("PEREZ/OSDE: got %d lines gross %s, want 2 / 2000 (case-folded)", perez.Lines, perez.Gross)
	}

	gomez := res.PerPayer[1]
	if gomez.DoctorID == nil || *gomez.DoctorID != 2 || gomez.Payer != "OSDE" {
		t.Fatalf("entry 1: got doctor %v payer %q, want 2 / OSDE", gomez.DoctorID, gomez.Payer)
	}
	if gomez.Lines != 1 || !gomez.Gross.Equal(dec(1000)) {
		t.Errorf("GOMEZ/OSDE: got %d lines gross %s, want 1 / 1000", gomez.Lines, gomez.Gross)
	}

	selfPay := res.PerPayer[2]
	if selfPay.Payer != "PARTICULAR" {
		t.Errorf("blank payer label: got %q, want PARTICULAR", selfPay.Payer)
	}
	if selfPay.DoctorName != "PEREZ, MARIA" || !selfPay.Gross.Equal(dec(800)) {
		t.Errorf("self-pay entry: got %q gross %s, want PEREZ, MARIA / 800", selfPay.DoctorName, selfPay.Gross)
	}
}

func TestCompute_SelfPaySpellingsShareRollup(t *testing.T) {
	res, err := Compute(pediatricsInput([]ConsultRow{
		pedRow(2, "PEREZ, MARIA", "A", "", 10),
		pedRow(3, "PEREZ, MARIA", "B", "Particulares", 11),
	}))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(res.PerPayer) != 1 {
		t.Fatalf("PerPayer: got %d entries, want 1 (blank and legacy spelling fold)", len(res.PerPayer))
	}
	p := res.PerPayer[0]
	if p.Payer != "PARTICULAR" || p.Lines != 2 || !p.Gross.Equal(dec(1600)) {
		t.Errorf("self-pay rollup: got %q / %d lines / gross %s, want PARTICULAR / 2 / 1600", p.Payer, p.Lines, p.Gross)
	}
}
