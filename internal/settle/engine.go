package settle

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
	"github.com/gyeh/medliq/internal/rates"
	"github.com/gyeh/medliq/internal/roster"
)

// Batch-level failures. Row-level anomalies never surface as errors; they
// accumulate in Result.Warnings.
var (
	ErrUnknownSpecialty    = errors.New("unknown specialty")
	ErrMissingHourlyConfig = errors.New("hourly rate configuration missing for period")
	ErrNoProcessableRows   = errors.New("no processable rows in batch")
)

// Compute runs the full settlement computation for one batch. It is a pure,
// single-threaded transform: identical inputs always produce identical
// output, so a re-run over the same export yields the same financial numbers.
func Compute(in Input) (*Result, error) {
	pol, ok := policyFor(in.Specialty)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecialty, in.Specialty)
	}
	if in.Specialty == model.ClinicalShifts && in.Hourly == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingHourlyConfig, in.Period)
	}

	// Memoization pre-pass: name and rate maps are built once from the full
	// input and passed explicitly, never cached at module level.
	index := roster.NewIndex(in.Roster)
	table := rates.NewTable(in.Rates, in.Period)
	additives := additiveMap(in.Additional, in.Specialty, in.Period)
	groups := groupMap(in.Groups, in.Period)

	res := &Result{BatchID: in.BatchID}

	for _, row := range in.Rows {
		line, keep := processRow(&pol, in.Period, index, table, additives, in.BatchID, row, res)
		if keep {
			res.Lines = append(res.Lines, line)
		}
	}

	switch pol.dedup {
	case dedupTuple:
		res.Lines = dropTupleDuplicates(res.Lines, res)
	case dedupFCFS:
		markFCFSDuplicates(res.Lines, res)
	}

	if in.Specialty == model.ClinicalShifts {
		res.HourLines = buildHourLines(in.HourRows, index, in.Hourly, in.BatchID, res)
	}

	if len(res.Lines) == 0 && len(res.HourLines) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoProcessableRows, in.Specialty, in.Period)
	}

	if in.Specialty == model.ClinicalShifts {
		aggregateShifts(res, groups, in.Hourly)
	} else {
		aggregateSimple(res, &pol)
	}
	return res, nil
}

func (r *Result) warn(row int, reason model.Reason, detail string) {
	r.Warnings = append(r.Warnings, model.Warning{Row: row, Reason: reason, Detail: detail})
}

// processRow classifies one row as processed (a LineItem) or excluded (a
// warning). Bad data never aborts the batch.
func processRow(pol *policy, period model.Period, ix *roster.Index, tbl *rates.Table,
	additives map[string]decimal.Decimal, batchID uuid.UUID, row ConsultRow, res *Result) (model.LineItem, bool) {

	if pol.scheduleGroup != "" && normalize.Name(row.ScheduleGroup) != pol.scheduleGroup {
		res.warn(row.Index, model.ReasonGroupMismatch, row.ScheduleGroup)
		return model.LineItem{}, false
	}
	if pol.requireDuration && (row.DurationMin == nil || *row.DurationMin == 0) {
		res.warn(row.Index, model.ReasonZeroDuration, row.DoctorName)
		return model.LineItem{}, false
	}

	date := period.FirstDay()
	switch {
	case row.Date != nil && (pol.missingDate == dateExclude || period.Contains(*row.Date)):
		date = *row.Date
	case pol.missingDate == dateSubstitute:
		// Shift schedules have no sensible "no date" reading; keep the row
		// on the period's first day and let the clerk review.
		res.warn(row.Index, model.ReasonDateSubstituted, row.DoctorName)
	default:
		res.warn(row.Index, model.ReasonInvalidDate, row.DoctorName)
		return model.LineItem{}, false
	}

	doctor := ix.Resolve(row.DoctorName)
	if doctor == nil {
		res.warn(row.Index, model.ReasonUnresolvedDoctor, row.DoctorName)
	}

	var billed decimal.Decimal
	if pol.useFlatFee {
		billed = pol.flatFee
	} else {
		v, ok := tbl.Lookup(row.Payer, pol.consultType)
		if !ok {
			res.warn(row.Index, model.ReasonUnconfiguredRate, row.Payer)
		}
		billed = v
	}

	line := model.LineItem{
		BatchID:    batchID,
		SourceRow:  row.Index,
		DoctorName: row.DoctorName,
		Date:       date,
		Minutes:    row.Minutes,
		Patient:    row.Patient,
		Payer:      row.Payer,
		Billed:     billed,
	}
	if doctor != nil {
		id := doctor.ID
		line.DoctorID = &id
	}

	if pol.trainingExemption && isTrainingExempt(doctor, date, row.Minutes) {
		line.Billed = decimal.Zero
		line.Computed = decimal.Zero
		line.TrainingExempt = true
		res.warn(row.Index, model.ReasonTrainingExemption, row.DoctorName)
		return line, true
	}

	switch {
	case pol.apportioned:
		// Clinical shifts: computed amounts depend on the doctor's batch
		// totals and are assigned during aggregation.
	case pol.retentionPct.IsPositive():
		pct := pol.retentionPct
		line.RetentionPct = &pct
		line.Retention = billed.Mul(pct).Div(hundred).Round(2)
		if pol.perPayerAdditive {
			line.Additional = additives[additiveKey(row.Payer)]
		}
		line.Computed = billed.Sub(line.Retention).Add(line.Additional)
		if line.Computed.IsNegative() {
			line.Computed = decimal.Zero
		}
	default:
		line.Computed = billed
	}
	return line, true
}

// isTrainingExempt applies the resident teaching-window rule: resident
// doctors are unpaid Monday through Saturday between 07:00 inclusive and
// 15:00 exclusive. Sundays and unresolved doctors are never exempt.
func isTrainingExempt(doctor *model.Doctor, date time.Time, minutes *int) bool {
	if doctor == nil || !doctor.Resident() {
		return false
	}
	if date.Weekday() == time.Sunday {
		return false
	}
	if minutes == nil {
		return false
	}
	return *minutes >= trainingStartMin && *minutes < trainingEndMin
}

func additiveMap(rows []model.AdditionalConfig, specialty model.Specialty, period model.Period) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal)
	for i := range rows {
		r := &rows[i]
		if r.Specialty != specialty || r.Period != period || !r.Applies {
			continue
		}
		m[additiveKey(r.PayerName)] = r.DoctorAmount().Round(2)
	}
	return m
}

// additiveKey folds the self-pay spellings so an additive configured under
// either one matches blank-payer rows and both historical labels.
func additiveKey(payerName string) string {
	if rates.SelfPayAlias(payerName) {
		return normalize.Name(rates.SelfPay)
	}
	return normalize.Name(payerName)
}

func groupMap(rows []model.DoctorGroupConfig, period model.Period) map[int64]model.GroupType {
	m := make(map[int64]model.GroupType)
	for _, r := range rows {
		if r.Period == period {
			m[r.DoctorID] = r.Group
		}
	}
	return m
}
