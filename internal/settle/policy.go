package settle

import (
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
)

// dateMode controls what happens to rows with a missing or out-of-period date.
// Three of the four specialties exclude such rows; clinical shifts substitutes
// the first day of the period and keeps the row. Preserved as observed; do
// not unify without product confirmation.
type dateMode int

const (
	dateExclude dateMode = iota
	dateSubstitute
)

// dedupMode selects the duplicate-resolution policy.
type dedupMode int

const (
	dedupNone  dedupMode = iota
	dedupTuple           // identical (doctor, patient, date, time): later rows dropped
	dedupFCFS            // same (patient, date): later rows kept but flagged, paid zero
)

var (
	hundred = decimal.NewFromInt(100)

	// Flat retention applied to pediatric consultation billing.
	pediatricsRetentionPct = decimal.NewFromInt(30)

	// Gynecology retains the same share, but at the per-doctor aggregation
	// level rather than per line.
	gynecologyRetentionPct = decimal.NewFromInt(30)

	// Fixed fee per clinical admission. Not period-dependent and not read
	// from the rate table.
	admissionFee = decimal.NewFromInt(7000)
)

// Resident training window: Monday–Saturday, 07:00 inclusive to 15:00
// exclusive. Sundays are always payable.
const (
	trainingStartMin = 7 * 60
	trainingEndMin   = 15 * 60
)

// Schedule-group tag a pediatric row must carry (compared normalized).
const pediatricsScheduleTag = "pediatria"

// policy is the per-specialty rule record. The engine is generic; everything
// that differs between the four payment schemes lives here.
type policy struct {
	consultType       string
	scheduleGroup     string // required normalized tag; empty accepts any
	requireDuration   bool
	missingDate       dateMode
	dedup             dedupMode
	useFlatFee        bool
	flatFee           decimal.Decimal
	retentionPct      decimal.Decimal // per-line retention; zero means none
	aggRetentionPct   decimal.Decimal // retention applied per doctor at aggregation
	perPayerAdditive  bool
	trainingExemption bool
	apportioned       bool // computed amounts assigned during aggregation
}

func policyFor(s model.Specialty) (policy, bool) {
	switch s {
	case model.Pediatrics:
		return policy{
			consultType:      s.ConsultType(),
			scheduleGroup:    pediatricsScheduleTag,
			requireDuration:  true,
			missingDate:      dateExclude,
			dedup:            dedupTuple,
			retentionPct:     pediatricsRetentionPct,
			perPayerAdditive: true,
		}, true
	case model.Gynecology:
		return policy{
			consultType:       s.ConsultType(),
			missingDate:       dateExclude,
			dedup:             dedupTuple,
			aggRetentionPct:   gynecologyRetentionPct,
			trainingExemption: true,
		}, true
	case model.ClinicalShifts:
		return policy{
			consultType: s.ConsultType(),
			missingDate: dateSubstitute,
			dedup:       dedupNone,
			apportioned: true,
		}, true
	case model.Admissions:
		return policy{
			missingDate: dateExclude,
			dedup:       dedupFCFS,
			useFlatFee:  true,
			flatFee:     admissionFee,
		}, true
	}
	return policy{}, false
}
