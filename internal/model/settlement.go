package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchState is the lifecycle state of a settlement batch.
type BatchState string

const (
	BatchDraft      BatchState = "draft"
	BatchProcessing BatchState = "processing"
	BatchFinalized  BatchState = "finalized"
	BatchError      BatchState = "error"
)

// SettlementBatch is one (specialty, period) unit of work. Reprocessing the
// same key deletes and reinserts all derived rows; there are no appends.
type SettlementBatch struct {
	ID        uuid.UUID
	Specialty Specialty
	Period    Period
	State     BatchState
	Totals    BatchTotals
}

// BatchTotals summarizes the financial outcome of a batch.
type BatchTotals struct {
	LineCount int64
	Gross     decimal.Decimal
	Retained  decimal.Decimal
	Additive  decimal.Decimal
	TopUp     decimal.Decimal
	Net       decimal.Decimal
}

// ReviewState marks a line for the reviewing clerk.
type ReviewState string

const (
	ReviewNone      ReviewState = ""
	ReviewDuplicate ReviewState = "duplicate"
)

// LineItem is one computed consultation (or admission) line.
//
// Invariants: Computed is never negative; when TrainingExempt is set both
// Billed and Computed are zero. Duplicate lines (admissions FCFS policy) stay
// in the output for review but contribute nothing to totals.
type LineItem struct {
	BatchID   uuid.UUID
	SourceRow int

	DoctorID   *int64 // nil when the free-text name did not resolve
	DoctorName string // raw spreadsheet value

	Date    time.Time
	Minutes *int // time of day as minutes since midnight; nil when absent
	Patient string
	Payer   string

	Billed       decimal.Decimal
	RetentionPct *decimal.Decimal
	Retention    decimal.Decimal
	Additional   decimal.Decimal
	Computed     decimal.Decimal

	TrainingExempt bool
	Duplicate      bool
	Review         ReviewState
}

// HoursLineItem is one doctor's clinical-shift hour summary: band hour counts
// and the band values (hours × configured band rate).
type HoursLineItem struct {
	BatchID uuid.UUID

	DoctorID   *int64
	DoctorName string

	Weekday8To16Hours decimal.Decimal
	Weekday16To8Hours decimal.Decimal
	WeekendHours      decimal.Decimal
	WeekendNightHours decimal.Decimal

	Weekday8To16Value decimal.Decimal
	Weekday16To8Value decimal.Decimal
	WeekendValue      decimal.Decimal
	WeekendNightValue decimal.Decimal

	TotalBandValue decimal.Decimal
}

// WorkedHours returns the hours that count toward the guaranteed-minimum
// floor. Only the weekend and weekend-night bands qualify; the weekday bands
// are training time.
func (h *HoursLineItem) WorkedHours() decimal.Decimal {
	return h.WeekendHours.Add(h.WeekendNightHours)
}
