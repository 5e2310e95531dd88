package settle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
)

// ConsultRow is one normalized consultation (or admission) row as mapped from
// the spreadsheet. Nil pointers mean the cell was absent or unparseable;
// classification of that is the engine's job, not the mapper's.
type ConsultRow struct {
	Index         int // 1-based spreadsheet row
	DoctorName    string
	Patient       string
	Payer         string
	ScheduleGroup string
	Date          *time.Time
	Minutes       *int // time of day, minutes since midnight
	DurationMin   *int
}

// HourRow is one clinical-shift hour-band row: hour counts per band for a
// doctor. A doctor may appear on several rows; the engine sums them.
type HourRow struct {
	Index        int
	DoctorName   string
	Weekday8To16 decimal.Decimal
	Weekday16To8 decimal.Decimal
	Weekend      decimal.Decimal
	WeekendNight decimal.Decimal
}

// Input is the complete, immutable snapshot for one batch computation.
// The engine performs no I/O: roster and configuration are loaded up front by
// the caller.
type Input struct {
	BatchID   uuid.UUID
	Specialty model.Specialty
	Period    model.Period

	Rows     []ConsultRow
	HourRows []HourRow // clinical shifts only

	Roster     []model.Doctor
	Rates      []model.PayerRate
	Additional []model.AdditionalConfig
	Groups     []model.DoctorGroupConfig
	Hourly     *model.HourlyRateConfig // required for clinical shifts
}

// DoctorTotals is the per-doctor rollup. For clinical shifts it carries the
// two-pass floor-correction fields; for the other specialties those stay zero.
type DoctorTotals struct {
	DoctorID   *int64
	DoctorName string

	Lines      int64
	Gross      decimal.Decimal
	Retained   decimal.Decimal
	Additional decimal.Decimal
	Net        decimal.Decimal

	// Clinical shifts only.
	TierPercent    decimal.Decimal
	NetConsult     decimal.Decimal
	TotalBandValue decimal.Decimal
	WorkedHours    decimal.Decimal
	Floor          decimal.Decimal
	TopUp          decimal.Decimal
}

// PayerTotals is the doctor+payer rollup over payable lines. Two doctors
// billing the same payer get separate entries.
type PayerTotals struct {
	DoctorID   *int64
	DoctorName string
	Payer      string
	Lines      int64
	Gross      decimal.Decimal
	Amount     decimal.Decimal // sum of per-line computed amounts
}

// Result is the complete derived output for a batch. The persistence layer
// treats it as all-or-nothing: either the whole set replaces the batch's rows
// or nothing is written.
type Result struct {
	BatchID   uuid.UUID
	Lines     []model.LineItem
	HourLines []model.HoursLineItem
	PerDoctor []DoctorTotals
	PerPayer  []PayerTotals
	Totals    model.BatchTotals
	Warnings  []model.Warning
}
