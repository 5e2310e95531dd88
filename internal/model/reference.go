package model

import "github.com/shopspring/decimal"

// Doctor is one roster entry. Reference data, loaded once per batch and
// treated as immutable by the engine.
type Doctor struct {
	ID                int64
	FullName          string
	ProvincialLicense *string // nil means the doctor is a resident
	TaxID             string
	Specialty         Specialty
	Active            bool
}

// Resident reports whether the doctor is considered a resident. The roster
// carries no explicit flag; absence of a provincial license is the signal.
func (d *Doctor) Resident() bool {
	return d.ProvincialLicense == nil || *d.ProvincialLicense == ""
}

// PayerRate is the configured unit value for one (payer, consult type, period).
type PayerRate struct {
	PayerName   string
	ConsultType string
	Period      Period
	UnitValue   decimal.Decimal
}

// AdditionalConfig is a per-payer additive paid on top of the consultation
// value. The doctor-facing amount is BaseAmount × DoctorSharePercent / 100.
type AdditionalConfig struct {
	PayerName          string
	Specialty          Specialty
	Period             Period
	Applies            bool
	BaseAmount         decimal.Decimal
	DoctorSharePercent decimal.Decimal
}

// DoctorAmount returns the doctor-facing additive, or zero when the config
// does not apply.
func (a *AdditionalConfig) DoctorAmount() decimal.Decimal {
	if !a.Applies {
		return decimal.Zero
	}
	return a.BaseAmount.Mul(a.DoctorSharePercent).Div(decimal.NewFromInt(100))
}

// GroupType is the clinical-shift billing tier assigned to a doctor for a period.
type GroupType string

const (
	TierA GroupType = "TIER_A" // 70% of consultation billing
	TierB GroupType = "TIER_B" // 40% of consultation billing
)

// SharePercent returns the tier's share of consultation billing.
func (g GroupType) SharePercent() decimal.Decimal {
	if g == TierA {
		return decimal.NewFromInt(70)
	}
	return decimal.NewFromInt(40)
}

// DoctorGroupConfig assigns a clinical-shift tier to a doctor for a period.
type DoctorGroupConfig struct {
	DoctorID int64
	Period   Period
	Group    GroupType
}

// HourlyRateConfig holds the per-period hour-band rates for clinical shifts
// plus the guaranteed minimum used by the floor correction.
type HourlyRateConfig struct {
	Period            Period
	Weekday8To16      decimal.Decimal
	Weekday16To8      decimal.Decimal
	Weekend           decimal.Decimal
	WeekendNight      decimal.Decimal
	GuaranteedMinHour decimal.Decimal
}
