package model

import "fmt"

// Reason classifies a row-level anomaly or advisory. Row-level issues never
// abort a batch; they accumulate as warnings alongside the result.
type Reason string

const (
	// Exclusions: the row produced no payable line.
	ReasonInvalidDate   Reason = "invalid_date"
	ReasonZeroDuration  Reason = "zero_duration"
	ReasonGroupMismatch Reason = "schedule_group_mismatch"
	ReasonDuplicate     Reason = "duplicate"
	ReasonFCFSDuplicate Reason = "fcfs_duplicate"

	// Degraded data: the row was processed anyway.
	ReasonUnresolvedDoctor Reason = "unresolved_doctor"
	ReasonUnconfiguredRate Reason = "unconfigured_rate"
	ReasonDateSubstituted  Reason = "date_substituted"
	ReasonMissingGroup     Reason = "missing_group_config"

	// Advisories: the amount changed but the row/doctor stays in the output.
	ReasonTrainingExemption Reason = "training_exemption"
	ReasonMinimumTopUp      Reason = "minimum_topup"
)

// Warning records one row-level anomaly with the offending source row index.
// Aggregation-level advisories (top-ups) carry Row = 0 and name the doctor in
// Detail.
type Warning struct {
	Row    int
	Reason Reason
	Detail string
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", w.Row, w.Reason, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Reason, w.Detail)
}

// Excludes reports whether the reason removes the row from payable output.
func (r Reason) Excludes() bool {
	switch r {
	case ReasonInvalidDate, ReasonZeroDuration, ReasonGroupMismatch,
		ReasonDuplicate, ReasonFCFSDuplicate:
		return true
	}
	return false
}
