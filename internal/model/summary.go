package model

import "time"

// RunSummary captures metrics from a single settlement run.
type RunSummary struct {
	FilePath        string
	Specialty       Specialty
	Period          Period
	BatchID         string
	RowsRead        int64
	RowsMapped      int64
	RowsExcluded    int64
	LinesComputed   int64
	HourLines       int64
	Warnings        int64
	DurationRead    time.Duration
	DurationCompute time.Duration
	DurationPersist time.Duration
	DurationTotal   time.Duration
}
