package settle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/medliq/internal/config"
	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/normalize"
	"github.com/gyeh/medliq/internal/sheetread"
	"github.com/gyeh/medliq/internal/store"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// SheetInput is the mapped spreadsheet content for one run.
type SheetInput struct {
	Rows     []ConsultRow
	HourRows []HourRow
	FileSHA  string
	RowsRead int64
}

// ReadSheets opens the workbook and maps its rows into engine input. For
// clinical shifts the hour-band rows come from the configured hours sheet,
// defaulting to the workbook's second sheet.
func ReadSheets(cfg *config.Config, specialty model.Specialty) (*SheetInput, error) {
	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	wb, err := sheetread.Open(cfg.FilePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	known := KnownHeaders(cfg.HeaderSynonyms)

	sheet, err := wb.Read(cfg.Sheet, known)
	if err != nil {
		return nil, err
	}
	rows, err := MapConsultRows(sheet, MapHeaders(sheet.Headers, cfg.HeaderSynonyms))
	if err != nil {
		return nil, err
	}

	in := &SheetInput{Rows: rows, FileSHA: sha, RowsRead: int64(len(sheet.Rows))}

	if specialty == model.ClinicalShifts {
		hoursName := cfg.HoursSheet
		if hoursName == "" {
			if names := wb.SheetNames(); len(names) > 1 {
				hoursName = names[1]
			}
		}
		if hoursName != "" {
			hoursSheet, err := wb.Read(hoursName, known)
			if err != nil {
				return nil, err
			}
			in.HourRows, err = MapHourRows(hoursSheet, MapHeaders(hoursSheet.Headers, cfg.HeaderSynonyms))
			if err != nil {
				return nil, err
			}
			in.RowsRead += int64(len(hoursSheet.Rows))
		}
	}
	return in, nil
}

// Run executes the full settlement pipeline: load reference data, read the
// spreadsheet, compute, persist.
// Reprocessing an already-finalized (specialty, period) batch replaces its
// derived rows wholesale.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	specialty, err := cfg.SpecialtyValue()
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	period, err := cfg.Period()
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}

	log.Info().
		Str("specialty", string(specialty)).
		Str("period", period.String()).
		Str("file", filepath.Base(cfg.FilePath)).
		Msg("starting settlement run")

	snap, err := store.LoadSnapshot(ctx, pool, specialty, period)
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	log.Info().
		Int("doctors", len(snap.Doctors)).
		Int("rates", len(snap.Rates)).
		Msg("reference snapshot loaded")

	readStart := time.Now()
	sheets, err := ReadSheets(cfg, specialty)
	if err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	readDur := time.Since(readStart)
	log.Info().
		Int64("rows_read", sheets.RowsRead).
		Int("consult_rows", len(sheets.Rows)).
		Int("hour_rows", len(sheets.HourRows)).
		Dur("duration", readDur).
		Msg("spreadsheet read")

	batchID, err := store.EnsureBatch(ctx, pool, specialty, period,
		filepath.Base(cfg.FilePath), sheets.FileSHA)
	if err != nil {
		return nil, &PipelineError{Phase: "register", Err: err}
	}

	computeStart := time.Now()
	res, err := Compute(Input{
		BatchID:    batchID,
		Specialty:  specialty,
		Period:     period,
		Rows:       sheets.Rows,
		HourRows:   sheets.HourRows,
		Roster:     snap.Doctors,
		Rates:      snap.Rates,
		Additional: snap.Additional,
		Groups:     snap.Groups,
		Hourly:     snap.Hourly,
	})
	if err != nil {
		if serr := store.SetBatchState(ctx, pool, batchID, model.BatchError); serr != nil {
			log.Warn().Err(serr).Msg("could not mark batch as errored")
		}
		return nil, &PipelineError{Phase: "compute", Err: err}
	}
	computeDur := time.Since(computeStart)
	LogWarnings(log, res.Warnings)

	persistStart := time.Now()
	if err := store.ReplaceDerived(ctx, pool, batchID, res.Lines, res.HourLines, res.Totals); err != nil {
		if serr := store.SetBatchState(ctx, pool, batchID, model.BatchError); serr != nil {
			log.Warn().Err(serr).Msg("could not mark batch as errored")
		}
		return nil, &PipelineError{Phase: "persist", Err: err}
	}
	persistDur := time.Since(persistStart)

	summary := &model.RunSummary{
		FilePath:        cfg.FilePath,
		Specialty:       specialty,
		Period:          period,
		BatchID:         batchID.String(),
		RowsRead:        sheets.RowsRead,
		RowsMapped:      int64(len(sheets.Rows) + len(sheets.HourRows)),
		RowsExcluded:    countExclusions(res.Warnings),
		LinesComputed:   int64(len(res.Lines)),
		HourLines:       int64(len(res.HourLines)),
		Warnings:        int64(len(res.Warnings)),
		DurationRead:    readDur,
		DurationCompute: computeDur,
		DurationPersist: persistDur,
		DurationTotal:   time.Since(totalStart),
	}

	log.Info().
		Int64("lines", summary.LinesComputed).
		Int64("hour_lines", summary.HourLines).
		Int64("excluded", summary.RowsExcluded).
		Int64("warnings", summary.Warnings).
		Str("net", res.Totals.Net.StringFixed(2)).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("settlement run complete")

	return summary, nil
}

// LogWarnings logs each row-level warning at Debug and the per-reason counts
// at Info, so a messy export does not drown the run log.
func LogWarnings(log zerolog.Logger, warnings []model.Warning) {
	counts := make(map[model.Reason]int64)
	for _, w := range warnings {
		counts[w.Reason]++
		log.Debug().Int("row", w.Row).Str("reason", string(w.Reason)).Str("detail", w.Detail).Msg("row warning")
	}
	for _, r := range []model.Reason{
		model.ReasonInvalidDate, model.ReasonZeroDuration, model.ReasonGroupMismatch,
		model.ReasonDuplicate, model.ReasonFCFSDuplicate, model.ReasonUnresolvedDoctor,
		model.ReasonUnconfiguredRate, model.ReasonDateSubstituted, model.ReasonMissingGroup,
		model.ReasonTrainingExemption, model.ReasonMinimumTopUp,
	} {
		if n := counts[r]; n > 0 {
			log.Info().Str("reason", string(r)).Int64("count", n).Msg("warnings")
		}
	}
}

func countExclusions(warnings []model.Warning) int64 {
	var n int64
	for _, w := range warnings {
		if w.Reason.Excludes() {
			n++
		}
	}
	return n
}
