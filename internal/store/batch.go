package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	embedsql "github.com/gyeh/medliq/internal/sql"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// EnsureBatch upserts the batch row for (specialty, period) and moves it to
// "processing". The batch keeps its original id across reprocessing runs so
// derived rows always hang off a stable key.
func EnsureBatch(ctx context.Context, pool *pgxpool.Pool, specialty model.Specialty,
	period model.Period, fileName, fileSHA string) (uuid.UUID, error) {

	var id uuid.UUID
	err := pool.QueryRow(ctx, embedsql.UpsertBatch,
		uuid.New(), string(specialty), period.Year, int(period.Month), fileName, fileSHA,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert batch: %w", err)
	}
	return id, nil
}

// SetBatchState transitions the batch's lifecycle state.
func SetBatchState(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, state model.BatchState) error {
	if _, err := pool.Exec(ctx, embedsql.UpdateBatchState, id, string(state)); err != nil {
		return fmt.Errorf("set batch state %s: %w", state, err)
	}
	return nil
}

// ReplaceDerived replaces a batch's derived rows and totals in one
// transaction: delete-then-reinsert, never append. The engine's output is
// all-or-nothing; a failed run leaves the previous finalized rows untouched.
func ReplaceDerived(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID,
	lines []model.LineItem, hourLines []model.HoursLineItem, totals model.BatchTotals) error {

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, embedsql.DeleteLineItems, id); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	if _, err := tx.Exec(ctx, embedsql.DeleteHoursLineItems, id); err != nil {
		return fmt.Errorf("delete hours line items: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range lines {
		l := &lines[i]
		batch.Queue(embedsql.InsertLineItem,
			id, l.SourceRow, l.DoctorID, l.DoctorName, l.Date, l.Minutes,
			l.Patient, l.Payer, num(l.Billed), numPtr(l.RetentionPct),
			num(l.Retention), num(l.Additional), num(l.Computed),
			l.TrainingExempt, l.Duplicate, string(l.Review),
		)
	}
	for i := range hourLines {
		h := &hourLines[i]
		batch.Queue(embedsql.InsertHoursLineItem,
			id, h.DoctorID, h.DoctorName,
			num(h.Weekday8To16Hours), num(h.Weekday16To8Hours),
			num(h.WeekendHours), num(h.WeekendNightHours),
			num(h.Weekday8To16Value), num(h.Weekday16To8Value),
			num(h.WeekendValue), num(h.WeekendNightValue),
			num(h.TotalBandValue),
		)
	}
	batch.Queue(embedsql.UpdateBatchTotals,
		id, totals.LineCount, num(totals.Gross), num(totals.Retained),
		num(totals.Additive), num(totals.TopUp), num(totals.Net),
	)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert derived rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// num renders a decimal as text; the insert statements cast back to numeric.
// Crossing as text sidesteps binary-numeric encoding for a custom Go type.
func num(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func numPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
