package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gyeh/medliq/internal/model"
	embedsql "github.com/gyeh/medliq/internal/sql"
)

// Snapshot is the immutable reference-data view the engine computes against.
// Loaded once up front; the engine does no I/O of its own.
type Snapshot struct {
	Doctors    []model.Doctor
	Rates      []model.PayerRate
	Additional []model.AdditionalConfig
	Groups     []model.DoctorGroupConfig
	Hourly     *model.HourlyRateConfig // nil when unconfigured for the period
}

// LoadSnapshot reads roster and per-period configuration for one batch.
func LoadSnapshot(ctx context.Context, pool *pgxpool.Pool, specialty model.Specialty, period model.Period) (*Snapshot, error) {
	s := &Snapshot{}

	rows, err := pool.Query(ctx, embedsql.LoadDoctors)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d model.Doctor
		var spec string
		if err := rows.Scan(&d.ID, &d.FullName, &d.ProvincialLicense, &d.TaxID, &spec, &d.Active); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		d.Specialty = model.Specialty(spec)
		s.Doctors = append(s.Doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	rows.Close()

	rows, err = pool.Query(ctx, embedsql.LoadPayerRates, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("load payer rates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r model.PayerRate
		var year, month int
		var unit string
		if err := rows.Scan(&r.PayerName, &r.ConsultType, &year, &month, &unit); err != nil {
			return nil, fmt.Errorf("scan payer rate: %w", err)
		}
		r.Period = model.Period{Year: year, Month: time.Month(month)}
		if r.UnitValue, err = decimal.NewFromString(unit); err != nil {
			return nil, fmt.Errorf("parse unit value %q: %w", unit, err)
		}
		s.Rates = append(s.Rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load payer rates: %w", err)
	}
	rows.Close()

	rows, err = pool.Query(ctx, embedsql.LoadAdditionalConfig, string(specialty), period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("load additional config: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a model.AdditionalConfig
		var spec string
		var year, month int
		var base, share string
		if err := rows.Scan(&a.PayerName, &spec, &year, &month, &a.Applies, &base, &share); err != nil {
			return nil, fmt.Errorf("scan additional config: %w", err)
		}
		a.Specialty = model.Specialty(spec)
		a.Period = model.Period{Year: year, Month: time.Month(month)}
		if a.BaseAmount, err = decimal.NewFromString(base); err != nil {
			return nil, fmt.Errorf("parse base amount %q: %w", base, err)
		}
		if a.DoctorSharePercent, err = decimal.NewFromString(share); err != nil {
			return nil, fmt.Errorf("parse doctor share %q: %w", share, err)
		}
		s.Additional = append(s.Additional, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load additional config: %w", err)
	}
	rows.Close()

	rows, err = pool.Query(ctx, embedsql.LoadGroupConfig, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("load group config: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g model.DoctorGroupConfig
		var year, month int
		var group string
		if err := rows.Scan(&g.DoctorID, &year, &month, &group); err != nil {
			return nil, fmt.Errorf("scan group config: %w", err)
		}
		g.Period = model.Period{Year: year, Month: time.Month(month)}
		g.Group = model.GroupType(group)
		s.Groups = append(s.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load group config: %w", err)
	}
	rows.Close()

	hourly, err := loadHourlyConfig(ctx, pool, period)
	if err != nil {
		return nil, err
	}
	s.Hourly = hourly

	return s, nil
}

func loadHourlyConfig(ctx context.Context, pool *pgxpool.Pool, period model.Period) (*model.HourlyRateConfig, error) {
	var year, month int
	cols := make([]string, 5)
	err := pool.QueryRow(ctx, embedsql.LoadHourlyConfig, period.Year, int(period.Month)).
		Scan(&year, &month, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4])
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load hourly config: %w", err)
	}

	cfg := &model.HourlyRateConfig{Period: model.Period{Year: year, Month: time.Month(month)}}
	dst := []*decimal.Decimal{
		&cfg.Weekday8To16, &cfg.Weekday16To8, &cfg.Weekend, &cfg.WeekendNight, &cfg.GuaranteedMinHour,
	}
	for i, raw := range cols {
		if *dst[i], err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("parse hourly rate %q: %w", raw, err)
		}
	}
	return cfg, nil
}
