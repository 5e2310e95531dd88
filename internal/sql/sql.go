package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order. All DDL uses
// IF NOT EXISTS so migrations are idempotent.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/upsert_batch.sql
var UpsertBatch string

//go:embed queries/update_batch_state.sql
var UpdateBatchState string

//go:embed queries/update_batch_totals.sql
var UpdateBatchTotals string

//go:embed queries/delete_line_items.sql
var DeleteLineItems string

//go:embed queries/delete_hours_line_items.sql
var DeleteHoursLineItems string

//go:embed queries/insert_line_item.sql
var InsertLineItem string

//go:embed queries/insert_hours_line_item.sql
var InsertHoursLineItem string

//go:embed queries/load_doctors.sql
var LoadDoctors string

//go:embed queries/load_payer_rates.sql
var LoadPayerRates string

//go:embed queries/load_additional_config.sql
var LoadAdditionalConfig string

//go:embed queries/load_group_config.sql
var LoadGroupConfig string

//go:embed queries/load_hourly_config.sql
var LoadHourlyConfig string
