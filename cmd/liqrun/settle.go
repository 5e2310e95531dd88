package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/medliq/internal/exitcode"
	"github.com/gyeh/medliq/internal/logging"
	"github.com/gyeh/medliq/internal/settle"
	"github.com/gyeh/medliq/internal/store"
)

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Compute and persist one settlement batch",
	RunE:  runSettle,
}

func init() {
	f := settleCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the .xlsx export (required)")
	f.StringVar(&cfg.Specialty, "specialty", "", "Settlement scheme: pediatrics, gynecology, clinical_shifts or clinical_admissions")
	f.IntVar(&cfg.Year, "year", 0, "Settlement year (required)")
	f.IntVar(&cfg.Month, "month", 0, "Settlement month 1-12 (required)")
	f.StringVar(&cfg.Sheet, "sheet", "", "Consultation sheet name (default: first sheet)")
	f.StringVar(&cfg.HoursSheet, "hours-sheet", "", "Shift-hours sheet name (default: second sheet)")
	_ = settleCmd.MarkFlagRequired("file")
	_ = settleCmd.MarkFlagRequired("year")
	_ = settleCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(settleCmd)
}

func runSettle(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := settle.Run(ctx, pool, log, &cfg)
	if err != nil {
		var pe *settle.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("settlement run failed")
			switch pe.Phase {
			case "load":
				os.Exit(exitcode.ValidationError)
			case "read":
				os.Exit(exitcode.ReadError)
			case "compute":
				os.Exit(exitcode.ComputeError)
			default:
				os.Exit(exitcode.PersistError)
			}
		}
		log.Error().Err(err).Msg("settlement run failed")
		os.Exit(exitcode.ComputeError)
	}

	fmt.Printf("Settlement complete: batch %s, %d lines, %d warnings (%.1fs)\n",
		summary.BatchID, summary.LinesComputed, summary.Warnings, summary.DurationTotal.Seconds())
	return nil
}
