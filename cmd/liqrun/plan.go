package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/medliq/internal/exitcode"
	"github.com/gyeh/medliq/internal/logging"
	"github.com/gyeh/medliq/internal/model"
	"github.com/gyeh/medliq/internal/settle"
	"github.com/gyeh/medliq/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run settlement computation and report (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to the .xlsx export (required)")
	f.StringVar(&cfg.Specialty, "specialty", "", "Settlement scheme: pediatrics, gynecology, clinical_shifts or clinical_admissions")
	f.IntVar(&cfg.Year, "year", 0, "Settlement year (required)")
	f.IntVar(&cfg.Month, "month", 0, "Settlement month 1-12 (required)")
	f.StringVar(&cfg.Sheet, "sheet", "", "Consultation sheet name (default: first sheet)")
	f.StringVar(&cfg.HoursSheet, "hours-sheet", "", "Shift-hours sheet name (default: second sheet)")
	_ = planCmd.MarkFlagRequired("file")
	_ = planCmd.MarkFlagRequired("year")
	_ = planCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	specialty, _ := cfg.SpecialtyValue()
	period, _ := cfg.Period()

	pool, err := store.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	snap, err := store.LoadSnapshot(ctx, pool, specialty, period)
	if err != nil {
		log.Error().Err(err).Msg("failed to load reference snapshot")
		os.Exit(exitcode.ValidationError)
	}

	sheets, err := settle.ReadSheets(&cfg, specialty)
	if err != nil {
		log.Error().Err(err).Msg("failed to read spreadsheet")
		os.Exit(exitcode.ReadError)
	}

	res, err := settle.Compute(settle.Input{
		BatchID:    uuid.New(), // throwaway; nothing is persisted
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
		log.Error().Err(err).Msg("computation failed")
		os.Exit(exitcode.ComputeError)
	}

	fmt.Println("=== liqrun plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", sheets.FileSHA)
	fmt.Printf("Specialty:  %s\n", specialty)
	fmt.Printf("Period:     %s\n", period)
	fmt.Printf("Rows read:  %d (consult %d, hours %d)\n", sheets.RowsRead, len(sheets.Rows), len(sheets.HourRows))
	fmt.Println()

	if len(res.Warnings) > 0 {
		counts := make(map[model.Reason]int)
		for _, w := range res.Warnings {
			counts[w.Reason]++
		}
		fmt.Println("Warnings:")
		for reason, n := range counts {
			fmt.Printf("  %-20s %d\n", reason, n)
		}
		fmt.Println()
	}

	fmt.Println("Per-doctor totals:")
	for _, d := range res.PerDoctor {
		fmt.Printf("  %-35s lines %4d  gross %12s  net %12s\n",
			d.DoctorName, d.Lines, d.Gross.StringFixed(2), d.Net.StringFixed(2))
	}
	fmt.Println()
	fmt.Printf("Lines:      %d\n", res.Totals.LineCount)
	fmt.Printf("Gross:      %s\n", res.Totals.Gross.StringFixed(2))
	fmt.Printf("Retained:   %s\n", res.Totals.Retained.StringFixed(2))
	fmt.Printf("Additive:   %s\n", res.Totals.Additive.StringFixed(2))
	fmt.Printf("Top-up:     %s\n", res.Totals.TopUp.StringFixed(2))
	fmt.Printf("Net:        %s\n", res.Totals.Net.StringFixed(2))
	fmt.Println("\nNo rows written.")

	return nil
}
