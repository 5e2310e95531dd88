package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/medliq/internal/config"
)

var cfg config.Config

var configFile string

var rootCmd = &cobra.Command{
	Use:   "liqrun",
	Short: "Medical staff settlement runner",
	Long:  "Reads monthly consultation and shift spreadsheets and computes per-doctor settlement batches into Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "Log row-level warnings")
	pf.StringVar(&configFile, "config", "", "Optional YAML config file (header synonyms, sheet names)")
}

// loadConfigFile merges the optional YAML file under flag values.
func loadConfigFile() error {
	if configFile == "" {
		return nil
	}
	return cfg.LoadFromFile(configFile)
}
