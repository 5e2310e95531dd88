package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/gyeh/medliq/internal/exitcode"
)

func main() {
	// A .env beside the binary is convenient in dev; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
