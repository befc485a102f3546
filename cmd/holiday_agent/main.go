// Package main provides the entry point for the holiday collector CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "holiday_agent",
	Short: "Collect Microsoft operating countries and their public holidays",
	Long: `holiday_agent collects the list of countries Microsoft is said to operate
in for a target year, matches each country name to an ISO code, fetches
public-holiday data per matched code from the Nager.Date API, and aggregates
the results into per-run JSON/CSV artifacts with optional Azure Table and
PostgreSQL export.

Note: Microsoft may operate in territories not publicly listed or updated;
manual review of the collected list is recommended.`,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
