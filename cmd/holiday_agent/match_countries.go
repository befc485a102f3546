package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/matching"
	"github.com/jonathan/holiday-collector/internal/pipeline"
)

var matchCountriesCmd = &cobra.Command{
	Use:   "match-countries",
	Short: "Match a country-name list against the ISO catalog",
	Long:  "Loads country names from a JSON or CSV file, matches each against the Nager.Date catalog (exact then fuzzy), and writes the match results as JSON.",
	RunE:  runMatchCountries,
}

var (
	matchCountriesNamesFile string
	matchCountriesOut       string
	matchCountriesOffline   bool
	matchCountriesTimeout   float64
)

func init() {
	matchCountriesCmd.Flags().StringVarP(&matchCountriesNamesFile, "names-file", "f", "", "JSON or CSV file listing country names (required)")
	matchCountriesCmd.Flags().StringVarP(&matchCountriesOut, "out", "o", "", "Output directory (required)")
	matchCountriesCmd.Flags().BoolVar(&matchCountriesOffline, "offline", false, "Force offline mode (embedded catalog)")
	matchCountriesCmd.Flags().Float64Var(&matchCountriesTimeout, "timeout", 15, "HTTP timeout in seconds")

	if err := matchCountriesCmd.MarkFlagRequired("names-file"); err != nil {
		panic(fmt.Sprintf("failed to mark names-file flag as required: %v", err))
	}
	if err := matchCountriesCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCountriesCmd)
}

func runMatchCountries(_ *cobra.Command, _ []string) error {
	raw, err := pipeline.LoadCountriesFile(matchCountriesNamesFile)
	if err != nil {
		return err
	}
	names := pipeline.DedupeAndSortNames(raw)

	if err := os.MkdirAll(matchCountriesOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", matchCountriesOut, err)
	}

	timeout := time.Duration(matchCountriesTimeout * float64(time.Second))
	matcher := matching.NewMatcher(matchCountriesOffline, timeout)
	results := matcher.MatchMany(context.Background(), names)

	outPath := filepath.Join(matchCountriesOut, "country_match_results.json")
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal match results to JSON: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write match results %s: %w", outPath, err)
	}

	matched := 0
	for _, r := range results {
		if r.Matched {
			matched++
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Matched %d/%d names\n", matched, len(results))
	_, _ = fmt.Fprintf(os.Stdout, "Results: %s\n", outPath)
	return nil
}
