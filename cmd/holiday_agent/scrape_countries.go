package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/scraper"
)

var scrapeCountriesCmd = &cobra.Command{
	Use:   "scrape-countries",
	Short: "Scrape the operating-countries list and write it as JSON",
	Long:  "Scrapes the Microsoft worldwide directory page (or uses the embedded fallback when offline) and writes the raw country list to the output directory.",
	RunE:  runScrapeCountries,
}

var (
	scrapeCountriesOut        string
	scrapeCountriesOffline    bool
	scrapeCountriesUseBrowser bool
	scrapeCountriesTimeout    float64
	scrapeCountriesVerbose    bool
)

func init() {
	scrapeCountriesCmd.Flags().StringVarP(&scrapeCountriesOut, "out", "o", "", "Output directory (required)")
	scrapeCountriesCmd.Flags().BoolVar(&scrapeCountriesOffline, "offline", false, "Force offline mode (embedded fallback list)")
	scrapeCountriesCmd.Flags().BoolVar(&scrapeCountriesUseBrowser, "use-browser", false, "Use headless browser when the page renders client-side (requires Chrome)")
	scrapeCountriesCmd.Flags().Float64Var(&scrapeCountriesTimeout, "timeout", 15, "HTTP timeout in seconds")
	scrapeCountriesCmd.Flags().BoolVarP(&scrapeCountriesVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := scrapeCountriesCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(scrapeCountriesCmd)
}

func runScrapeCountries(_ *cobra.Command, _ []string) error {
	if err := os.MkdirAll(scrapeCountriesOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", scrapeCountriesOut, err)
	}

	timeout := time.Duration(scrapeCountriesTimeout * float64(time.Second))
	s := scraper.New(scrapeCountriesOffline, scrapeCountriesUseBrowser, timeout, scrapeCountriesVerbose)
	countries := s.Countries(context.Background())

	outPath := filepath.Join(scrapeCountriesOut, "microsoft_countries_raw.json")
	data, err := json.MarshalIndent(countries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal countries to JSON: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write countries file %s: %w", outPath, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Collected %d countries\n", len(countries))
	_, _ = fmt.Fprintf(os.Stdout, "Countries: %s\n", outPath)
	return nil
}
