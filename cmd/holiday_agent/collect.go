package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/config"
	"github.com/jonathan/holiday-collector/internal/export"
	"github.com/jonathan/holiday-collector/internal/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the full collection pipeline end-to-end",
	Long: `Orchestrates the entire collection: scrape (or load) operating countries ->
match names to ISO codes -> fetch public holidays per code -> aggregate to
JSON/CSV artifacts under <output>/<year>/.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runCollect,
}

var (
	collectConfigPath    string
	collectYear          int
	collectLimit         int
	collectOutput        string
	collectConcurrency   int
	collectRetries       int
	collectTimeout       float64
	collectOffline       bool
	collectCountriesFile string
	collectUseBrowser    bool
	collectVerbose       bool
	collectExportAzure   bool
	collectAzureTable    string
	collectAzureUpsert   bool
	collectDatabaseURL   string
)

func init() {
	// Config file flag (processed first)
	collectCmd.Flags().StringVar(&collectConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	collectCmd.Flags().IntVarP(&collectYear, "year", "y", 0, "Target year (default: current year)")
	collectCmd.Flags().IntVar(&collectLimit, "limit", 0, "Limit number of countries (for testing)")
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "Output root directory (default: data)")
	collectCmd.Flags().IntVar(&collectConcurrency, "concurrency", 0, "Concurrent holiday fetch workers (default: 8)")
	collectCmd.Flags().IntVar(&collectRetries, "retry", 0, "Retry attempts for API calls (default: 3)")
	collectCmd.Flags().Float64Var(&collectTimeout, "timeout", 0, "HTTP timeout in seconds (default: 15)")
	collectCmd.Flags().BoolVar(&collectOffline, "offline", false, "Force offline mode (no network, embedded fallbacks)")
	collectCmd.Flags().StringVar(&collectCountriesFile, "countries-file", "", "JSON or CSV file listing countries (overrides scraping)")
	collectCmd.Flags().BoolVar(&collectUseBrowser, "use-browser", false, "Use headless browser when the page renders client-side (requires Chrome)")
	collectCmd.Flags().BoolVarP(&collectVerbose, "verbose", "v", false, "Print detailed debug information")

	// Azure Table export options (optional)
	collectCmd.Flags().BoolVar(&collectExportAzure, "export-azure-table", false, "After collecting, export aggregated CSV to Azure Table")
	collectCmd.Flags().StringVar(&collectAzureTable, "azure-table-name", "", "Azure Table name (default: PublicHolidays)")
	collectCmd.Flags().BoolVar(&collectAzureUpsert, "azure-upsert", false, "Use upsert (merge) instead of create for entities")

	// Database URL for run persistence
	collectCmd.Flags().StringVar(&collectDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if collectConfigPath != "" {
		loadedCfg, err := config.LoadConfig(collectConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if collectVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", collectConfigPath)
		}
	}

	// Step 2: Apply CLI overrides; only override if the flag was
	// explicitly set
	if cmd.Flags().Changed("year") {
		cfg.Year = collectYear
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = collectLimit
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = collectOutput
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = collectConcurrency
	}
	if cmd.Flags().Changed("retry") {
		cfg.Retries = collectRetries
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = collectTimeout
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = collectOffline
	}
	if cmd.Flags().Changed("countries-file") {
		cfg.CountriesFile = collectCountriesFile
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = collectUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = collectVerbose
	}
	if cmd.Flags().Changed("azure-table-name") {
		cfg.AzureTableName = collectAzureTable
	}
	if cmd.Flags().Changed("azure-upsert") {
		cfg.AzureUpsert = collectAzureUpsert
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = collectDatabaseURL
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Year:          cfg.Year,
		Limit:         cfg.Limit,
		OutputRoot:    cfg.Output,
		Concurrency:   cfg.Concurrency,
		Retries:       cfg.Retries,
		Timeout:       cfg.Timeout(),
		Offline:       cfg.Offline,
		CountriesFile: cfg.CountriesFile,
		UseBrowser:    cfg.UseBrowser,
		Verbose:       cfg.Verbose,
		DatabaseURL:   cfg.DatabaseURL,
	})
	if err != nil {
		return fmt.Errorf("collection run failed: %w", err)
	}

	// Optional Azure Table export; a failure here never undoes the
	// pipeline's own success.
	if collectExportAzure {
		csvPath := filepath.Join(cfg.Output, strconv.Itoa(cfg.Year), pipeline.ArtifactHolidaysCSV)
		_, _ = fmt.Fprintf(os.Stdout, "Exporting to Azure Table '%s' (upsert=%v)\n", cfg.AzureTableName, cfg.AzureUpsert)
		count, err := export.CSVToTable(ctx, csvPath, export.Options{
			TableName: cfg.AzureTableName,
			Upsert:    cfg.AzureUpsert,
		})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Azure Table export failed: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(os.Stdout, "Azure export complete: %d entities written\n", count)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Run %s complete. Artifacts: %s\n", result.RunID, result.OutputDir)
	return nil
}
