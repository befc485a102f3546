package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/export"
)

var exportTableCmd = &cobra.Command{
	Use:   "export-table",
	Short: "Export an aggregated holidays CSV to Azure Table Storage",
	Long: `Reads a holidays_all.csv produced by a collection run and writes one table
entity per row. PartitionKey is the country code; RowKey is the date plus the
slugified holiday name, de-duplicated with a numeric suffix on collision.

Requires the ` + export.ConnectionStringEnv + ` environment variable (or --connection-string).`,
	RunE: runExportTable,
}

var (
	exportTableCSV    string
	exportTableName   string
	exportTableUpsert bool
	exportTableConn   string
)

func init() {
	exportTableCmd.Flags().StringVar(&exportTableCSV, "csv", "", "Path to holidays_all.csv (required)")
	exportTableCmd.Flags().StringVar(&exportTableName, "table-name", export.DefaultTableName, "Azure Table name")
	exportTableCmd.Flags().BoolVar(&exportTableUpsert, "upsert", false, "Use upsert (merge) instead of create for entities")
	exportTableCmd.Flags().StringVar(&exportTableConn, "connection-string", "", "Azure storage connection string (overrides the environment variable)")

	if err := exportTableCmd.MarkFlagRequired("csv"); err != nil {
		panic(fmt.Sprintf("failed to mark csv flag as required: %v", err))
	}

	rootCmd.AddCommand(exportTableCmd)
}

func runExportTable(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(exportTableCSV); err != nil {
		return fmt.Errorf("CSV file for Azure export not found: %s", exportTableCSV)
	}

	count, err := export.CSVToTable(context.Background(), exportTableCSV, export.Options{
		TableName:        exportTableName,
		ConnectionString: exportTableConn,
		Upsert:           exportTableUpsert,
	})
	if err != nil {
		return fmt.Errorf("Azure Table export failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Azure export complete: %d entities written\n", count)
	return nil
}
