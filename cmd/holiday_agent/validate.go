package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/holiday-collector/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a run artifact against its JSON Schema",
	Long: `Validates an artifact JSON file against one of the schemas under schemas/.
Known artifacts: country_match_results.json (country_match_results.schema.json)
and holidays_*.json (holidays.schema.json).`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema file path, absolute or relative to the repo root (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Artifact JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	schemaPath := validateSchema
	if _, err := os.Stat(schemaPath); err != nil {
		if resolved := schemas.ResolveSchemaPath(schemaPath); resolved != "" {
			schemaPath = resolved
		}
	}

	if err := schemas.ValidateJSON(schemaPath, validateFile); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid against %s\n", validateFile, schemaPath)
	return nil
}
