package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/holiday-collector/internal/schemas"
)

var schemaFiles = []string{
	"country_match_results.schema.json",
	"holidays.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj))

			_, hasSchema := schemaObj["$schema"]
			_, hasType := schemaObj["type"]
			assert.True(t, hasSchema && hasType, "schema should declare $schema and type")
		})
	}
}

func TestCountryMatchResultsSchema(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name:      "exact match entry",
			document:  `[{"source_name": "Germany", "code": "DE", "matched": true, "score": 1.0, "method": "exact", "target_name": "Germany"}]`,
			wantError: false,
		},
		{
			name:      "unmatched entry without code",
			document:  `[{"source_name": "Nowhere Land", "matched": false, "score": 0, "method": "none"}]`,
			wantError: false,
		},
		{
			name:      "missing method",
			document:  `[{"source_name": "Germany", "matched": true, "score": 1.0}]`,
			wantError: true,
		},
		{
			name:      "bad method value",
			document:  `[{"source_name": "Germany", "matched": true, "score": 1.0, "method": "guess"}]`,
			wantError: true,
		},
		{
			name:      "score out of range",
			document:  `[{"source_name": "Germany", "matched": true, "score": 1.5, "method": "fuzzy"}]`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateBytes("country_match_results.schema.json", []byte(tt.document))
			if tt.wantError {
				require.Error(t, err)
				validationErr, ok := err.(*schemas.ValidationError)
				require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
				assert.Greater(t, len(validationErr.Errors), 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHolidaysSchema(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name:      "full holiday entry",
			document:  `[{"date": "2025-07-04", "localName": "Independence Day", "name": "Independence Day", "countryCode": "US", "fixed": true, "global": true, "counties": ["US-AK"], "launchYear": 1776, "types": ["Public"], "countryName": "United States"}]`,
			wantError: false,
		},
		{
			name:      "null list fields",
			document:  `[{"date": "2025-01-01", "localName": "New Year's Day", "name": "New Year's Day", "countryCode": "US", "fixed": true, "global": true, "counties": null, "launchYear": null, "types": null}]`,
			wantError: false,
		},
		{
			name:      "empty list",
			document:  `[]`,
			wantError: false,
		},
		{
			name:      "bad date format",
			document:  `[{"date": "July 4 2025", "localName": "x", "name": "x", "countryCode": "US"}]`,
			wantError: true,
		},
		{
			name:      "missing country code",
			document:  `[{"date": "2025-07-04", "localName": "x", "name": "x"}]`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateBytes("holidays.schema.json", []byte(tt.document))
			if tt.wantError {
				require.Error(t, err)
				validationErr, ok := err.(*schemas.ValidationError)
				require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
				assert.Greater(t, len(validationErr.Errors), 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
