package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["date", "name"],
	"properties": {
		"date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"name": {"type": "string"}
	},
	"additionalProperties": false
}`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_ValidDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.json", testSchema)
	jsonPath := writeTestFile(t, dir, "doc.json", `{"date": "2025-01-01", "name": "New Year's Day"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_MissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.json", testSchema)
	jsonPath := writeTestFile(t, dir, "doc.json", `{"date": "2025-01-01"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_WrongType(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.json", testSchema)
	jsonPath := writeTestFile(t, dir, "doc.json", `{"date": 20250101, "name": "New Year's Day"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeTestFile(t, dir, "doc.json", `{"date": "2025-01-01", "name": "x"}`)

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	var schemaErr *SchemaLoadError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestValidateJSON_NonExistentDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.json", testSchema)

	err := ValidateJSON(schemaPath, filepath.Join(dir, "missing_doc.json"))
	assert.Error(t, err)
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.json", testSchema)

	err := ValidateBytes(schemaPath, []byte("{ invalid json }"))
	assert.Error(t, err)
}

func TestResolveSchemaPath(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "present.json", testSchema)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	resolved := ResolveSchemaPath("present.json")
	assert.NotEmpty(t, resolved)
	assert.True(t, filepath.IsAbs(resolved))

	assert.Empty(t, ResolveSchemaPath("definitely_absent.json"))
}
