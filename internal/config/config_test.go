package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"year": 2025,
		"concurrency": 4,
		"retries": 2,
		"timeout_seconds": 5,
		"offline": true,
		"azure_table_name": "Holidays"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 2, cfg.Retries)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "Holidays", cfg.AzureTableName)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, "{not json")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Year: 2025, Concurrency: 8, Retries: 3, TimeoutSeconds: 15}
	assert.NoError(t, cfg.Validate())

	bad := &Config{Year: 1800}
	assert.Error(t, bad.Validate())

	tooMany := &Config{Concurrency: 999}
	assert.Error(t, tooMany.Validate())

	missingFile := &Config{CountriesFile: filepath.Join(t.TempDir(), "nope.csv")}
	assert.Error(t, missingFile.Validate())
}

func TestApplyDefaults(t *testing.T) {
	t.Setenv("OFFLINE", "")
	t.Setenv("DATABASE_URL", "")

	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, time.Now().Year(), cfg.Year)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, DefaultAzureTable, cfg.AzureTableName)
	assert.False(t, cfg.Offline)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{Year: 2026, Concurrency: 2, Output: "out"}
	cfg.ApplyDefaults()

	assert.Equal(t, 2026, cfg.Year)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "out", cfg.Output)
}

func TestApplyDefaults_OfflineEnv(t *testing.T) {
	t.Setenv("OFFLINE", "1")

	cfg := &Config{}
	cfg.ApplyDefaults()
	assert.True(t, cfg.Offline)
}
