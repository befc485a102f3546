// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultOutput         = "data"
	DefaultConcurrency    = 8
	DefaultRetries        = 3
	DefaultTimeoutSeconds = 15.0
	DefaultAzureTable     = "PublicHolidays"
)

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Collection
	Year  int `json:"year,omitempty" validate:"omitempty,min=1975,max=2100"` // Target year (default: current year)
	Limit int `json:"limit,omitempty" validate:"min=0"`                      // Limit number of countries (for testing)

	// Output
	Output string `json:"output,omitempty"` // Output root directory

	// Network behavior
	Concurrency    int     `json:"concurrency,omitempty" validate:"omitempty,min=1,max=64"` // Concurrent holiday fetch workers
	Retries        int     `json:"retries,omitempty" validate:"omitempty,min=1,max=10"`     // Retry attempts for API calls
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" validate:"omitempty,gt=0"`     // HTTP timeout in seconds
	Offline        bool    `json:"offline,omitempty"`                                       // Skip all network calls, use embedded fallbacks
	UseBrowser     bool    `json:"use_browser,omitempty"`                                   // Headless browser fallback for the scrape (requires Chrome)

	// Inputs
	CountriesFile string `json:"countries_file,omitempty"` // JSON or CSV file listing countries (overrides scraping)

	// Optional sinks
	AzureTableName string `json:"azure_table_name,omitempty"` // Azure Table name for export
	AzureUpsert    bool   `json:"azure_upsert,omitempty"`     // Upsert (merge) instead of create on export
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration ranges and referenced files.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.CountriesFile != "" {
		if _, err := os.Stat(c.CountriesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: countries file not found: %s", c.CountriesFile)
		}
	}

	return nil
}

// ApplyDefaults fills unset fields with the operational defaults. The target
// year defaults to the current year.
func (c *Config) ApplyDefaults() {
	if c.Year == 0 {
		c.Year = time.Now().Year()
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.AzureTableName == "" {
		c.AzureTableName = DefaultAzureTable
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if os.Getenv("OFFLINE") == "1" {
		c.Offline = true
	}
}

// Timeout converts TimeoutSeconds to a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
