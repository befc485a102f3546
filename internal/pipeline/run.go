// Package pipeline provides the high-level orchestration for collecting
// operating countries and their public holidays. The stages are linear:
// acquire country names, match them to ISO codes, fetch holidays per matched
// code, aggregate into a flat table, write run artifacts. Stage transitions
// are unconditional; retry and fallback responsibility lives inside the
// matcher and the holiday client, so a partial failure degrades coverage
// instead of aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/holiday-collector/internal/aggregate"
	"github.com/jonathan/holiday-collector/internal/db"
	"github.com/jonathan/holiday-collector/internal/matching"
	"github.com/jonathan/holiday-collector/internal/nager"
	"github.com/jonathan/holiday-collector/internal/schemas"
	"github.com/jonathan/holiday-collector/internal/scraper"
	"github.com/jonathan/holiday-collector/internal/types"
)

// RunOptions holds configuration for one collection run.
type RunOptions struct {
	Year          int
	Limit         int
	OutputRoot    string
	Concurrency   int
	Retries       int
	Timeout       time.Duration
	Offline       bool
	CountriesFile string
	UseBrowser    bool
	Verbose       bool
	DatabaseURL   string
}

// RunResult summarizes one finished run.
type RunResult struct {
	RunID                 uuid.UUID `json:"run_id"`
	Year                  int       `json:"year"`
	Offline               bool      `json:"offline"`
	OutputDir             string    `json:"output_dir"`
	RawCountries          int       `json:"raw_countries"`
	UniqueNames           int       `json:"unique_names"`
	MatchedNames          int       `json:"matched_names"`
	CountriesWithHolidays int       `json:"countries_with_holidays"`
	HolidayRows           int       `json:"holiday_rows"`
	StartedAt             time.Time `json:"started_at"`
	CompletedAt           time.Time `json:"completed_at"`
}

// Run executes the full collection pipeline and returns the run summary.
// Only I/O on the run's own output directory can fail the run; data-source
// failures degrade to fallbacks or omitted countries.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	result := &RunResult{
		RunID:     uuid.New(),
		Year:      opts.Year,
		Offline:   opts.Offline,
		StartedAt: time.Now().UTC(),
	}

	outputDir := filepath.Join(opts.OutputRoot, strconv.Itoa(opts.Year))
	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}
	result.OutputDir = outputDir

	log.Printf("[PIPELINE] starting collection run %s for year=%d offline=%v", result.RunID, opts.Year, opts.Offline)

	// Optional persistence; a connection failure is a warning, not a stop.
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if err := database.CreateRun(ctx, result.RunID, opts.Year); err != nil {
				fmt.Printf("Warning: Failed to create database run: %v\n", err)
			}
		}
	}

	// Step 1: Acquire the operating-countries list
	fmt.Printf("Step 1/5: Acquiring operating countries...\n")
	raw, err := acquireCountries(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && opts.Limit < len(raw) {
		raw = raw[:opts.Limit]
	}
	if err := saveJSON(outputDir, ArtifactRawCountries, raw); err != nil {
		return nil, err
	}
	result.RawCountries = len(raw)

	names := DedupeAndSortNames(raw)
	if err := saveJSON(outputDir, ArtifactCountryNames, names); err != nil {
		return nil, err
	}
	result.UniqueNames = len(names)
	fmt.Printf("Collected %d raw countries (%d unique names)\n", len(raw), len(names))

	// Step 2: Match names to ISO codes
	fmt.Printf("Step 2/5: Matching country names to ISO codes...\n")
	matcher := matching.NewMatcher(opts.Offline, opts.Timeout)
	catalog := matcher.AvailableCountries(ctx)
	if err := saveJSON(outputDir, ArtifactCatalogSource, catalog); err != nil {
		return nil, err
	}

	matches := matcher.MatchMany(ctx, names)
	if err := saveJSON(outputDir, ArtifactMatchResults, matches); err != nil {
		return nil, err
	}
	validateArtifact(outputDir, ArtifactMatchResults, "schemas/country_match_results.schema.json")

	matched := 0
	for _, m := range matches {
		if m.Matched {
			matched++
		}
	}
	result.MatchedNames = matched
	fmt.Printf("Matched %d/%d countries (exact or fuzzy)\n", matched, len(matches))

	// Step 3: Fetch public holidays per matched code
	fmt.Printf("Step 3/5: Fetching public holidays for year %d...\n", opts.Year)
	client := nager.NewClient(nager.ClientOptions{
		Retries:     opts.Retries,
		Timeout:     opts.Timeout,
		Concurrency: opts.Concurrency,
		Offline:     opts.Offline,
	})

	codes, sourceNames := matchedCodes(matches)
	holidaysByCountry := client.BulkPublicHolidays(ctx, opts.Year, codes)

	for code, holidays := range holidaysByCountry {
		enrichCountryName(holidays, sourceNames[code])
		holidaysByCountry[code] = holidays
		if err := saveJSON(outputDir, HolidaysArtifactName(code), holidays); err != nil {
			return nil, err
		}
		validateArtifact(outputDir, HolidaysArtifactName(code), "schemas/holidays.schema.json")
		if opts.Verbose {
			log.Printf("[PIPELINE] saved holidays for %s (%d items)", code, len(holidays))
		}
	}
	if err := saveJSON(outputDir, ArtifactHolidaysAll, holidaysByCountry); err != nil {
		return nil, err
	}
	result.CountriesWithHolidays = len(holidaysByCountry)

	// Step 4: Aggregate to the flat CSV table
	fmt.Printf("Step 4/5: Aggregating %d countries into CSV...\n", len(holidaysByCountry))
	rows, err := aggregate.WriteCSVFile(filepath.Join(outputDir, ArtifactHolidaysCSV), holidaysByCountry)
	if err != nil {
		return nil, err
	}
	result.HolidayRows = len(rows)

	// Step 5: Run manifest and optional persistence
	fmt.Printf("Step 5/5: Writing run manifest...\n")
	result.CompletedAt = time.Now().UTC()
	if err := saveJSON(outputDir, ArtifactRunManifest, result); err != nil {
		return nil, err
	}

	if database != nil {
		if _, err := database.InsertHolidays(ctx, result.RunID, rows); err != nil {
			fmt.Printf("Warning: Failed to persist holidays to database: %v\n", err)
		}
		if err := database.CompleteRun(ctx, result.RunID, "completed", result.CountriesWithHolidays, result.HolidayRows); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	fmt.Printf("Done. Countries with holidays: %d (%d rows)\n", result.CountriesWithHolidays, result.HolidayRows)
	return result, nil
}

// acquireCountries resolves the country list source in priority order:
// operator file, scraper, minimal hardcoded fallback.
func acquireCountries(ctx context.Context, opts RunOptions) ([]types.RawCountry, error) {
	if opts.CountriesFile != "" {
		raw, err := LoadCountriesFile(opts.CountriesFile)
		if err != nil {
			return nil, err
		}
		log.Printf("[PIPELINE] loaded %d countries from user file %s", len(raw), opts.CountriesFile)
		return raw, nil
	}

	s := scraper.New(opts.Offline, opts.UseBrowser, opts.Timeout, opts.Verbose)
	raw := s.Countries(ctx)
	if len(raw) == 0 {
		// Final guard: the run always produces output.
		log.Printf("[PIPELINE] no countries obtained; using minimal fallback sample")
		raw = []types.RawCountry{
			{Country: "United States"},
			{Country: "Canada"},
			{Country: "United Kingdom"},
		}
	}
	return raw, nil
}

// matchedCodes extracts the deduplicated code list from matches along with
// the source name each code was matched from (first match wins, input
// order).
func matchedCodes(matches []types.MatchResult) ([]string, map[string]string) {
	var codes []string
	sourceNames := make(map[string]string)
	for _, m := range matches {
		if !m.Matched || m.Code == "" {
			continue
		}
		if _, ok := sourceNames[m.Code]; ok {
			continue
		}
		sourceNames[m.Code] = m.SourceName
		codes = append(codes, m.Code)
	}
	return codes, sourceNames
}

// enrichCountryName back-fills the matched source name on records that lack
// one. Enrichment is additive: an existing non-empty value is kept.
func enrichCountryName(holidays []types.HolidayRecord, sourceName string) {
	for i := range holidays {
		if holidays[i].CountryName == "" {
			holidays[i].CountryName = sourceName
		}
	}
}

// validateArtifact checks a written artifact against its JSON Schema when
// the schema file can be located. A violation is logged, never fatal: the
// data is still written and the run continues.
func validateArtifact(dir, name, schemaRelPath string) {
	schemaPath := schemas.ResolveSchemaPath(schemaRelPath)
	if schemaPath == "" {
		return
	}
	if err := schemas.ValidateJSON(schemaPath, filepath.Join(dir, name)); err != nil {
		log.Printf("[PIPELINE] artifact %s failed schema validation: %v", name, err)
	}
}
