package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names written under <output>/<year>/.
const (
	ArtifactRawCountries  = "microsoft_countries_raw.json"
	ArtifactCountryNames  = "microsoft_country_names.json"
	ArtifactCatalogSource = "available_countries_source.json"
	ArtifactMatchResults  = "country_match_results.json"
	ArtifactHolidaysAll   = "holidays_all.json"
	ArtifactHolidaysCSV   = "holidays_all.csv"
	ArtifactRunManifest   = "run.json"
)

// HolidaysArtifactName returns the per-country artifact file name.
func HolidaysArtifactName(code string) string {
	return fmt.Sprintf("holidays_%s.json", code)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", path, err)
	}
	return nil
}

func saveJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
