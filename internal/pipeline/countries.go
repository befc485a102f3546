package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/holiday-collector/internal/types"
)

// LoadCountriesFile reads an operator-supplied country list. JSON files may
// contain a list of strings or a list of {"country": ...} objects; CSV and
// TXT files contribute the first column of each non-empty row.
func LoadCountriesFile(path string) ([]types.RawCountry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadCountriesJSON(path)
	case ".csv", ".txt":
		return loadCountriesCSV(path)
	default:
		return nil, fmt.Errorf("unsupported countries file extension for %s (use .json or .csv/.txt)", path)
	}
}

func loadCountriesJSON(path string) ([]types.RawCountry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read countries file %s: %w", path, err)
	}

	// Try a list of objects first, then a list of plain strings.
	var countries []types.RawCountry
	if err := json.Unmarshal(data, &countries); err == nil {
		return countries, nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("countries JSON file %s must contain a list: %w", path, err)
	}
	countries = make([]types.RawCountry, 0, len(names))
	for _, name := range names {
		countries = append(countries, types.RawCountry{Country: name})
	}
	return countries, nil
}

func loadCountriesCSV(path string) ([]types.RawCountry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open countries file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var countries []types.RawCountry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read countries CSV %s: %w", path, err)
		}
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		countries = append(countries, types.RawCountry{Country: name})
	}
	return countries, nil
}

// DedupeAndSortNames reduces raw entries to a deduplicated (case-sensitive),
// lexicographically sorted name list for deterministic downstream stages.
func DedupeAndSortNames(raw []types.RawCountry) []string {
	set := make(map[string]bool, len(raw))
	for _, c := range raw {
		if c.Country != "" {
			set[c.Country] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
