// Package aggregate flattens the per-country holiday mapping into the
// tabular form used for CSV output and the export sinks.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/holiday-collector/internal/types"
)

// ListSeparator joins list-valued holiday fields (counties, types) for
// tabular output.
const ListSeparator = ";"

// Row is one flattened holiday. List fields are already joined; empty or
// absent lists render as the empty string.
type Row struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Date        string `json:"date"`
	LocalName   string `json:"local_name"`
	Name        string `json:"name"`
	Fixed       bool   `json:"fixed"`
	Global      bool   `json:"global"`
	Counties    string `json:"counties"`
	Types       string `json:"types"`
}

// Headers returns the CSV column order.
func Headers() []string {
	return []string{
		"country_code",
		"country_name",
		"date",
		"local_name",
		"name",
		"fixed",
		"global",
		"counties",
		"types",
	}
}

// Flatten converts the code→holidays mapping into rows sorted
// lexicographically by country code, preserving each code's internal
// holiday order.
func Flatten(byCountry map[string][]types.HolidayRecord) []Row {
	codes := make([]string, 0, len(byCountry))
	for code := range byCountry {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var rows []Row
	for _, code := range codes {
		for _, h := range byCountry[code] {
			rows = append(rows, Row{
				CountryCode: code,
				CountryName: h.CountryName,
				Date:        h.Date,
				LocalName:   h.LocalName,
				Name:        h.Name,
				Fixed:       h.Fixed,
				Global:      h.Global,
				Counties:    strings.Join(h.Counties, ListSeparator),
				Types:       strings.Join(h.Types, ListSeparator),
			})
		}
	}
	return rows
}

// WriteCSV writes the header plus one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.CountryCode,
			row.CountryName,
			row.Date,
			row.LocalName,
			row.Name,
			strconv.FormatBool(row.Fixed),
			strconv.FormatBool(row.Global),
			row.Counties,
			row.Types,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile flattens byCountry and writes the aggregation to path.
func WriteCSVFile(path string, byCountry map[string][]types.HolidayRecord) ([]Row, error) {
	rows := Flatten(byCountry)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteCSV(f, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
