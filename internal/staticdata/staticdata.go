// Package staticdata holds embedded fallback datasets used when the network
// sources are unavailable or offline mode is forced. The lists are a limited
// subset; degraded coverage is preferred over an aborted run.
package staticdata

import "github.com/jonathan/holiday-collector/internal/types"

// FallbackOperatingCountries is the minimal stand-in for the scraped
// Microsoft worldwide directory.
var FallbackOperatingCountries = []types.RawCountry{
	{Country: "United States", RegionExample: "Redmond"},
	{Country: "Canada", RegionExample: "Toronto"},
	{Country: "United Kingdom", RegionExample: "Reading"},
	{Country: "Germany", RegionExample: "Berlin"},
	{Country: "France", RegionExample: "Paris"},
	{Country: "Australia", RegionExample: "Sydney"},
	{Country: "India", RegionExample: "Hyderabad"},
	{Country: "Brazil", RegionExample: "Sao Paulo"},
	{Country: "Japan", RegionExample: "Tokyo"},
	{Country: "South Africa", RegionExample: "Johannesburg"},
}

// FallbackCatalog is the embedded (name, ISO code) catalog used when the
// Nager.Date AvailableCountries endpoint cannot be reached.
var FallbackCatalog = []types.CountryRecord{
	{Code: "US", Name: "United States"},
	{Code: "CA", Name: "Canada"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "AU", Name: "Australia"},
	{Code: "IN", Name: "India"},
	{Code: "BR", Name: "Brazil"},
	{Code: "JP", Name: "Japan"},
	{Code: "ZA", Name: "South Africa"},
}

// FallbackCountryCodes returns just the ISO codes of the embedded catalog.
func FallbackCountryCodes() []string {
	codes := make([]string, 0, len(FallbackCatalog))
	for _, c := range FallbackCatalog {
		codes = append(codes, c.Code)
	}
	return codes
}
