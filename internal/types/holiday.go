package types

// HolidayRecord mirrors one entry of the Nager.Date v3 PublicHolidays
// payload. CountryName is not part of the API response; the pipeline
// back-fills it from the matching stage after fetch (additive enrichment,
// an existing non-empty value is never overwritten).
type HolidayRecord struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Fixed       bool     `json:"fixed"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	LaunchYear  *int     `json:"launchYear,omitempty"`
	Types       []string `json:"types"`
	CountryName string   `json:"countryName,omitempty"`
}
