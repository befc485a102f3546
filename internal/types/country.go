// Package types provides type definitions for structured data shared across the holiday collector pipeline.
package types

import "math"

// RawCountry is one entry from the operating-countries source (scraped page,
// operator-supplied file, or embedded fallback).
type RawCountry struct {
	Country       string `json:"country"`
	RegionExample string `json:"region_example,omitempty"`
}

// CountryRecord is one entry in the known-country catalog. The JSON tags
// follow the Nager.Date AvailableCountries payload.
type CountryRecord struct {
	Name string `json:"name"`
	Code string `json:"countryCode"`
}

// Match methods, in order of decreasing confidence.
const (
	MethodExact = "exact"
	MethodFuzzy = "fuzzy"
	MethodNone  = "none"
)

// MatchResult records how one source country name resolved against the
// catalog. Matched is true iff Code is set. MethodExact implies Score 1.0;
// MethodNone implies an empty Code and Score 0.
type MatchResult struct {
	SourceName string  `json:"source_name"`
	Code       string  `json:"code,omitempty"`
	Matched    bool    `json:"matched"`
	Score      float64 `json:"score"`
	Method     string  `json:"method"`
	TargetName string  `json:"target_name,omitempty"`
}

// RoundScore rounds a similarity ratio to four decimal places for stable
// artifact output.
func RoundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
