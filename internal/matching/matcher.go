// Package matching maps free-text country names to ISO country codes using
// the Nager.Date catalog, with a two-tier exact-then-fuzzy strategy. Exact
// matching dominates to keep false positives low; fuzzy matching tolerates
// formatting drift but is string-similarity only, not semantic ("Ivory
// Coast" will not match "Côte d'Ivoire").
package matching

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonathan/holiday-collector/internal/fetch"
	"github.com/jonathan/holiday-collector/internal/staticdata"
	"github.com/jonathan/holiday-collector/internal/types"
)

// CatalogURL is the Nager.Date endpoint listing supported countries.
const CatalogURL = "https://date.nager.at/api/v3/AvailableCountries"

// FuzzyThreshold is the minimum similarity ratio for a fuzzy match to be
// accepted. Candidates below it produce a non-match, not an error.
const FuzzyThreshold = 0.75

// Matcher resolves source country names against a cached catalog. The
// catalog is fetched at most once per Matcher; fetch failure falls back to
// the embedded catalog and is never surfaced to callers.
type Matcher struct {
	offline bool
	timeout time.Duration

	mu      sync.Mutex
	catalog []types.CountryRecord
}

// NewMatcher returns a Matcher that loads its catalog lazily on first use.
func NewMatcher(offline bool, timeout time.Duration) *Matcher {
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	return &Matcher{offline: offline, timeout: timeout}
}

// NewMatcherWithCatalog returns a Matcher over a pre-populated catalog.
// No network access is performed.
func NewMatcherWithCatalog(catalog []types.CountryRecord) *Matcher {
	return &Matcher{offline: true, catalog: catalog}
}

// AvailableCountries returns the catalog, fetching and caching it on first
// call. In offline mode or on fetch failure the embedded fallback catalog is
// used and a warning is logged.
func (m *Matcher) AvailableCountries(ctx context.Context) []types.CountryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.catalog != nil {
		return m.catalog
	}
	if m.offline {
		log.Printf("[MATCHER] offline mode: using fallback country catalog (%d entries)", len(staticdata.FallbackCatalog))
		m.catalog = staticdata.FallbackCatalog
		return m.catalog
	}

	var catalog []types.CountryRecord
	err := fetch.GetJSON(ctx, CatalogURL, &fetch.Options{Timeout: m.timeout, UserAgent: fetch.DefaultUserAgent}, &catalog)
	if err != nil || len(catalog) == 0 {
		log.Printf("[MATCHER] failed fetching country catalog, fallback used: %v", err)
		m.catalog = staticdata.FallbackCatalog
		return m.catalog
	}
	m.catalog = catalog
	return m.catalog
}

// MatchOne resolves a single source name. Case-insensitive exact match wins
// with score 1.0; otherwise the first catalog entry with the maximal
// similarity ratio at or above FuzzyThreshold is selected; otherwise the
// name is recorded as unmatched.
func (m *Matcher) MatchOne(ctx context.Context, sourceName string) types.MatchResult {
	catalog := m.AvailableCountries(ctx)

	lower := strings.ToLower(sourceName)
	for _, c := range catalog {
		if strings.ToLower(c.Name) == lower {
			return types.MatchResult{
				SourceName: sourceName,
				Code:       c.Code,
				Matched:    true,
				Score:      1.0,
				Method:     types.MethodExact,
				TargetName: c.Name,
			}
		}
	}

	bestScore := 0.0
	bestIdx := -1
	for i, c := range catalog {
		score := Similarity(sourceName, c.Name)
		// Strictly greater keeps the first maximal candidate in
		// catalog order, making ties deterministic.
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx >= 0 && bestScore >= FuzzyThreshold {
		best := catalog[bestIdx]
		return types.MatchResult{
			SourceName: sourceName,
			Code:       best.Code,
			Matched:    true,
			Score:      types.RoundScore(bestScore),
			Method:     types.MethodFuzzy,
			TargetName: best.Name,
		}
	}

	return types.MatchResult{
		SourceName: sourceName,
		Matched:    false,
		Score:      0.0,
		Method:     types.MethodNone,
	}
}

// MatchMany resolves names in input order; the result always has the same
// length as the input.
func (m *Matcher) MatchMany(ctx context.Context, names []string) []types.MatchResult {
	results := make([]types.MatchResult, 0, len(names))
	for _, name := range names {
		results = append(results, m.MatchOne(ctx, name))
	}
	return results
}

// Similarity computes a difflib-style sequence ratio in [0,1] between two
// names, case-insensitively, at character granularity.
func Similarity(a, b string) float64 {
	la := strings.Split(strings.ToLower(a), "")
	lb := strings.Split(strings.ToLower(b), "")
	return difflib.NewMatcher(la, lb).Ratio()
}
