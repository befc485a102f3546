// Package scraper extracts the list of countries where Microsoft operates
// from the public worldwide directory page. Scrape failure is never fatal:
// any error degrades to the embedded fallback list with a logged warning.
package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/holiday-collector/internal/fetch"
	"github.com/jonathan/holiday-collector/internal/staticdata"
	"github.com/jonathan/holiday-collector/internal/types"
)

// WorldwideURL is the Microsoft worldwide locations directory page.
const WorldwideURL = "https://www.microsoft.com/en-us/worldwide.aspx"

// Scraper fetches and parses the worldwide directory.
type Scraper struct {
	Offline    bool
	UseBrowser bool
	Timeout    time.Duration
	Verbose    bool

	// pageURL is overridable for tests.
	pageURL string
}

// New returns a Scraper with the given behavior flags.
func New(offline, useBrowser bool, timeout time.Duration, verbose bool) *Scraper {
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	return &Scraper{
		Offline:    offline,
		UseBrowser: useBrowser,
		Timeout:    timeout,
		Verbose:    verbose,
		pageURL:    WorldwideURL,
	}
}

// Countries returns the scraped country list, or the embedded fallback when
// offline or on any scrape failure. It never returns an error.
func (s *Scraper) Countries(ctx context.Context) []types.RawCountry {
	if s.Offline {
		log.Printf("[SCRAPER] offline mode: using fallback countries list (%d entries)", len(staticdata.FallbackOperatingCountries))
		return staticdata.FallbackOperatingCountries
	}

	countries, err := s.scrape(ctx)
	if err != nil {
		log.Printf("[SCRAPER] failed to scrape worldwide page, using fallback: %v", err)
		return staticdata.FallbackOperatingCountries
	}
	if len(countries) == 0 {
		log.Printf("[SCRAPER] worldwide page yielded no countries, using fallback")
		return staticdata.FallbackOperatingCountries
	}
	log.Printf("[SCRAPER] parsed %d unique countries from worldwide page", len(countries))
	return countries
}

func (s *Scraper) scrape(ctx context.Context) ([]types.RawCountry, error) {
	if s.Verbose {
		log.Printf("[SCRAPER] fetching %s", s.pageURL)
	}

	result, err := fetch.Get(ctx, s.pageURL, &fetch.Options{Timeout: s.Timeout, UserAgent: fetch.DefaultUserAgent})
	if err != nil {
		return nil, err
	}
	html := string(result.Body)

	countries, err := ParseCountries(html)
	if err != nil {
		return nil, err
	}

	// The directory is rendered client-side in some page variants; fall
	// back to a headless browser when enabled and the plain fetch came
	// back empty.
	if s.UseBrowser && fetch.ShouldUseBrowser(len(countries), html) {
		rendered, err := fetch.RenderHTML(ctx, s.pageURL, s.Timeout, s.Verbose)
		if err != nil {
			return nil, err
		}
		return ParseCountries(rendered)
	}

	return countries, nil
}

// ParseCountries extracts country names from the worldwide directory HTML.
// Entries are deduplicated case-insensitively preserving document order.
func ParseCountries(html string) ([]types.RawCountry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var countries []types.RawCountry
	doc.Find("li.directory-item").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.AttrOr("data-countryname", ""))
		if name == "" {
			name = strings.TrimSpace(sel.Find("[data-countryname]").First().AttrOr("data-countryname", ""))
		}
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		countries = append(countries, types.RawCountry{Country: name})
	})

	return countries, nil
}
