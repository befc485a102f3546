// Package fetch - browser.go provides headless browser rendering for pages
// that only populate their content via JavaScript.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentEntries is the minimum number of extracted entries to consider a
// plain HTTP fetch successful. Fewer suggests the page is an SPA shell and
// should be re-fetched through the browser.
const MinContentEntries = 1

// ShouldUseBrowser reports whether the plain-HTTP extraction looks like an
// unrendered SPA shell.
func ShouldUseBrowser(extractedEntries int, html string) bool {
	return extractedEntries < MinContentEntries && strings.Contains(html, "<script")
}

// RenderHTML loads url in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func RenderHTML(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to fill the directory list
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
