// Package fetch provides generic HTTP fetching with timeouts and bounded
// retry. This package centralizes the network plumbing used by the scraper,
// the country catalog source, and the holiday client.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; HolidayCollector/1.0)"

// Result holds the response from a single GET.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Get retrieves the content at urlStr. A non-2xx status is returned as an
// *Error alongside the Result so callers can inspect the status code.
func Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// GetJSON fetches urlStr and unmarshals the body into v.
func GetJSON(ctx context.Context, urlStr string, opts *Options, v any) error {
	result, err := Get(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &Error{URL: urlStr, Message: "failed to decode JSON response", Cause: err}
	}
	return nil
}

// RetryOptions bounds the retry loop of GetJSONWithRetry.
type RetryOptions struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay is the sleep before the second attempt; it doubles after
	// each subsequent failure.
	BaseDelay time.Duration
}

// DefaultRetryOptions matches the service defaults: three attempts, one
// second base delay.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{Attempts: 3, BaseDelay: time.Second}
}

// GetJSONWithRetry fetches urlStr with exponential backoff. Every failure is
// retried identically (server errors, client errors, transport errors) up to
// the attempt budget; the last error propagates.
func GetJSONWithRetry(ctx context.Context, urlStr string, opts *Options, retry RetryOptions, v any) error {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = time.Second
	}

	delay := retry.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= retry.Attempts; attempt++ {
		lastErr = GetJSON(ctx, urlStr, opts, v)
		if lastErr == nil {
			return nil
		}
		if attempt == retry.Attempts {
			break
		}
		log.Printf("[FETCH] retry %d for %s after error: %v", attempt, urlStr, lastErr)
		if err := sleepWithContext(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
	return lastErr
}

// sleepWithContext sleeps for d or until ctx is done, whichever comes first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
