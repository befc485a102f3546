package nager

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/holiday-collector/internal/staticdata"
)

const sampleHolidayJSON = `[
	{
		"date": "2025-01-01",
		"localName": "New Year's Day",
		"name": "New Year's Day",
		"countryCode": "US",
		"fixed": false,
		"global": true,
		"counties": null,
		"launchYear": null,
		"types": ["Public"]
	}
]`

func testClient(baseURL string, retries int) *Client {
	return NewClient(ClientOptions{
		BaseURL:        baseURL,
		Retries:        retries,
		Timeout:        2 * time.Second,
		Concurrency:    4,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestPublicHolidays_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PublicHolidays/2025/US", r.URL.Path)
		_, _ = fmt.Fprint(w, sampleHolidayJSON)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 3)
	holidays, err := client.PublicHolidays(context.Background(), 2025, "US")

	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2025-01-01", holidays[0].Date)
	assert.Equal(t, "New Year's Day", holidays[0].Name)
	assert.Equal(t, "New Year's Day", holidays[0].LocalName)
	assert.Equal(t, "US", holidays[0].CountryCode)
	assert.True(t, holidays[0].Global)
	assert.Equal(t, []string{"Public"}, holidays[0].Types)
}

func TestPublicHolidays_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprint(w, sampleHolidayJSON)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 3)
	holidays, err := client.PublicHolidays(context.Background(), 2025, "US")

	require.NoError(t, err)
	assert.Len(t, holidays, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPublicHolidays_ExhaustedRetriesPropagates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 2)
	_, err := client.PublicHolidays(context.Background(), 2025, "US")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 500")
	assert.Equal(t, int32(2), calls.Load())
}

func TestPublicHolidays_UnexpectedShapeDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"message": "not a list"}`)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 1)
	holidays, err := client.PublicHolidays(context.Background(), 2025, "US")

	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestPublicHolidays_Offline(t *testing.T) {
	client := NewClient(ClientOptions{Offline: true})

	holidays, err := client.PublicHolidays(context.Background(), 2030, "FR")

	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2030-01-01", holidays[0].Date)
	assert.Equal(t, "FR", holidays[0].CountryCode)
}

func TestBulkPublicHolidays_FailingCodeOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/PublicHolidays/2025/US", "/PublicHolidays/2025/CA":
			_, _ = fmt.Fprint(w, sampleHolidayJSON)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := testClient(srv.URL, 2)
	results := client.BulkPublicHolidays(context.Background(), 2025, []string{"US", "XX", "CA"})

	require.Len(t, results, 2)
	assert.Contains(t, results, "US")
	assert.Contains(t, results, "CA")
	assert.NotContains(t, results, "XX")
	assert.Len(t, results["US"], 1)
}

func TestBulkPublicHolidays_RecoversWithinRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = fmt.Fprint(w, sampleHolidayJSON)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 3)
	results := client.BulkPublicHolidays(context.Background(), 2025, []string{"US"})

	require.Contains(t, results, "US")
	assert.Len(t, results["US"], 1)
}

func TestAvailableCountryCodes_Offline(t *testing.T) {
	client := NewClient(ClientOptions{Offline: true})

	codes, err := client.AvailableCountryCodes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, staticdata.FallbackCountryCodes(), codes)
	assert.Contains(t, codes, "US")
}

func TestAvailableCountryCodes_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AvailableCountries", r.URL.Path)
		_, _ = fmt.Fprint(w, `[{"countryCode":"US","name":"United States"},{"countryCode":"DE","name":"Germany"}]`)
	}))
	defer srv.Close()

	client := testClient(srv.URL, 1)
	codes, err := client.AvailableCountryCodes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"US", "DE"}, codes)
}
