package aggregation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daotrack/governance-indexer/internal/adapter"
	"github.com/daotrack/governance-indexer/internal/aggregation"
	"github.com/daotrack/governance-indexer/internal/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func newClient() *aggregation.Client {
	return aggregation.NewClient(adapter.NewHTTPClient(5*time.Second), adapter.NewJSON())
}

func TestFetchDelegationSeries(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/delegation-percentage-by-day", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[{"date":"2024-03-01","value":"12.5"}],"pageInfo":{"hasNextPage":true}}`))
	}))
	defer server.Close()

	query := url.Values{}
	query.Set("startDate", "2024-03-01")
	query.Set("limit", "50")

	resp, err := newClient().FetchDelegationSeries(context.Background(), server.URL, query)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2024-03-01", resp.Items[0].Date)
	assert.Equal(t, "12.5", resp.Items[0].Value)
	assert.True(t, resp.PageInfo.HasNextPage)

	assert.Equal(t, "2024-03-01", gotQuery.Get("startDate"))
	assert.Equal(t, "50", gotQuery.Get("limit"))
}

func TestFetchDelegationSeries_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"items":[],"pageInfo":{"hasNextPage":false}}`))
	}))
	defer server.Close()

	resp, err := newClient().FetchDelegationSeries(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDelegationSeries_RetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newClient().FetchDelegationSeries(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	// Initial attempt plus two retries
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDelegationSeries_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newClient().FetchDelegationSeries(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode series")
}
