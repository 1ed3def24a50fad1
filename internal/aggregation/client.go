// Package aggregation fans out to per-DAO backend APIs and fuses their
// day-bucket series into a single cross-DAO aggregate.
package aggregation

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/daotrack/governance-indexer/internal/adapter"
)

const (
	retryInitialInterval = 200 * time.Millisecond
	retryMultiplier      = 2
	maxRetries           = 2
)

// SeriesItem is one date-keyed value of an upstream day-bucket series
type SeriesItem struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// PageInfo carries upstream pagination metadata
type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

// SeriesResponse is the upstream delegation-percentage-by-day payload
type SeriesResponse struct {
	Items    []SeriesItem `json:"items"`
	PageInfo PageInfo     `json:"pageInfo"`
}

// Client fetches day-bucket series from per-DAO backends with a bounded
// retry budget per request
type Client struct {
	http adapter.HTTPClient
	json adapter.JSON
}

// NewClient creates an upstream series client
func NewClient(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) *Client {
	return &Client{http: httpClient, json: jsonAdapter}
}

// FetchDelegationSeries GETs {baseURL}/delegation-percentage-by-day with the
// caller's query forwarded verbatim. Network errors and non-2xx statuses are
// retried up to 2 additional times with exponential backoff (200ms, then
// 400ms); jitter is disabled so retry timing stays deterministic.
func (c *Client) FetchDelegationSeries(ctx context.Context, baseURL string, query url.Values) (*SeriesResponse, error) {
	endpoint := baseURL + "/delegation-percentage-by-day"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var body []byte
	operation := func() error {
		data, status, err := c.http.Get(ctx, endpoint)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
		}
		if status < 200 || status >= 300 {
			return fmt.Errorf("unexpected status %d from %s", status, endpoint)
		}
		body = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	bo.Multiplier = retryMultiplier
	bo.RandomizationFactor = 0

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)); err != nil {
		return nil, err
	}

	var response SeriesResponse
	if err := c.json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode series from %s: %w", endpoint, err)
	}
	return &response, nil
}
