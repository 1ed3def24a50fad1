package aggregation

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/logger"
)

const floatPrec = 256

// Query is the common query forwarded to every registered DAO backend
type Query struct {
	StartDate      *time.Time
	EndDate        *time.Time
	After          string
	Before         string
	OrderDirection string // asc | desc
	Limit          int
}

// Values encodes the query as upstream URL parameters
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.StartDate != nil {
		values.Set("startDate", q.StartDate.Format(domain.DayBucketLayout))
	}
	if q.EndDate != nil {
		values.Set("endDate", q.EndDate.Format(domain.DayBucketLayout))
	}
	if q.After != "" {
		values.Set("after", q.After)
	}
	if q.Before != "" {
		values.Set("before", q.Before)
	}
	if q.OrderDirection != "" {
		values.Set("orderDirection", q.OrderDirection)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// AggregateItem is one date of the cross-DAO aggregate
type AggregateItem struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// AggregateResponse is the fused cross-DAO series
type AggregateResponse struct {
	Items    []AggregateItem `json:"items"`
	PageInfo PageInfo        `json:"pageInfo"`
}

// Service aggregates day-bucket series across registered DAO backends.
// It owns no persisted state; every call recomputes from live upstream
// responses.
type Service struct {
	registry map[domain.DaoID]string
	client   *Client
	pool     pond.ResultPool[*daoSeries]
}

type daoSeries struct {
	daoID  domain.DaoID
	series *SeriesResponse
}

// NewService creates an aggregation service over a fixed DAO → base URL
// registry
func NewService(registry map[domain.DaoID]string, client *Client, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Service{
		registry: registry,
		client:   client,
		pool:     pond.NewResultPool[*daoSeries](concurrency),
	}
}

// DelegatedPercentage fans out the query to every registered DAO, tolerates
// per-DAO failures, aligns the successful series by date and returns the
// per-date arithmetic mean. An aggregate over nothing is empty, not an error.
func (s *Service) DelegatedPercentage(ctx context.Context, query Query) (*AggregateResponse, error) {
	if query.StartDate != nil && query.EndDate != nil && query.StartDate.After(*query.EndDate) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", domain.ErrInvalidDateRange,
			query.StartDate.Format(domain.DayBucketLayout), query.EndDate.Format(domain.DayBucketLayout))
	}

	if len(s.registry) == 0 {
		return emptyAggregate(), nil
	}

	values := query.Values()
	tasks := make([]pond.ResultTask[*daoSeries], 0, len(s.registry))
	for daoID, baseURL := range s.registry {
		daoID, baseURL := daoID, baseURL
		tasks = append(tasks, s.pool.SubmitErr(func() (*daoSeries, error) {
			series, err := s.client.FetchDelegationSeries(ctx, baseURL, values)
			if err != nil {
				return nil, fmt.Errorf("dao %s: %w", daoID, err)
			}
			return &daoSeries{daoID: daoID, series: series}, nil
		}))
	}

	// Wait for every outcome; one DAO's exhausted retries must not block or
	// fail the others
	var successes []*daoSeries
	for _, task := range tasks {
		result, err := task.Wait()
		if err != nil {
			logger.WarnCtx(ctx, "excluding dao from aggregate", zap.Error(err))
			continue
		}
		successes = append(successes, result)
	}

	if len(successes) == 0 {
		return emptyAggregate(), nil
	}

	return alignAndAverage(successes, query.OrderDirection), nil
}

// alignAndAverage builds the union of date keys across the successful series
// and computes the per-date mean over the DAOs that have a value for that
// date; DAOs missing a date are excluded from that date's mean, not zeroed
func alignAndAverage(sources []*daoSeries, orderDirection string) *AggregateResponse {
	type accumulator struct {
		sum   *big.Float
		count uint64
	}
	byDate := make(map[string]*accumulator)
	hasNextPage := false

	for _, source := range sources {
		hasNextPage = hasNextPage || source.series.PageInfo.HasNextPage
		for _, item := range source.series.Items {
			value, _, err := big.ParseFloat(item.Value, 10, floatPrec, big.ToNearestEven)
			if err != nil {
				continue
			}
			acc, ok := byDate[item.Date]
			if !ok {
				acc = &accumulator{sum: new(big.Float).SetPrec(floatPrec)}
				byDate[item.Date] = acc
			}
			acc.sum.Add(acc.sum, value)
			acc.count++
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// ISO dates sort correctly as strings
	sort.Strings(dates)
	if orderDirection == "desc" {
		for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
			dates[i], dates[j] = dates[j], dates[i]
		}
	}

	items := make([]AggregateItem, 0, len(dates))
	for _, date := range dates {
		acc := byDate[date]
		mean := new(big.Float).SetPrec(floatPrec).Quo(acc.sum, new(big.Float).SetUint64(acc.count))
		items = append(items, AggregateItem{Date: date, Value: mean.Text('f', -1)})
	}

	return &AggregateResponse{
		Items:    items,
		PageInfo: PageInfo{HasNextPage: hasNextPage},
	}
}

func emptyAggregate() *AggregateResponse {
	return &AggregateResponse{
		Items:    []AggregateItem{},
		PageInfo: PageInfo{HasNextPage: false},
	}
}
