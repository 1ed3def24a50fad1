package bucket

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/daotrack/governance-indexer/internal/adapter"
	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/logger"
	"github.com/daotrack/governance-indexer/internal/store"
	"github.com/daotrack/governance-indexer/internal/store/schema"
)

const floatPrec = 256

// AggregatorStore is the persistence surface the day-bucket rebuild needs
type AggregatorStore interface {
	GetSupplyChanges(ctx context.Context, daoID domain.DaoID) ([]store.ValuePoint, error)
	GetVotingPowerDeltas(ctx context.Context, daoID domain.DaoID) ([]store.ValuePoint, error)
	UpsertDayBuckets(ctx context.Context, buckets []*schema.DayBucket) error
}

// Aggregator rebuilds day buckets from ledger history. Rebuilds are
// idempotent; buckets are a derived cache over the ledgers, not a source of
// truth.
type Aggregator struct {
	store AggregatorStore
	clock adapter.Clock
}

// NewAggregator creates a day-bucket aggregator
func NewAggregator(s AggregatorStore, clock adapter.Clock) *Aggregator {
	return &Aggregator{store: s, clock: clock}
}

// Rebuild recomputes all day buckets of one metric for a DAO and upserts them
func (a *Aggregator) Rebuild(ctx context.Context, daoID domain.DaoID, metricType domain.MetricType) error {
	runID := ulid.Make().String()
	logger.InfoCtx(ctx, "rebuilding day buckets",
		zap.String("run_id", runID),
		zap.String("dao_id", string(daoID)),
		zap.String("metric_type", string(metricType)))

	today := a.clock.Now().UTC()

	var buckets []*schema.DayBucket
	switch metricType {
	case domain.MetricTypeTotalSupply:
		points, err := a.store.GetSupplyChanges(ctx, daoID)
		if err != nil {
			return fmt.Errorf("failed to load supply changes: %w", err)
		}
		buckets = foldBuckets(daoID, metricType, points, today)
	case domain.MetricTypeDelegatedSupply:
		points, err := a.store.GetVotingPowerDeltas(ctx, daoID)
		if err != nil {
			return fmt.Errorf("failed to load voting power deltas: %w", err)
		}
		buckets = foldBuckets(daoID, metricType, points, today)
	case domain.MetricTypeDelegationPercentage:
		var err error
		buckets, err = a.foldDelegationPercentage(ctx, daoID, today)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no rebuild defined for metric %s", metricType)
	}

	if err := a.store.UpsertDayBuckets(ctx, buckets); err != nil {
		return fmt.Errorf("failed to upsert day buckets: %w", err)
	}

	logger.InfoCtx(ctx, "day bucket rebuild complete",
		zap.String("run_id", runID),
		zap.String("dao_id", string(daoID)),
		zap.String("metric_type", string(metricType)),
		zap.Int("buckets", len(buckets)))
	return nil
}

// dayStats accumulates the observed running values of one day
type dayStats struct {
	open   *big.Float
	close  *big.Float
	high   *big.Float
	low    *big.Float
	sum    *big.Float
	volume *big.Float
	count  uint64
}

// foldBuckets folds ordered ledger deltas into per-day OHLC stats over the
// running total, then forward-fills gap days with the previous close through
// today
func foldBuckets(daoID domain.DaoID, metricType domain.MetricType, points []store.ValuePoint, today time.Time) []*schema.DayBucket {
	if len(points) == 0 {
		return nil
	}

	running := new(big.Float).SetPrec(floatPrec)
	stats := make(map[time.Time]*dayStats)

	for _, p := range points {
		delta, ok := new(big.Float).SetPrec(floatPrec).SetString(p.Delta)
		if !ok {
			continue
		}
		running = new(big.Float).SetPrec(floatPrec).Add(running, delta)
		day := domain.DayKey(p.Timestamp)

		s, exists := stats[day]
		if !exists {
			s = &dayStats{
				open:   running,
				high:   running,
				low:    running,
				sum:    new(big.Float).SetPrec(floatPrec),
				volume: new(big.Float).SetPrec(floatPrec),
			}
			stats[day] = s
		}
		s.close = running
		if running.Cmp(s.high) > 0 {
			s.high = running
		}
		if running.Cmp(s.low) < 0 {
			s.low = running
		}
		s.sum.Add(s.sum, running)
		s.volume.Add(s.volume, new(big.Float).Abs(delta))
		s.count++
	}

	timeline := Timeline(points[0].Timestamp, today)

	var buckets []*schema.DayBucket
	var prevClose *big.Float
	for _, day := range timeline {
		s, ok := stats[day]
		if !ok {
			// Gap day carries the previous close forward with no activity
			if prevClose == nil {
				continue
			}
			buckets = append(buckets, flatBucket(daoID, metricType, day, prevClose))
			continue
		}

		average := new(big.Float).SetPrec(floatPrec).Quo(s.sum, new(big.Float).SetUint64(s.count))
		buckets = append(buckets, &schema.DayBucket{
			DaoID:      daoID,
			MetricType: metricType,
			Day:        day,
			Open:       formatValue(s.open),
			Close:      formatValue(s.close),
			High:       formatValue(s.high),
			Low:        formatValue(s.low),
			Average:    formatValue(average),
			Volume:     formatValue(s.volume),
			Count:      s.count,
		})
		prevClose = s.close
	}
	return buckets
}

// foldDelegationPercentage derives the percentage series from the daily closes
// of delegated supply over total supply, forward-filling both inputs
func (a *Aggregator) foldDelegationPercentage(ctx context.Context, daoID domain.DaoID, today time.Time) ([]*schema.DayBucket, error) {
	supplyPoints, err := a.store.GetSupplyChanges(ctx, daoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supply changes: %w", err)
	}
	delegatedPoints, err := a.store.GetVotingPowerDeltas(ctx, daoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load voting power deltas: %w", err)
	}
	if len(supplyPoints) == 0 {
		return nil, nil
	}

	supplyDaily := dailyCloses(supplyPoints)
	delegatedDaily := dailyCloses(delegatedPoints)

	earliest := supplyPoints[0].Timestamp
	if len(delegatedPoints) > 0 && delegatedPoints[0].Timestamp.Before(earliest) {
		earliest = delegatedPoints[0].Timestamp
	}
	timeline := Timeline(earliest, today)

	supply := ForwardFill(supplyDaily, timeline, nil)
	delegated := ForwardFill(delegatedDaily, timeline, nil)

	hundred := new(big.Float).SetPrec(floatPrec).SetUint64(100)
	zero := new(big.Float).SetPrec(floatPrec)

	var buckets []*schema.DayBucket
	for _, day := range timeline {
		total, ok := supply[day]
		if !ok || total.Sign() <= 0 {
			continue
		}
		del, ok := delegated[day]
		if !ok {
			del = zero
		}
		pct := new(big.Float).SetPrec(floatPrec).Quo(del, total)
		pct.Mul(pct, hundred)
		buckets = append(buckets, flatBucket(daoID, domain.MetricTypeDelegationPercentage, day, pct))
	}
	return buckets, nil
}

// dailyCloses reduces ordered deltas to the running total at the end of each
// day that saw activity
func dailyCloses(points []store.ValuePoint) map[time.Time]*big.Float {
	running := new(big.Float).SetPrec(floatPrec)
	closes := make(map[time.Time]*big.Float)
	for _, p := range points {
		delta, ok := new(big.Float).SetPrec(floatPrec).SetString(p.Delta)
		if !ok {
			continue
		}
		running = new(big.Float).SetPrec(floatPrec).Add(running, delta)
		closes[domain.DayKey(p.Timestamp)] = running
	}
	return closes
}

func flatBucket(daoID domain.DaoID, metricType domain.MetricType, day time.Time, value *big.Float) *schema.DayBucket {
	v := formatValue(value)
	return &schema.DayBucket{
		DaoID:      daoID,
		MetricType: metricType,
		Day:        day,
		Open:       v,
		Close:      v,
		High:       v,
		Low:        v,
		Average:    v,
		Volume:     "0",
		Count:      0,
	}
}

func formatValue(v *big.Float) string {
	return v.Text('f', -1)
}

// SortedDays returns the keys of a daily series in ascending order
func SortedDays(series map[time.Time]*big.Float) []time.Time {
	days := make([]time.Time, 0, len(series))
	for day := range series {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
