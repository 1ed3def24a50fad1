package bucket_test

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daotrack/governance-indexer/internal/bucket"
	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/logger"
	"github.com/daotrack/governance-indexer/internal/store"
	"github.com/daotrack/governance-indexer/internal/store/schema"
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

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func f(v int64) *big.Float {
	return new(big.Float).SetInt64(v)
}

func TestTimeline(t *testing.T) {
	days := bucket.Timeline(time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC), day(4))
	require.Len(t, days, 4)
	assert.Equal(t, day(1), days[0])
	assert.Equal(t, day(4), days[3])

	// Same day collapses to a single step
	days = bucket.Timeline(day(7), day(7))
	assert.Len(t, days, 1)
}

func TestForwardFill_CarriesLastKnownValue(t *testing.T) {
	sparse := map[time.Time]*big.Float{
		day(1): f(10),
		day(5): f(20),
	}
	timeline := bucket.Timeline(day(1), day(7))

	filled := bucket.ForwardFill(sparse, timeline, nil)
	require.Len(t, filled, 7)
	for d, want := range map[int]int64{1: 10, 2: 10, 3: 10, 4: 10, 5: 20, 6: 20, 7: 20} {
		v, ok := filled[day(d)]
		require.True(t, ok, "day %d missing", d)
		assert.Zero(t, f(want).Cmp(v), "day %d", d)
	}
}

func TestForwardFill_InitialValueSeedsLeadingDays(t *testing.T) {
	sparse := map[time.Time]*big.Float{
		day(1): f(10),
	}
	// Timeline starts the day before the first known point
	timeline := bucket.Timeline(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day(1))

	filled := bucket.ForwardFill(sparse, timeline, f(5))
	require.Len(t, filled, 2)
	assert.Zero(t, f(5).Cmp(filled[time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)]))
	assert.Zero(t, f(10).Cmp(filled[day(1)]))
}

func TestForwardFill_DaysBeforeFirstValueOmitted(t *testing.T) {
	sparse := map[time.Time]*big.Float{
		day(3): f(42),
	}
	timeline := bucket.Timeline(day(1), day(4))

	filled := bucket.ForwardFill(sparse, timeline, nil)
	require.Len(t, filled, 2)
	_, ok := filled[day(1)]
	assert.False(t, ok)
	_, ok = filled[day(2)]
	assert.False(t, ok)
	assert.Zero(t, f(42).Cmp(filled[day(3)]))
}

func TestComposeTreasury_AnchoredOnPriceSeries(t *testing.T) {
	price := map[time.Time]*big.Float{
		day(1): f(2),
		day(2): f(3),
	}
	qty := map[time.Time]*big.Float{
		day(1): f(100),
		// day 2 missing: counts as zero, not forward-filled
		day(3): f(500), // outside the price timeline, ignored
	}
	assets := map[time.Time]*big.Float{
		day(2): f(7),
	}

	composed := bucket.ComposeTreasury(price, qty, assets)
	require.Len(t, composed, 2)
	assert.Zero(t, f(200).Cmp(composed[day(1)]))
	assert.Zero(t, f(7).Cmp(composed[day(2)]))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time                       { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration      { return c.now.Sub(t) }
func (c *fakeClock) Sleep(time.Duration)                  {}
func (c *fakeClock) After(time.Duration) <-chan time.Time { return nil }

type fakeAggregatorStore struct {
	supply    []store.ValuePoint
	delegated []store.ValuePoint
	upserted  []*schema.DayBucket
}

func (s *fakeAggregatorStore) GetSupplyChanges(context.Context, domain.DaoID) ([]store.ValuePoint, error) {
	return s.supply, nil
}

func (s *fakeAggregatorStore) GetVotingPowerDeltas(context.Context, domain.DaoID) ([]store.ValuePoint, error) {
	return s.delegated, nil
}

func (s *fakeAggregatorStore) UpsertDayBuckets(_ context.Context, buckets []*schema.DayBucket) error {
	s.upserted = buckets
	return nil
}

func at(d int, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestAggregator_RebuildTotalSupplyOHLC(t *testing.T) {
	st := &fakeAggregatorStore{
		supply: []store.ValuePoint{
			{Timestamp: at(1, 9), LogIndex: 1, Delta: "900"},
			{Timestamp: at(1, 12), LogIndex: 2, Delta: "-300"},
			{Timestamp: at(1, 18), LogIndex: 3, Delta: "600"},
			// day 2 has no activity, day 3 does
			{Timestamp: at(3, 10), LogIndex: 4, Delta: "100"},
		},
	}
	agg := bucket.NewAggregator(st, &fakeClock{now: at(3, 23)})

	require.NoError(t, agg.Rebuild(context.Background(), "uni", domain.MetricTypeTotalSupply))
	require.Len(t, st.upserted, 3)

	d1 := st.upserted[0]
	assert.Equal(t, day(1), d1.Day)
	assert.Equal(t, "900", d1.Open)
	assert.Equal(t, "1200", d1.Close)
	assert.Equal(t, "1200", d1.High)
	assert.Equal(t, "600", d1.Low)
	assert.Equal(t, "1800", d1.Volume)
	assert.Equal(t, uint64(3), d1.Count)
	assert.Equal(t, "900", d1.Average) // (900 + 600 + 1200) / 3

	// Gap day forward-fills the previous close with no activity
	d2 := st.upserted[1]
	assert.Equal(t, day(2), d2.Day)
	assert.Equal(t, "1200", d2.Open)
	assert.Equal(t, "1200", d2.Close)
	assert.Equal(t, "0", d2.Volume)
	assert.Equal(t, uint64(0), d2.Count)

	d3 := st.upserted[2]
	assert.Equal(t, "1300", d3.Close)
}

func TestAggregator_RebuildIsIdempotent(t *testing.T) {
	st := &fakeAggregatorStore{
		supply: []store.ValuePoint{
			{Timestamp: at(1, 9), LogIndex: 1, Delta: "1000"},
		},
	}
	agg := bucket.NewAggregator(st, &fakeClock{now: at(1, 23)})

	require.NoError(t, agg.Rebuild(context.Background(), "uni", domain.MetricTypeTotalSupply))
	first := st.upserted
	require.NoError(t, agg.Rebuild(context.Background(), "uni", domain.MetricTypeTotalSupply))

	require.Len(t, st.upserted, len(first))
	assert.Equal(t, first[0].Close, st.upserted[0].Close)
}

func TestAggregator_RebuildDelegationPercentage(t *testing.T) {
	st := &fakeAggregatorStore{
		supply: []store.ValuePoint{
			{Timestamp: at(1, 9), LogIndex: 1, Delta: "1000"},
		},
		delegated: []store.ValuePoint{
			{Timestamp: at(2, 9), LogIndex: 2, Delta: "250"},
		},
	}
	agg := bucket.NewAggregator(st, &fakeClock{now: at(3, 12)})

	require.NoError(t, agg.Rebuild(context.Background(), "uni", domain.MetricTypeDelegationPercentage))
	require.Len(t, st.upserted, 3)

	// No delegation yet on day 1
	assert.Equal(t, "0", st.upserted[0].Close)
	// 250 / 1000 from day 2 on, forward-filled into day 3
	assert.Equal(t, "25", st.upserted[1].Close)
	assert.Equal(t, "25", st.upserted[2].Close)
}

func TestAggregator_RebuildEmptyLedger(t *testing.T) {
	st := &fakeAggregatorStore{}
	agg := bucket.NewAggregator(st, &fakeClock{now: at(1, 12)})

	require.NoError(t, agg.Rebuild(context.Background(), "uni", domain.MetricTypeTotalSupply))
	assert.Empty(t, st.upserted)
}
