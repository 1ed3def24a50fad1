package schema

import (
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// DayBucket represents the dao_metrics_day_bucket table - per-day OHLC
// aggregates of a DAO metric, rebuilt idempotently from ledger history
type DayBucket struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// DaoID identifies the DAO the bucket belongs to
	DaoID domain.DaoID `gorm:"column:dao_id;not null;type:text;uniqueIndex:idx_day_buckets_metric,priority:1"`
	// MetricType identifies the aggregated series
	MetricType domain.MetricType `gorm:"column:metric_type;not null;type:text;uniqueIndex:idx_day_buckets_metric,priority:2"`
	// Day is the UTC midnight of the bucket
	Day time.Time `gorm:"column:day;not null;type:date;uniqueIndex:idx_day_buckets_metric,priority:3"`
	// Open is the first value observed in the day (carry-forward of the
	// previous close on gap days)
	Open string `gorm:"column:open;not null;type:numeric(96,18)"`
	// Close is the last value observed in the day
	Close string `gorm:"column:close;not null;type:numeric(96,18)"`
	// High is the maximum value observed in the day
	High string `gorm:"column:high;not null;type:numeric(96,18)"`
	// Low is the minimum value observed in the day
	Low string `gorm:"column:low;not null;type:numeric(96,18)"`
	// Average is the arithmetic mean of the values observed in the day
	Average string `gorm:"column:average;not null;type:numeric(96,18)"`
	// Volume is the sum of absolute deltas observed in the day
	Volume string `gorm:"column:volume;not null;type:numeric(96,18)"`
	// Count is the number of ledger rows folded into the bucket
	// (zero on forward-filled gap days)
	Count uint64 `gorm:"column:count;not null;type:bigint"`
	// CreatedAt is the timestamp when this record was first built
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last rebuilt
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the DayBucket model
func (DayBucket) TableName() string {
	return "dao_metrics_day_bucket"
}
