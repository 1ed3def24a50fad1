// Package bucket derives daily OHLC aggregates from the ledgers and provides
// the forward-fill interpolation used for sparse series.
package bucket

import (
	"math/big"
	"time"

	"github.com/daotrack/governance-indexer/internal/domain"
)

// Timeline builds UTC-midnight steps from the day of from through the day of
// to, inclusive, at one-day intervals
func Timeline(from, to time.Time) []time.Time {
	start := domain.DayKey(from)
	end := domain.DayKey(to)

	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// ForwardFill walks the timeline in order carrying the most recent known value
// into gaps. It never back-fills and never interpolates between known points.
// Days before the first known value are omitted unless an initial value is
// supplied (e.g. the most recent pre-range bucket); unknown-before-start is
// different from known-zero.
func ForwardFill(sparse map[time.Time]*big.Float, timeline []time.Time, initial *big.Float) map[time.Time]*big.Float {
	filled := make(map[time.Time]*big.Float, len(timeline))
	lastKnown := initial

	for _, day := range timeline {
		if v, ok := sparse[day]; ok {
			lastKnown = v
		}
		if lastKnown != nil {
			filled[day] = lastKnown
		}
	}
	return filled
}

// ComposeTreasury combines a governance-token quantity series, a USD price
// series and non-token asset valuations into a daily treasury value:
// price(day) * qty(day) + nonToken(day). The price series anchors the
// timeline; days absent from the other inputs count as zero for that day
// rather than being forward-filled.
func ComposeTreasury(price, govTokenQty, nonTokenAssets map[time.Time]*big.Float) map[time.Time]*big.Float {
	composed := make(map[time.Time]*big.Float, len(price))

	for day, p := range price {
		value := new(big.Float).SetPrec(floatPrec)
		if qty, ok := govTokenQty[day]; ok {
			value.Mul(p, qty)
		}
		if assets, ok := nonTokenAssets[day]; ok {
			value.Add(value, assets)
		}
		composed[day] = value
	}
	return composed
}
