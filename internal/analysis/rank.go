package analysis

import (
	"strconv"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

const (
	rankWindow7Days  = 7 * minutesPerDay
	rankWindow30Days = 30 * minutesPerDay
)

// AggregateRank computes current, 7/30-day average and best sales rank for
// the product's main category.
//
// Best is a plain minimum over the history. Keepa writes -1 while a product
// has no rank, and those entries count toward the minimum.
func AggregateRank(p *models.Product) models.RankSummary {
	unavailable := models.RankSummary{
		Current: models.NotAvailable,
		Avg7:    models.NotAvailable,
		Avg30:   models.NotAvailable,
		Best:    models.NotAvailable,
	}

	_, series, ok := RankCategory(p)
	if !ok || len(series) < 2 {
		return unavailable
	}

	pairs := sortedPairs(series)
	if len(pairs) == 0 {
		return unavailable
	}

	latest := pairs[len(pairs)-1]
	best := latest.Value
	for _, pair := range pairs {
		if pair.Value < best {
			best = pair.Value
		}
	}

	return models.RankSummary{
		Current: models.IntNumber(latest.Value),
		Avg7:    windowAverage(pairs, latest.Timestamp-rankWindow7Days),
		Avg30:   windowAverage(pairs, latest.Timestamp-rankWindow30Days),
		Best:    models.IntNumber(best),
	}
}

// RankCategory picks the rank history used for the table: the declared
// salesRankReference when present in salesRanks, otherwise the first
// category in document order.
func RankCategory(p *models.Product) (string, []int, bool) {
	if ref, ok := p.SalesRankReference.Get(); ok && ref != 0 {
		key := strconv.Itoa(ref)
		if series, ok := p.SalesRanks.Get(key); ok {
			return key, series, true
		}
	}
	return p.SalesRanks.First()
}

// windowAverage is the truncated mean of values at or after cutoff
func windowAverage(pairs []Pair, cutoff int) models.Number {
	sum, count := 0, 0
	for _, p := range pairs {
		if p.Timestamp >= cutoff {
			sum += p.Value
			count++
		}
	}
	if count == 0 {
		return models.NotAvailable
	}
	return models.IntNumber(sum / count)
}
