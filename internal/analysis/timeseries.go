// Package analysis turns a raw Keepa product record into the report summary:
// table values, the buy-box seller table and chart series.
package analysis

import (
	"sort"
	"time"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

const (
	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

// keepaEpoch is minute zero of every Keepa timestamp
var keepaEpoch = time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)

// Pair is one (timestamp, value) entry of a flat Keepa history
type Pair struct {
	Timestamp int
	Value     int
}

// DecodePairs splits a flat [t0, v0, t1, v1, ...] history into pairs in
// source order. A trailing unpaired element is dropped; values are not
// filtered.
func DecodePairs(flat []int) []Pair {
	pairs := make([]Pair, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pairs = append(pairs, Pair{Timestamp: flat[i], Value: flat[i+1]})
	}
	return pairs
}

// KeepaMinutesToTime converts a Keepa minute offset to UTC time
func KeepaMinutesToTime(minutes int) time.Time {
	return keepaEpoch.Add(time.Duration(minutes) * time.Minute)
}

func FormatKeepaDate(minutes int) string {
	return KeepaMinutesToTime(minutes).Format(dateLayout)
}

// DecodeSeries converts a flat history into chart points sorted by time.
// Negative values are Keepa's "no data" markers and are skipped.
func DecodeSeries(flat []int) []models.TimePoint {
	pairs := sortedPairs(flat)

	points := make([]models.TimePoint, 0, len(pairs))
	for _, p := range pairs {
		if p.Value < 0 {
			continue
		}
		points = append(points, models.TimePoint{
			Date:  FormatKeepaDate(p.Timestamp),
			Value: float64(p.Value),
		})
	}
	return points
}

func sortedPairs(flat []int) []Pair {
	pairs := DecodePairs(flat)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Timestamp < pairs[j].Timestamp
	})
	return pairs
}
