package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

// Keepa csv slots used by the report
const (
	csvNewPrice     = 1
	csvRating       = 16
	csvReviewCount  = 17
	naText          = models.NotAvailableText
	currencySymbol  = "$"
	ratingScale     = 10
	minorUnitsScale = 100
)

// FormatMinorUnits renders an amount in cents as "$12.34"
func FormatMinorUnits(minor int) string {
	if minor < 0 {
		return naText
	}
	return currencySymbol + decimal.New(int64(minor), -2).StringFixed(2)
}

// ToCurrencyDisplay is FormatMinorUnits for an amount that may be missing
func ToCurrencyDisplay(minor int, ok bool) string {
	if !ok {
		return naText
	}
	return FormatMinorUnits(minor)
}

// LastValidInt returns the final element of a flat history when the history
// holds at least one pair and the value is not a negative marker.
func LastValidInt(series []int) (int, bool) {
	if len(series) < 2 {
		return 0, false
	}
	last := series[len(series)-1]
	if last < 0 {
		return 0, false
	}
	return last, true
}

// LastOfferStock is the most recent stock level of an offer; unknown stock
// counts as zero.
func LastOfferStock(offer models.Offer) int {
	if len(offer.StockCSV) < 2 {
		return 0
	}
	if last := offer.StockCSV[len(offer.StockCSV)-1]; last > 0 {
		return last
	}
	return 0
}

// LastOfferPrice is the most recent offer price in cents. offerCSV is laid
// out as [time, price, shipping, ...], so the price is the second-to-last
// element.
func LastOfferPrice(offer models.Offer) (int, bool) {
	if len(offer.OfferCSV) < 2 {
		return 0, false
	}
	price := offer.OfferCSV[len(offer.OfferCSV)-2]
	if price < 0 {
		return 0, false
	}
	return price, true
}

func csvSlot(csv [][]int, slot int) []int {
	if slot < 0 || slot >= len(csv) {
		return nil
	}
	return csv[slot]
}

// StarRating formats the latest rating (stored as stars x 10) as "4.5"
func StarRating(csv [][]int) string {
	rating, ok := LastValidInt(csvSlot(csv, csvRating))
	if !ok {
		return naText
	}
	return fmt.Sprintf("%.1f", float64(rating)/ratingScale)
}

func RatingCount(csv [][]int) models.Number {
	count, ok := LastValidInt(csvSlot(csv, csvReviewCount))
	if !ok {
		return models.NotAvailable
	}
	return models.IntNumber(count)
}

// BuyBoxPriceMinor prefers stats.buyBoxPrice and falls back to the current
// Amazon price in stats.current[0].
func BuyBoxPriceMinor(stats models.ProductStats) (int, bool) {
	if price, ok := stats.BuyBoxPrice.Get(); ok && price >= 0 {
		return price, true
	}
	if len(stats.Current) > 0 && stats.Current[0] >= 0 {
		return stats.Current[0], true
	}
	return 0, false
}

// BestPriceMinor reads the all-time low from stats.min[0] = [time, price]
func BestPriceMinor(stats models.ProductStats) (int, bool) {
	if len(stats.Min) == 0 || len(stats.Min[0]) != 2 {
		return 0, false
	}
	return stats.Min[0][1], true
}

func firstOf(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[0], true
}
