package analysis

import (
	"math"
	"slices"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

const (
	// minCompetitiveSpread is the smallest price band, in cents, above the
	// lowest offer that still counts as competitive
	minCompetitiveSpread   = 200
	competitiveSpreadRatio = 0.05
	daysPerMonth           = 30
)

// CountCompetitiveSellers counts offers priced within max($2, 5%) of the
// lowest last-known offer price.
func CountCompetitiveSellers(p *models.Product) int {
	var prices []int
	for _, offer := range p.Offers {
		if price, ok := LastOfferPrice(offer); ok && price > 0 {
			prices = append(prices, price)
		}
	}
	if len(prices) == 0 {
		return 0
	}

	lowest := slices.Min(prices)
	threshold := max(minCompetitiveSpread, int(math.Round(float64(lowest)*competitiveSpreadRatio)))

	count := 0
	for _, price := range prices {
		if price >= lowest && price <= lowest+threshold {
			count++
		}
	}
	return count
}

// SumAllStock adds the last stock level of every offer and Amazon's own stock
func SumAllStock(p *models.Product) int {
	total := 0
	for _, offer := range p.Offers {
		total += LastOfferStock(offer)
	}
	if amazon, ok := p.Stats.StockAmazon.Get(); ok && amazon > 0 {
		total += amazon
	}
	return total
}

// SummarizeInventory derives days of cover from total stock and monthlySold.
// Without a positive monthlySold only the total is known.
func SummarizeInventory(p *models.Product) models.InventorySummary {
	total := SumAllStock(p)
	summary := models.InventorySummary{
		DaysOfCover:    models.NotAvailable,
		TotalInventory: total,
		EstimatedSales: models.NotAvailable,
	}

	sold, ok := p.MonthlySold.Get()
	if !ok || sold <= 0 {
		return summary
	}

	cover := float64(total) / float64(sold) * daysPerMonth
	summary.DaysOfCover = models.FloatNumber(math.Round(cover*10) / 10)
	summary.EstimatedSales = models.IntNumber(sold)
	return summary
}
