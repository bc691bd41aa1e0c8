package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

const (
	// NoProductDataMessage is the error reported when Keepa returns no products
	NoProductDataMessage = "No product data found"

	unknownSellerID = "??"
)

// Assembler builds product summaries. It is safe for concurrent use as long
// as its SellerLookup is.
type Assembler struct {
	sellers           SellerLookup
	lookupConcurrency int
}

func NewAssembler(sellers SellerLookup, lookupConcurrency int) *Assembler {
	if lookupConcurrency <= 0 {
		lookupConcurrency = DefaultLookupConcurrency
	}
	return &Assembler{
		sellers:           sellers,
		lookupConcurrency: lookupConcurrency,
	}
}

// Summarize turns the outcome of a product fetch into a report. A failed
// fetch or an empty product list yields an error-only result.
func (a *Assembler) Summarize(ctx context.Context, resp *models.ProductResponse, fetchErr error) models.AnalysisResult {
	if fetchErr != nil {
		return models.AnalysisResult{Error: UpstreamErrorMessage(fetchErr)}
	}
	if resp == nil || len(resp.Products) == 0 {
		return models.AnalysisResult{Error: NoProductDataMessage}
	}
	return models.AnalysisResult{Summary: a.Assemble(ctx, &resp.Products[0])}
}

// UpstreamErrorMessage renders a product fetch failure for the report
func UpstreamErrorMessage(err error) string {
	var statusErr *models.UpstreamStatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Keepa API request failed: HTTP %d", statusErr.StatusCode)
	}
	return fmt.Sprintf("Keepa API request failed: %v", err)
}

// Assemble derives every table field and chart series for one product
func (a *Assembler) Assemble(ctx context.Context, p *models.Product) *models.ProductSummary {
	stats := p.Stats

	isAmazon, sellerName := "No", "3rd Party"
	if stats.BuyBoxIsAmazon {
		isAmazon, sellerName = "Yes", "Amazon"
	}

	return &models.ProductSummary{
		ASIN:        textOrNA(p.ASIN),
		Title:       textOrNA(p.Title),
		Brand:       textOrNA(p.Brand),
		Category:    categoryName(p),
		StarRating:  StarRating(p.CSV),
		RatingCount: RatingCount(p.CSV),
		Ranking:     AggregateRank(p),
		Pricing: models.PriceSummary{
			Current: ToCurrencyDisplay(BuyBoxPriceMinor(stats)),
			Avg7:    ToCurrencyDisplay(firstOf(stats.Avg7)),
			Avg30:   ToCurrencyDisplay(firstOf(stats.Avg30)),
			Best:    ToCurrencyDisplay(BestPriceMinor(stats)),
		},
		SellerCounts: models.SellerCounts{
			FBA:         stats.OfferCountFBA,
			MF:          stats.OfferCountFBM,
			Competitive: CountCompetitiveSellers(p),
			Total:       stats.TotalOfferCount,
			IsAmazon:    isAmazon,
		},
		SellerName: sellerName,
		Inventory:  SummarizeInventory(p),
		Sellers:    BuildSellerRows(ctx, p, a.sellers, a.lookupConcurrency),
		Charts:     BuildCharts(p),
	}
}

// BuildCharts decodes the three chart series. The sales rank chart always
// uses the first rank category, unlike the ranking table which honors
// salesRankReference.
func BuildCharts(p *models.Product) models.ChartSeries {
	charts := models.ChartSeries{
		SalesRank:         []models.TimePoint{},
		BuyBoxPrice:       DecodeSeries(csvSlot(p.CSV, csvNewPrice)),
		InventoryBySeller: make(map[string][]models.TimePoint),
	}

	if _, series, ok := p.SalesRanks.First(); ok {
		charts.SalesRank = DecodeSeries(series)
	}

	for i := range charts.BuyBoxPrice {
		charts.BuyBoxPrice[i].Value /= minorUnitsScale
	}

	for _, offer := range p.Offers {
		if len(offer.StockCSV) < 2 {
			continue
		}
		sellerID := offer.SellerID
		if sellerID == "" {
			sellerID = unknownSellerID
		}
		charts.InventoryBySeller[sellerID] = DecodeSeries(offer.StockCSV)
	}

	return charts
}

func categoryName(p *models.Product) string {
	if len(p.CategoryTree) == 0 {
		return naText
	}
	return textOrNA(p.CategoryTree[0].Name)
}

func textOrNA(s string) string {
	if s == "" {
		return naText
	}
	return s
}
