package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/codyseavey/asin-analyzer/internal/analysis"
	"github.com/codyseavey/asin-analyzer/internal/metrics"
	"github.com/codyseavey/asin-analyzer/internal/models"
)

// ProductFetcher loads the Keepa product record for an ASIN
type ProductFetcher interface {
	FetchProduct(ctx context.Context, asin string) (*models.ProductResponse, error)
}

// AnalysisService fetches a product and turns it into a report
type AnalysisService struct {
	products  ProductFetcher
	assembler *analysis.Assembler
}

// NewAnalysisService creates a new analysis service. The Keepa service
// normally serves as both the product fetcher and the seller lookup.
func NewAnalysisService(products ProductFetcher, sellers analysis.SellerLookup, lookupConcurrency int) *AnalysisService {
	return &AnalysisService{
		products:  products,
		assembler: analysis.NewAssembler(sellers, lookupConcurrency),
	}
}

// NormalizeASIN trims and upper-cases user input
func NormalizeASIN(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Analyze builds the report for one ASIN. Failures are reported inside the
// result rather than returned.
func (s *AnalysisService) Analyze(ctx context.Context, asin string) models.AnalysisResult {
	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	resp, err := s.products.FetchProduct(ctx, asin)
	if err != nil {
		log.Printf("Analysis: product fetch for %s failed: %v", asin, err)
	}

	result := s.assembler.Summarize(ctx, resp, err)

	switch {
	case err != nil:
		metrics.AnalysesTotal.WithLabelValues("upstream_error").Inc()
	case result.Failed():
		log.Printf("Analysis: no product data for %s", asin)
		metrics.AnalysesTotal.WithLabelValues("empty").Inc()
	default:
		metrics.AnalysesTotal.WithLabelValues("ok").Inc()
		metrics.SellerRowsPerAnalysis.Observe(float64(len(result.Summary.Sellers)))
		log.Printf("Analysis: %s summarized with %d seller rows in %v", asin, len(result.Summary.Sellers), time.Since(start).Round(time.Millisecond))
	}

	return result
}
