package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

const productFixture = `{
	"asin": "B000TEST01",
	"title": "Stainless Steel Water Bottle",
	"brand": "Hydra",
	"categoryTree": [{"catId": 1055398, "name": "Home & Kitchen"}, {"catId": 3206324011, "name": "Water Bottles"}],
	"salesRanks": {"1055398": [0, 5000, 1440, 4000], "3206324011": [0, 50, 1440, 40]},
	"salesRankReference": 3206324011,
	"csv": [null, [0, 2599, 1440, -1, 2880, 2499], null, null, null, null, null, null, null, null, null, null, null, null, null, null, [0, 45], [0, 812]],
	"stats": {
		"current": [2499],
		"avg7": [2550],
		"avg30": [2600],
		"min": [[0, 1999]],
		"buyBoxPrice": 2499,
		"buyBoxIsAmazon": false,
		"offerCountFBA": 3,
		"offerCountFBM": 1,
		"totalOfferCount": 4,
		"buyBoxStats": {"SELLER_A": {"percentageWon": 80}},
		"buyBoxUsedStats": {"SELLER_B": {"percentageWon": 20}},
		"fbaFees": {"pickAndPackFee": 415},
		"stockAmazon": 10
	},
	"offers": [
		{"sellerId": "SELLER_A", "offerCSV": [0, 2499, 0], "stockCSV": [0, 20, 1440, 15], "isFBA": true},
		{"sellerId": "SELLER_B", "offerCSV": [0, 2549, 499], "stockCSV": [0, 5], "isFBA": false},
		{"sellerId": "SELLER_C", "offerCSV": [0, 3999, 0], "stockCSV": [0]},
		{"offerCSV": [0, 2600, 0], "stockCSV": [0, 1]}
	],
	"monthlySold": 100
}`

func loadFixture(t *testing.T) *models.Product {
	t.Helper()
	var p models.Product
	if err := json.Unmarshal([]byte(productFixture), &p); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return &p
}

func TestSummarize_UpstreamStatusError(t *testing.T) {
	a := NewAssembler(nil, 0)
	err := fmt.Errorf("fetching product: %w", &models.UpstreamStatusError{Endpoint: "product", StatusCode: 500})

	result := a.Summarize(context.Background(), nil, err)

	if !result.Failed() {
		t.Fatal("expected a failed result")
	}
	body, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		t.Fatalf("marshal failed: %v", marshalErr)
	}
	if string(body) != `{"error":"Keepa API request failed: HTTP 500"}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSummarize_TransportError(t *testing.T) {
	result := NewAssembler(nil, 0).Summarize(context.Background(), nil, errors.New("connection refused"))
	if result.Error != "Keepa API request failed: connection refused" {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestSummarize_NoProducts(t *testing.T) {
	a := NewAssembler(nil, 0)

	for _, resp := range []*models.ProductResponse{nil, {}, {Products: []models.Product{}}} {
		result := a.Summarize(context.Background(), resp, nil)
		if result.Error != NoProductDataMessage {
			t.Errorf("Error = %q, want %q", result.Error, NoProductDataMessage)
		}
		body, _ := json.Marshal(result)
		if string(body) != `{"error":"No product data found"}` {
			t.Errorf("unexpected body: %s", body)
		}
	}
}

func TestAssemble_Fixture(t *testing.T) {
	lookup := &fakeSellerLookup{
		infos: map[string]*models.SellerInfo{
			"SELLER_A": {SellerName: "Alpha Outfitters", LifetimeRatings: 3400},
			"SELLER_B": {SellerName: "Bravo Supply", LifetimeRatings: 12},
		},
	}
	a := NewAssembler(lookup, 2)

	s := a.Assemble(context.Background(), loadFixture(t))

	if s.ASIN != "B000TEST01" || s.Title != "Stainless Steel Water Bottle" || s.Brand != "Hydra" {
		t.Errorf("unexpected identity: %s / %s / %s", s.ASIN, s.Title, s.Brand)
	}
	if s.Category != "Home & Kitchen" {
		t.Errorf("Category = %s", s.Category)
	}
	if s.StarRating != "4.5" || s.RatingCount.String() != "812" {
		t.Errorf("rating = %s (%s)", s.StarRating, s.RatingCount)
	}

	// Ranking uses salesRankReference
	if s.Ranking.Current.String() != "40" || s.Ranking.Best.String() != "40" || s.Ranking.Avg7.String() != "45" {
		t.Errorf("Ranking = %+v", s.Ranking)
	}

	wantPricing := models.PriceSummary{Current: "$24.99", Avg7: "$25.50", Avg30: "$26.00", Best: "$19.99"}
	if s.Pricing != wantPricing {
		t.Errorf("Pricing = %+v, want %+v", s.Pricing, wantPricing)
	}

	wantCounts := models.SellerCounts{FBA: 3, MF: 1, Competitive: 3, Total: 4, IsAmazon: "No"}
	if s.SellerCounts != wantCounts {
		t.Errorf("SellerCounts = %+v, want %+v", s.SellerCounts, wantCounts)
	}
	if s.SellerName != "3rd Party" {
		t.Errorf("SellerName = %s", s.SellerName)
	}

	// 15 + 5 + 1 offers plus 10 from Amazon over 100 sold per month
	if s.Inventory.TotalInventory != 31 || s.Inventory.DaysOfCover.String() != "9.3" || s.Inventory.EstimatedSales.String() != "100" {
		t.Errorf("Inventory = %+v", s.Inventory)
	}

	wantRows := []models.SellerRow{
		{SellerID: "SELLER_A", SellerName: "Alpha Outfitters", ReviewCount: "3400", Price: "$24.99", Inventory: 15, FBAFee: "$4.15"},
		{SellerID: "SELLER_B", SellerName: "Bravo Supply", ReviewCount: "12", Price: "$25.49", Inventory: 5, FBAFee: "N/A"},
	}
	if len(s.Sellers) != len(wantRows) {
		t.Fatalf("got %d seller rows, want %d", len(s.Sellers), len(wantRows))
	}
	for i := range wantRows {
		if s.Sellers[i] != wantRows[i] {
			t.Errorf("row %d = %+v, want %+v", i, s.Sellers[i], wantRows[i])
		}
	}
}

func TestAssemble_AmazonBuyBox(t *testing.T) {
	p := loadFixture(t)
	p.Stats.BuyBoxIsAmazon = true

	s := NewAssembler(nil, 0).Assemble(context.Background(), p)

	if s.SellerCounts.IsAmazon != "Yes" || s.SellerName != "Amazon" {
		t.Errorf("got isAmazon=%s sellerName=%s", s.SellerCounts.IsAmazon, s.SellerName)
	}
}

func TestAssemble_EmptyProduct(t *testing.T) {
	s := NewAssembler(nil, 0).Assemble(context.Background(), &models.Product{})

	for name, got := range map[string]string{
		"asin":          s.ASIN,
		"title":         s.Title,
		"brand":         s.Brand,
		"category":      s.Category,
		"starRating":    s.StarRating,
		"pricing.best":  s.Pricing.Best,
		"pricing.avg30": s.Pricing.Avg30,
	} {
		if got != "N/A" {
			t.Errorf("%s = %s, want N/A", name, got)
		}
	}
	if s.Sellers == nil || len(s.Sellers) != 0 {
		t.Errorf("expected an empty, non-nil seller list, got %#v", s.Sellers)
	}

	body, err := json.Marshal(models.AnalysisResult{Summary: s})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["ratingCount"] != "N/A" {
		t.Errorf("ratingCount = %v, want N/A", decoded["ratingCount"])
	}
	if _, ok := decoded["error"]; ok {
		t.Error("a successful result must not carry an error member")
	}
}

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(loadFixture(t))

	// Charts always use the first category, not salesRankReference
	wantRank := []models.TimePoint{{Date: "2011-01-01", Value: 5000}, {Date: "2011-01-02", Value: 4000}}
	if len(charts.SalesRank) != len(wantRank) {
		t.Fatalf("SalesRank = %+v", charts.SalesRank)
	}
	for i := range wantRank {
		if charts.SalesRank[i] != wantRank[i] {
			t.Errorf("SalesRank[%d] = %+v, want %+v", i, charts.SalesRank[i], wantRank[i])
		}
	}

	wantBuyBox := []models.TimePoint{{Date: "2011-01-01", Value: 25.99}, {Date: "2011-01-03", Value: 24.99}}
	if len(charts.BuyBoxPrice) != len(wantBuyBox) {
		t.Fatalf("BuyBoxPrice = %+v", charts.BuyBoxPrice)
	}
	for i := range wantBuyBox {
		if charts.BuyBoxPrice[i] != wantBuyBox[i] {
			t.Errorf("BuyBoxPrice[%d] = %+v, want %+v", i, charts.BuyBoxPrice[i], wantBuyBox[i])
		}
	}

	if len(charts.InventoryBySeller) != 3 {
		t.Errorf("expected 3 inventory series, got %v", charts.InventoryBySeller)
	}
	if _, ok := charts.InventoryBySeller["SELLER_C"]; ok {
		t.Error("offer with a single stock element should not be charted")
	}
	if got := charts.InventoryBySeller["??"]; len(got) != 1 || got[0].Value != 1 {
		t.Errorf("anonymous offer series = %+v", got)
	}
	if got := charts.InventoryBySeller["SELLER_A"]; len(got) != 2 || got[1].Value != 15 {
		t.Errorf("SELLER_A series = %+v", got)
	}
}

func TestBuildCharts_EmptyProduct(t *testing.T) {
	charts := BuildCharts(&models.Product{})

	body, err := json.Marshal(charts)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(body) != `{"salesRank":[],"buyBoxPrice":[],"inventoryBySeller":{}}` {
		t.Errorf("unexpected body: %s", body)
	}
}
