package models

import (
	"encoding/json"
	"strconv"
)

// NotAvailableText is rendered wherever a value could not be derived
const NotAvailableText = "N/A"

// Number is a numeric report value that may be unavailable. It renders as a
// plain number, or as "N/A" instead of null.
type Number struct {
	value float64
	valid bool
}

// NotAvailable is the zero Number
var NotAvailable = Number{}

func IntNumber(n int) Number {
	return Number{value: float64(n), valid: true}
}

func FloatNumber(f float64) Number {
	return Number{value: f, valid: true}
}

func (n Number) Valid() bool {
	return n.valid
}

func (n Number) Value() float64 {
	return n.value
}

func (n Number) String() string {
	if !n.valid {
		return NotAvailableText
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return json.Marshal(NotAvailableText)
	}
	return []byte(n.String()), nil
}

// TimePoint is one chart sample
type TimePoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

type RankSummary struct {
	Current Number `json:"current"`
	Avg7    Number `json:"7day"`
	Avg30   Number `json:"30day"`
	Best    Number `json:"best"`
}

// PriceSummary holds display prices ("$12.34" or "N/A")
type PriceSummary struct {
	Current string `json:"current"`
	Avg7    string `json:"7day"`
	Avg30   string `json:"30day"`
	Best    string `json:"best"`
}

type SellerCounts struct {
	FBA         int    `json:"fba"`
	MF          int    `json:"mf"`
	Competitive int    `json:"competitive"`
	Total       int    `json:"total"`
	IsAmazon    string `json:"isAmazon"` // "Yes" or "No"
}

type InventorySummary struct {
	DaysOfCover    Number `json:"daysOfCover"`
	TotalInventory int    `json:"totalInventory"`
	EstimatedSales Number `json:"estimatedSales"`
}

// SellerRow is one line of the buy-box seller table
type SellerRow struct {
	SellerID    string `json:"sellerId"`
	SellerName  string `json:"sellerName"`
	ReviewCount string `json:"reviewCount"` // empty when the seller lookup failed
	Price       string `json:"price"`
	Inventory   int    `json:"inventory"`
	FBAFee      string `json:"fbaFee"`
}

type ChartSeries struct {
	SalesRank         []TimePoint            `json:"salesRank"`
	BuyBoxPrice       []TimePoint            `json:"buyBoxPrice"`
	InventoryBySeller map[string][]TimePoint `json:"inventoryBySeller"`
}

// ProductSummary is the report for one product
type ProductSummary struct {
	ASIN         string           `json:"asin"`
	Title        string           `json:"title"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category"`
	StarRating   string           `json:"starRating"`
	RatingCount  Number           `json:"ratingCount"`
	Ranking      RankSummary      `json:"ranking"`
	Pricing      PriceSummary     `json:"pricing"`
	SellerCounts SellerCounts     `json:"sellerCounts"`
	SellerName   string           `json:"sellerName"`
	Inventory    InventorySummary `json:"inventory"`
	Sellers      []SellerRow      `json:"sellers"`
	Charts       ChartSeries      `json:"charts"`
}

// AnalysisResult is either a summary or an error message, never both
type AnalysisResult struct {
	Summary *ProductSummary
	Error   string
}

func (r AnalysisResult) Failed() bool {
	return r.Summary == nil
}

// MarshalJSON emits the summary itself, or exactly {"error": "..."}
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if r.Summary == nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Error})
	}
	return json.Marshal(r.Summary)
}
