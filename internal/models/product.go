package models

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TokenStatus is the token accounting block Keepa attaches to every response
type TokenStatus struct {
	Timestamp      int64 `json:"timestamp"`
	TokensLeft     int   `json:"tokensLeft"`
	RefillIn       int   `json:"refillIn"`
	RefillRate     int   `json:"refillRate"`
	TokensConsumed int   `json:"tokensConsumed"`
}

// ProductResponse is the body of a Keepa /product call
type ProductResponse struct {
	TokenStatus
	Products []Product `json:"products"`
}

// Product is one Keepa product record. Every field is optional upstream;
// scalars that need a "missing" state are OptionalInt.
type Product struct {
	ASIN               string         `json:"asin"`
	Title              string         `json:"title"`
	Brand              string         `json:"brand"`
	CategoryTree       []CategoryNode `json:"categoryTree"`
	SalesRanks         RankHistory    `json:"salesRanks"`
	SalesRankReference OptionalInt    `json:"salesRankReference"`
	CSV                History        `json:"csv"`
	Stats              ProductStats   `json:"stats"`
	Offers             []Offer        `json:"offers"`
	MonthlySold        OptionalInt    `json:"monthlySold"`
}

type CategoryNode struct {
	CatID int    `json:"catId"`
	Name  string `json:"name"`
}

// ProductStats is the aggregate snapshot requested with the stats parameter
type ProductStats struct {
	Current         Series                     `json:"current"`
	Avg7            Series                     `json:"avg7"`
	Avg30           Series                     `json:"avg30"`
	Min             History                    `json:"min"`
	BuyBoxPrice     OptionalInt                `json:"buyBoxPrice"`
	BuyBoxIsAmazon  bool                       `json:"buyBoxIsAmazon"`
	OfferCountFBA   int                        `json:"offerCountFBA"`
	OfferCountFBM   int                        `json:"offerCountFBM"`
	TotalOfferCount int                        `json:"totalOfferCount"`
	BuyBoxStats     map[string]json.RawMessage `json:"buyBoxStats"`
	BuyBoxUsedStats map[string]json.RawMessage `json:"buyBoxUsedStats"`
	FBAFees         *FBAFees                   `json:"fbaFees"`
	StockAmazon     OptionalInt                `json:"stockAmazon"`
}

type FBAFees struct {
	PickAndPackFee OptionalInt `json:"pickAndPackFee"`
}

// Offer is a single marketplace offer. OfferCSV and StockCSV use the same
// flat [time, value, ...] encoding as the product csv histories.
type Offer struct {
	SellerID string `json:"sellerId"`
	OfferCSV Series `json:"offerCSV"`
	StockCSV Series `json:"stockCSV"`
	IsFBA    bool   `json:"isFBA"`
}

// RankHistory maps category ids to flat sales rank histories, keeping the
// key order of the upstream document.
type RankHistory struct {
	ranks *orderedmap.OrderedMap[string, []int]
}

// UnmarshalJSON never fails: null or a non-object value leaves the history
// empty, and series elements decode the way Series does.
func (h *RankHistory) UnmarshalJSON(data []byte) error {
	h.ranks = orderedmap.New[string, []int]()

	raw := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, raw); err != nil {
		return nil
	}

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		h.ranks.Set(pair.Key, decodeSeries(pair.Value))
	}
	return nil
}

// Get returns the series for a category id
func (h RankHistory) Get(categoryID string) ([]int, bool) {
	if h.ranks == nil {
		return nil, false
	}
	return h.ranks.Get(categoryID)
}

// First returns the earliest inserted category and its series
func (h RankHistory) First() (string, []int, bool) {
	if h.ranks == nil {
		return "", nil, false
	}
	pair := h.ranks.Oldest()
	if pair == nil {
		return "", nil, false
	}
	return pair.Key, pair.Value, true
}
