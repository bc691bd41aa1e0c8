package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SellerInfo is the identity shown in a seller row
type SellerInfo struct {
	SellerName      string `json:"seller_name"`
	LifetimeRatings int    `json:"lifetime_ratings"`
}

// SellerResponse is the body of a Keepa /seller call
type SellerResponse struct {
	TokenStatus
	Sellers SellerDirectory `json:"sellers"`
}

// KeepaSeller is a seller object as returned by the /seller endpoint
type KeepaSeller struct {
	SellerID    string  `json:"sellerId"`
	SellerName  *string `json:"sellerName"`
	RatingCount []int   `json:"ratingCount"`
}

// Info converts the upstream seller into the fields a seller row needs.
// ratingCount holds counts for 30/90/365 days and lifetime; anything other
// than those four entries means the lifetime count is unknown.
func (s KeepaSeller) Info(sellerID string) SellerInfo {
	name := fmt.Sprintf("SellerID:%s", sellerID)
	if s.SellerName != nil {
		name = *s.SellerName
	}

	lifetime := 0
	if len(s.RatingCount) == 4 {
		lifetime = s.RatingCount[3]
	}

	return SellerInfo{
		SellerName:      name,
		LifetimeRatings: lifetime,
	}
}

// SellerDirectory holds the "sellers" member of a seller response, which
// Keepa sends either as an object keyed by seller id or as a plain array.
type SellerDirectory struct {
	byID *orderedmap.OrderedMap[string, *KeepaSeller]
	list []*KeepaSeller
}

func (d *SellerDirectory) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		raw := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(trimmed, raw); err != nil {
			return nil
		}
		d.byID = orderedmap.New[string, *KeepaSeller]()
		for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
			var seller *KeepaSeller
			_ = json.Unmarshal(pair.Value, &seller)
			d.byID.Set(pair.Key, seller)
		}
	case '[':
		var list []*KeepaSeller
		_ = json.Unmarshal(trimmed, &list)
		d.list = list
	}
	return nil
}

// Lookup resolves a seller: by id when keyed, otherwise the first entry
func (d SellerDirectory) Lookup(sellerID string) (*KeepaSeller, bool) {
	if d.byID != nil {
		if seller, ok := d.byID.Get(sellerID); ok && seller != nil {
			return seller, true
		}
		if pair := d.byID.Oldest(); pair != nil && pair.Value != nil {
			return pair.Value, true
		}
		return nil, false
	}

	if len(d.list) > 0 && d.list[0] != nil {
		return d.list[0], true
	}
	return nil, false
}
