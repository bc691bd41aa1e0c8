package analysis

import (
	"context"
	"log"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/asin-analyzer/internal/models"
)

// DefaultLookupConcurrency bounds parallel seller lookups per product
const DefaultLookupConcurrency = 4

// SellerLookup resolves a seller id to a display identity. A nil info with a
// nil error means the seller is unknown upstream.
type SellerLookup interface {
	FetchSellerInfo(ctx context.Context, sellerID string) (*models.SellerInfo, error)
}

type sellerCandidate struct {
	id    string
	offer models.Offer
	price int
}

// SellerCandidates is the sorted union of buy-box and used buy-box seller ids
func SellerCandidates(stats models.ProductStats) []string {
	seen := make(map[string]struct{}, len(stats.BuyBoxStats)+len(stats.BuyBoxUsedStats))
	for id := range stats.BuyBoxStats {
		seen[id] = struct{}{}
	}
	for id := range stats.BuyBoxUsedStats {
		seen[id] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// indexOffers maps seller id to offer; a repeated seller id keeps the last offer
func indexOffers(offers []models.Offer) map[string]models.Offer {
	bySeller := make(map[string]models.Offer, len(offers))
	for _, offer := range offers {
		if offer.SellerID == "" {
			continue
		}
		bySeller[offer.SellerID] = offer
	}
	return bySeller
}

// BuildSellerRows builds the seller table from sellers that appear in the
// buy-box statistics and also hold an offer with a positive last price.
// Lookups run concurrently, at most concurrency at a time; a failed lookup
// only downgrades its own row to the synthetic "SellerID: <id>" name.
func BuildSellerRows(ctx context.Context, p *models.Product, lookup SellerLookup, concurrency int) []models.SellerRow {
	offers := indexOffers(p.Offers)

	var candidates []sellerCandidate
	for _, id := range SellerCandidates(p.Stats) {
		offer, ok := offers[id]
		if !ok {
			continue
		}
		price, ok := LastOfferPrice(offer)
		if !ok || price <= 0 {
			continue
		}
		candidates = append(candidates, sellerCandidate{id: id, offer: offer, price: price})
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	infos := lookupSellers(ctx, lookup, ids, concurrency)

	fee, hasFee := pickAndPackFee(p.Stats)

	rows := make([]models.SellerRow, 0, len(candidates))
	for i, c := range candidates {
		row := models.SellerRow{
			SellerID:  c.id,
			Price:     FormatMinorUnits(c.price),
			Inventory: LastOfferStock(c.offer),
			FBAFee:    naText,
		}

		if info := infos[i]; info != nil {
			row.SellerName = info.SellerName
			row.ReviewCount = strconv.Itoa(info.LifetimeRatings)
		} else {
			row.SellerName = "SellerID: " + c.id
		}

		if c.offer.IsFBA && hasFee {
			row.FBAFee = FormatMinorUnits(fee)
		}

		rows = append(rows, row)
	}
	return rows
}

// lookupSellers returns one entry per id, in id order; nil marks a miss
func lookupSellers(ctx context.Context, lookup SellerLookup, ids []string, concurrency int) []*models.SellerInfo {
	infos := make([]*models.SellerInfo, len(ids))
	if lookup == nil || len(ids) == 0 {
		return infos
	}
	if concurrency <= 0 {
		concurrency = DefaultLookupConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("PANIC in seller lookup for %s: %v", id, r)
				}
			}()

			info, err := lookup.FetchSellerInfo(ctx, id)
			if err != nil {
				log.Printf("Analysis: seller lookup for %s failed, using fallback name: %v", id, err)
				return nil
			}
			infos[i] = info
			return nil
		})
	}
	_ = g.Wait()

	return infos
}

func pickAndPackFee(stats models.ProductStats) (int, bool) {
	if stats.FBAFees == nil {
		return 0, false
	}
	fee, ok := stats.FBAFees.PickAndPackFee.Get()
	return fee, ok && fee > 0
}
