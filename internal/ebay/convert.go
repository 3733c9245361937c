package ebay

import (
	"strconv"
	"strings"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// soldPrefix marks completed-listing ids so they never collide with the
// Browse id of the same item.
const soldPrefix = "sold:"

// ToListings converts Browse API item summaries into active comparables.
func ToListings(items []ItemSummary) []domain.ComparableListing {
	listings := make([]domain.ComparableListing, 0, len(items))
	for i := range items {
		listings = append(listings, toListing(&items[i]))
	}
	return listings
}

func toListing(item *ItemSummary) domain.ComparableListing {
	l := domain.ComparableListing{
		ItemID:    item.ItemID,
		Title:     item.Title,
		Price:     domain.Money{Amount: parsePrice(item.Price.Value), Currency: item.Price.Currency},
		Condition: item.Condition,
		Kind:      domain.ListingActive,
		URL:       item.ItemWebURL,
	}

	if item.Seller != nil {
		l.Seller = item.Seller.Username
	}

	if loc := item.ItemLocation; loc != nil {
		l.Location = joinNonEmpty(", ", loc.City, loc.PostalCode, loc.Country)
	}

	return l
}

// CompletedToListings converts Finding API items into completed comparables.
func CompletedToListings(items []FindingItem) []domain.ComparableListing {
	listings := make([]domain.ComparableListing, 0, len(items))
	for i := range items {
		listings = append(listings, completedToListing(&items[i]))
	}
	return listings
}

func completedToListing(item *FindingItem) domain.ComparableListing {
	l := domain.ComparableListing{
		ItemID:   soldPrefix + first(item.ItemID),
		Title:    first(item.Title),
		Kind:     domain.ListingCompleted,
		URL:      first(item.ViewItemURL),
		Location: first(item.Location),
	}

	if len(item.SellingStatus) > 0 && len(item.SellingStatus[0].CurrentPrice) > 0 {
		p := item.SellingStatus[0].CurrentPrice[0]
		l.Price = domain.Money{Amount: parsePrice(p.Value), Currency: p.CurrencyID}
	}

	if len(item.Condition) > 0 {
		l.Condition = first(item.Condition[0].ConditionDisplayName)
	}

	if len(item.SellerInfo) > 0 {
		l.Seller = first(item.SellerInfo[0].SellerUserName)
	}

	return l
}

// parsePrice returns 0 for unparseable values; statistics ignore
// non-positive prices.
func parsePrice(v string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return p
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
