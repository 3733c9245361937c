// Package cost models the marketplace economics of reselling an item:
// shipping, fees, and the net profit left over.
package cost

import (
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Shipping tier names reported when no size hint matched.
const (
	TierStandard = "standard"
	TierDefault  = "default"
)

// Cost returns the cost breakdown for selling an item of category at price.
// sizeHints is free text (description, features) scanned for shipping tier
// keywords. All amounts are rounded to cents before the net is taken, so
// NetProfit equals Price - ShippingCost - MarketplaceFee exactly. NetProfit
// is never floored.
func Cost(category, sizeHints string, price float64, t *tables.CostTables) domain.CostBreakdown {
	p := decimal.NewFromFloat(price).Round(2)
	ship, tier := Shipping(category, sizeHints, t)
	s := decimal.NewFromFloat(ship).Round(2)
	f := fee(p, schedule(category, t))

	return domain.CostBreakdown{
		Price:          p.InexactFloat64(),
		ShippingCost:   s.InexactFloat64(),
		MarketplaceFee: f.InexactFloat64(),
		NetProfit:      p.Sub(s).Sub(f).InexactFloat64(),
		ShippingTier:   tier,
	}
}

// Shipping returns the estimated shipping cost for category and the name of
// the tier that produced it. The first tier whose keywords appear in
// sizeHints wins; otherwise the category base applies.
func Shipping(category, sizeHints string, t *tables.CostTables) (float64, string) {
	rule, _, ok := tables.LookupCategory(t.Shipping, category)
	if !ok {
		return t.DefaultShipping, TierDefault
	}
	for _, tier := range rule.Tiers {
		if _, hit := tables.ContainsAny(sizeHints, tier.Keywords); hit {
			return tier.Cost, tier.Name
		}
	}
	return rule.Base, TierStandard
}

// Fee returns the marketplace fee for selling at price in category.
func Fee(category string, price float64, t *tables.CostTables) float64 {
	return fee(decimal.NewFromFloat(price).Round(2), schedule(category, t)).InexactFloat64()
}

func schedule(category string, t *tables.CostTables) tables.FeeSchedule {
	if _, ok := tables.ContainsAny(category, t.HighValue); ok {
		return t.HighValueFee
	}
	return t.StandardFee
}

func fee(price decimal.Decimal, s tables.FeeSchedule) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}

	rate := decimal.NewFromFloat(s.Rate)
	var f decimal.Decimal
	if s.Threshold > 0 && price.GreaterThan(decimal.NewFromFloat(s.Threshold)) {
		threshold := decimal.NewFromFloat(s.Threshold)
		f = threshold.Mul(rate).Add(
			price.Sub(threshold).Mul(decimal.NewFromFloat(s.AboveRate)),
		)
	} else {
		f = price.Mul(rate)
	}

	if s.Cap > 0 {
		f = decimal.Min(f, decimal.NewFromFloat(s.Cap))
	}
	return f.Round(2)
}
