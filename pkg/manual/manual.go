// Package manual prices an item from fixed category, brand, and condition
// tables when no market data is available.
package manual

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/resale-router/pkg/query"
	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Estimate returns a heuristic price estimate for attrs. It never fails and
// never performs I/O. Confidence is always medium: the tables encode market
// knowledge but no sample backs the individual number.
func Estimate(attrs *domain.ItemAttributes, t *tables.Tables) domain.PriceEstimate {
	mt := &t.Manual

	base, key, ok := tables.LookupCategory(mt.BasePrices, attrs.Category)
	if !ok {
		base, key = mt.DefaultBasePrice, "default"
	}
	factors := []string{fmt.Sprintf("%s base %.2f", key, base)}

	price := decimal.NewFromFloat(base)

	if tier, ok := BrandTier(attrs.Brand, mt.BrandTiers); ok {
		price = price.Mul(decimal.NewFromFloat(tier.Multiplier))
		factors = append(factors, fmt.Sprintf("%s brand x%.2f", tier.Name, tier.Multiplier))
	}

	grade, mult := conditionMultiplier(attrs.Condition.Grade, mt.ConditionMultiplier)
	price = price.Mul(decimal.NewFromFloat(mult))
	factors = append(factors, fmt.Sprintf("%s condition x%.2f", grade, mult))

	if attrs.Model != "" && !query.Generic(attrs.Model, &t.Query) {
		price = price.Mul(decimal.NewFromFloat(mt.ModelBonus))
		factors = append(factors, fmt.Sprintf("known model x%.2f", mt.ModelBonus))
	}

	if kw, ok := Unusable(attrs, mt.UnusableKeywords); ok {
		price = price.Mul(decimal.NewFromFloat(mt.UnusablePenalty))
		factors = append(factors, fmt.Sprintf("%q x%.2f", kw, mt.UnusablePenalty))
	}

	price = price.Round(2)
	spread := decimal.NewFromFloat(mt.RangeSpread)
	lo := price.Mul(decimal.NewFromInt(1).Sub(spread)).Round(2)
	hi := price.Mul(decimal.NewFromInt(1).Add(spread)).Round(2)

	p := price.InexactFloat64()
	return domain.PriceEstimate{
		SuggestedPrice: &p,
		Currency:       t.Stats.DefaultCurrency,
		Confidence:     domain.ConfidenceMedium,
		Range: domain.PriceRange{
			Min:     lo.InexactFloat64(),
			Median:  p,
			Average: p,
			Max:     hi.InexactFloat64(),
		},
		Source: domain.SourceManualHeuristic,
		Reason: "heuristic: " + strings.Join(factors, ", "),
	}
}

// BrandTier returns the first tier listing a brand contained in brand,
// case-insensitively.
func BrandTier(brand string, tiers []tables.BrandTier) (tables.BrandTier, bool) {
	if strings.TrimSpace(brand) == "" {
		return tables.BrandTier{}, false
	}
	for _, tier := range tiers {
		if _, ok := tables.ContainsAny(brand, tier.Brands); ok {
			return tier, true
		}
	}
	return tables.BrandTier{}, false
}

// Unusable reports whether the item is described as not usable as-is, and
// the keyword that matched.
func Unusable(attrs *domain.ItemAttributes, keywords []string) (string, bool) {
	text := strings.Join(attrs.Condition.Issues, " ") + " " +
		attrs.Condition.Description + " " + attrs.Description
	return tables.ContainsAny(text, keywords)
}

// conditionMultiplier resolves grade, treating an unknown grade as good.
func conditionMultiplier(grade domain.Condition, m map[string]float64) (domain.Condition, float64) {
	if !grade.Valid() {
		grade = domain.ConditionGood
	}
	if v, ok := m[string(grade)]; ok {
		return grade, v
	}
	return grade, 1
}
