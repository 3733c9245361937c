package disposition

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Offer computes the instant buyback offer for an item. The base is the high
// end of the estimate's range (or the suggested price when the range is
// empty) times the buy rate, scaled by condition and category demand. Offers
// below the minimum are ineligible; offers above the maximum are capped.
func Offer(
	est *domain.PriceEstimate,
	cond domain.Condition,
	category string,
	t *tables.InstantOfferTables,
) domain.InstantOffer {
	if !est.HasPrice() {
		return domain.InstantOffer{Rationale: "no price estimate to base an offer on"}
	}

	high := est.Range.Max
	if high <= 0 {
		high = est.Price()
	}

	condMult, ok := t.ConditionMultiplier[string(cond)]
	if !ok {
		condMult = 1
	}
	demand, _, ok := tables.LookupCategory(t.CategoryDemand, category)
	if !ok {
		demand = t.DefaultDemand
	}

	amount := decimal.NewFromFloat(high).
		Mul(decimal.NewFromFloat(t.BuyRate)).
		Mul(decimal.NewFromFloat(condMult)).
		Mul(decimal.NewFromFloat(demand)).
		Round(2)

	minOffer := decimal.NewFromFloat(t.MinOffer)
	if amount.LessThan(minOffer) {
		return domain.InstantOffer{
			Rationale: fmt.Sprintf(
				"offer %s is below the %s minimum; donation is the better fit",
				amount.StringFixed(2), minOffer.StringFixed(2),
			),
		}
	}

	rationale := fmt.Sprintf(
		"%.2f x buy rate %.2f x condition %.2f x demand %.2f",
		high, t.BuyRate, condMult, demand,
	)
	if maxOffer := decimal.NewFromFloat(t.MaxOffer); amount.GreaterThan(maxOffer) {
		amount = maxOffer
		rationale += ", capped at " + maxOffer.StringFixed(2)
	}

	return domain.InstantOffer{
		Eligible:  true,
		Amount:    amount.InexactFloat64(),
		Rationale: rationale,
	}
}
