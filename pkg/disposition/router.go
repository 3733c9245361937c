// Package disposition decides how an owner should get rid of an item given
// its price estimate and resale economics.
package disposition

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// alternativeOrder is the fixed policy order for alternative routes. It
// trades speed against effort and is intentionally independent of returns.
var alternativeOrder = []domain.RouteType{
	domain.RouteInstantOffer,
	domain.RouteLocalPickup,
	domain.RouteDonation,
}

// Input carries everything the router decides on.
type Input struct {
	Estimate    domain.PriceEstimate
	Costs       domain.CostBreakdown
	Preferences domain.Preferences
	Condition   domain.Condition
	Category    string
}

// Route selects the primary route and ordered alternatives. Resale is primary
// unless the estimate has no price, the price is below the minimum, or the
// net profit does not clear the profit threshold; the primary then becomes
// donation with a zero return and a reason. The result carries the estimate
// and costs it was decided on. ID and CreatedAt are left to the caller.
func Route(in *Input, t *tables.RoutingTables) domain.RoutingResult {
	offer := Offer(&in.Estimate, in.Condition, in.Category, &t.InstantOffer)
	offer = capOffer(offer, in.Costs.NetProfit, t.InstantOffer.MinOffer)

	primary := primaryRoute(in, t)

	candidates := map[domain.RouteType]*domain.DispositionRoute{
		domain.RouteDonation: {
			Type:        domain.RouteDonation,
			TimeToMoney: domain.TimeNone,
			Effort:      domain.EffortLow,
			Reason:      "always available",
		},
	}
	if offer.Eligible {
		candidates[domain.RouteInstantOffer] = &domain.DispositionRoute{
			Type:            domain.RouteInstantOffer,
			EstimatedReturn: offer.Amount,
			TimeToMoney:     domain.TimeImmediate,
			Effort:          domain.EffortNone,
			Reason:          offer.Rationale,
		}
	}
	if lp, ok := localPickup(&in.Estimate, t.LocalPickupFactor); ok {
		candidates[domain.RouteLocalPickup] = lp
	}

	alts := make([]domain.DispositionRoute, 0, len(alternativeOrder))
	for _, rt := range alternativeOrder {
		r, ok := candidates[rt]
		if !ok || rt == primary.Type || !in.Preferences.Allows(rt) {
			continue
		}
		r.Priority = len(alts) + 2
		alts = append(alts, *r)
	}

	return domain.RoutingResult{
		Primary:      primary,
		Alternatives: alts,
		Estimate:     in.Estimate,
		Costs:        in.Costs,
		InstantOffer: offer,
		Category:     in.Category,
		Condition:    in.Condition,
	}
}

// ProfitThreshold returns the resale profit threshold. A preference may raise
// the configured minimum but never lower it.
func ProfitThreshold(prefs *domain.Preferences, t *tables.RoutingTables) float64 {
	if prefs != nil && prefs.MinProfit != nil && *prefs.MinProfit > t.MinResaleProfit {
		return *prefs.MinProfit
	}
	return t.MinResaleProfit
}

func primaryRoute(in *Input, t *tables.RoutingTables) domain.DispositionRoute {
	donate := func(reason string) domain.DispositionRoute {
		return domain.DispositionRoute{
			Type:        domain.RouteDonation,
			Priority:    1,
			TimeToMoney: domain.TimeNone,
			Effort:      domain.EffortLow,
			Reason:      reason,
		}
	}

	threshold := ProfitThreshold(&in.Preferences, t)
	switch {
	case !in.Estimate.HasPrice():
		return donate("no price estimate available")
	case in.Estimate.Price() < t.MinResalePrice:
		return donate(fmt.Sprintf(
			"suggested price %.2f is below the %.2f resale minimum",
			in.Estimate.Price(), t.MinResalePrice,
		))
	case in.Costs.NetProfit <= threshold:
		return donate(fmt.Sprintf(
			"net profit %.2f after shipping %.2f and fees %.2f does not clear %.2f",
			in.Costs.NetProfit, in.Costs.ShippingCost, in.Costs.MarketplaceFee, threshold,
		))
	}

	return domain.DispositionRoute{
		Type:            domain.RouteResale,
		Priority:        1,
		EstimatedReturn: in.Costs.NetProfit,
		TimeToMoney:     domain.TimeWeeks,
		Effort:          domain.EffortHigh,
	}
}

// capOffer keeps an eligible offer at or below the resale net return. An
// offer squeezed under the minimum becomes ineligible.
func capOffer(o domain.InstantOffer, net, minOffer float64) domain.InstantOffer {
	if !o.Eligible || o.Amount <= net {
		return o
	}
	if net < minOffer {
		return domain.InstantOffer{
			Rationale: fmt.Sprintf(
				"resale nets only %.2f, below the %.2f minimum offer", net, minOffer,
			),
		}
	}
	o.Amount = decimal.NewFromFloat(net).Round(2).InexactFloat64()
	o.Rationale += fmt.Sprintf(", capped at resale net %.2f", o.Amount)
	return o
}

func localPickup(est *domain.PriceEstimate, factor float64) (*domain.DispositionRoute, bool) {
	if !est.HasPrice() || est.Price() <= 0 {
		return nil, false
	}
	ret := decimal.NewFromFloat(est.Price()).Mul(decimal.NewFromFloat(factor)).Round(2)
	return &domain.DispositionRoute{
		Type:            domain.RouteLocalPickup,
		EstimatedReturn: ret.InexactFloat64(),
		TimeToMoney:     domain.TimeDays,
		Effort:          domain.EffortLow,
		Reason: fmt.Sprintf(
			"sell locally at %.0f%% of the suggested price with no shipping or fees",
			factor*100,
		),
	}, true
}
