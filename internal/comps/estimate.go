package comps

import (
	"math"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Dampening bounds applied to active prices when sold data is unavailable.
const (
	dampenMin = 0.85
	dampenMax = 1.05
)

const estimatedPrefix = "est:"

// EstimateSold infers up to n completed sales from active listings by
// scaling each price by a factor drawn from [0.85, 1.05). The results are
// flagged Estimated and keep the identity of the listing they came from.
func EstimateSold(
	active []domain.ComparableListing,
	n int,
	randFunc func() float64,
) []domain.ComparableListing {
	out := make([]domain.ComparableListing, 0, max(0, min(n, len(active))))
	for i := range active {
		if len(out) >= n {
			break
		}
		a := active[i]
		if a.Price.Amount <= 0 {
			continue
		}

		factor := dampenMin + (dampenMax-dampenMin)*randFunc()
		a.ItemID = estimatedPrefix + a.Identity()
		a.Price.Amount = math.Round(a.Price.Amount*factor*100) / 100
		a.Kind = domain.ListingCompleted
		a.Estimated = true
		out = append(out, a)
	}
	return out
}
