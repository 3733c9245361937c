// Package stats reduces comparable listings to a robust price estimate.
package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Analyze computes a price estimate from active and completed comparables.
//
// Completed listings flagged Estimated are counted in the sample size but
// never priced: they are inferred from active listings, and the
// active-adjusted branch already models that gap.
func Analyze(
	active, sold []domain.ComparableListing,
	t *tables.StatsTables,
) domain.PriceEstimate {
	activePrices := Prices(active)
	soldPrices := Prices(genuine(sold))

	est := domain.PriceEstimate{
		Currency: currency(active, sold, t.DefaultCurrency),
		Range:    Summarize(append(slices.Clone(soldPrices), activePrices...)),
		SampleSize: domain.SampleSize{
			Active:    len(activePrices),
			Sold:      len(soldPrices),
			Estimated: len(sold) - len(genuine(sold)),
			Total:     len(activePrices) + len(soldPrices),
		},
	}

	var (
		price float64
		n     int
	)

	switch {
	case len(soldPrices) >= t.MinSample:
		price = Median(RemoveOutliers(soldPrices, t.OutlierSigma))
		n = len(soldPrices)
		est.Source = domain.SourceSoldListings

	case len(activePrices) >= t.MinSample:
		price = Median(RemoveOutliers(activePrices, t.OutlierSigma)) * t.ActiveDiscount
		n = len(activePrices)
		est.Source = domain.SourceActiveAdjusted

	case len(soldPrices) > 0 && len(activePrices) > 0:
		combined := append(
			RemoveOutliers(soldPrices, t.OutlierSigma),
			scale(RemoveOutliers(activePrices, t.OutlierSigma), t.ActiveDiscount)...,
		)
		price = Median(combined)
		n = len(soldPrices) + len(activePrices)
		est.Source = domain.SourceCombined

	case len(soldPrices)+len(activePrices) > 0:
		price = Mean(append(slices.Clone(soldPrices), scale(activePrices, t.ActiveDiscount)...))
		n = len(soldPrices) + len(activePrices)
		est.Source = domain.SourceLimitedData
		est.Reason = fmt.Sprintf("only %d comparable listing(s) found", n)

	default:
		est.Source = domain.SourceNoData
		est.Confidence = domain.ConfidenceLow
		est.Reason = "no comparable listings with a usable price"
		return est
	}

	p := Round2(price)
	est.SuggestedPrice = &p
	est.Confidence = Confidence(est.Source, n, len(soldPrices), t)

	return est
}

// Confidence maps an estimate's provenance and sample size to a tier. High
// requires a sold-listing estimate backed by the high-confidence sample;
// fallback sources and thin samples are always low.
func Confidence(
	source domain.EstimateSource,
	n, soldN int,
	t *tables.StatsTables,
) domain.Confidence {
	switch {
	case source.Fallback() || n < t.MinSample:
		return domain.ConfidenceLow
	case source == domain.SourceSoldListings && soldN >= t.HighConfidence:
		return domain.ConfidenceHigh
	default:
		return domain.ConfidenceMedium
	}
}

// Prices extracts the positive, finite prices from listings.
func Prices(listings []domain.ComparableListing) []float64 {
	out := make([]float64, 0, len(listings))
	for i := range listings {
		p := listings[i].Price.Amount
		if p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p) {
			out = append(out, p)
		}
	}
	return out
}

// RemoveOutliers drops observations farther than sigma population standard
// deviations from the mean, repeating until no observation is dropped. The
// result is a fixed point: filtering it again returns it unchanged.
func RemoveOutliers(xs []float64, sigma float64) []float64 {
	cur := slices.Clone(xs)
	for len(cur) > 2 {
		mean, sd := MeanStdDev(cur)
		if sd == 0 {
			break
		}

		kept := cur[:0:0]
		for _, x := range cur {
			if math.Abs(x-mean) <= sigma*sd {
				kept = append(kept, x)
			}
		}
		if len(kept) == len(cur) {
			break
		}
		cur = kept
	}
	return cur
}

// Summarize reports min, median, average, and max of xs.
func Summarize(xs []float64) domain.PriceRange {
	if len(xs) == 0 {
		return domain.PriceRange{}
	}
	return domain.PriceRange{
		Min:     Round2(slices.Min(xs)),
		Median:  Round2(Median(xs)),
		Average: Round2(Mean(xs)),
		Max:     Round2(slices.Max(xs)),
	}
}

// Median returns the median of xs, or 0 for an empty slice.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// MeanStdDev returns the mean and population standard deviation of xs.
func MeanStdDev(xs []float64) (mean, sd float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean = Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}

// Round2 rounds to cents.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func scale(xs []float64, f float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out
}

func genuine(sold []domain.ComparableListing) []domain.ComparableListing {
	out := make([]domain.ComparableListing, 0, len(sold))
	for i := range sold {
		if !sold[i].Estimated {
			out = append(out, sold[i])
		}
	}
	return out
}

func currency(active, sold []domain.ComparableListing, def string) string {
	for _, bucket := range [][]domain.ComparableListing{sold, active} {
		for i := range bucket {
			if bucket[i].Price.Currency != "" {
				return bucket[i].Price.Currency
			}
		}
	}
	return def
}
