// Package domain defines the core business types for the resale router.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Condition is the owner-reported condition grade of an item.
type Condition string

// Condition constants.
const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Conditions lists every valid condition grade, best first.
var Conditions = []Condition{
	ConditionExcellent,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
}

// Valid reports whether c is one of the known grades.
func (c Condition) Valid() bool {
	return slices.Contains(Conditions, c)
}

// ItemCondition is the condition grade plus the free-text detail
// captured upstream.
type ItemCondition struct {
	Grade       Condition `json:"grade"                 enum:"excellent,good,fair,poor" doc:"Condition grade"`
	Description string    `json:"description,omitempty" doc:"Free-text condition notes"`
	Issues      []string  `json:"issues,omitempty"      doc:"Issue keywords, e.g. scratched, missing cable"`
}

// ItemAttributes is the canonical, already-normalized description of the item
// being valued. Variant field shapes are resolved upstream.
type ItemAttributes struct {
	Category    string        `json:"category"              minLength:"1" doc:"Item category" example:"furniture"`
	Brand       string        `json:"brand,omitempty"       doc:"Brand name or Unknown" example:"IKEA"`
	Model       string        `json:"model,omitempty"       doc:"Model name" example:"Hemnes"`
	Materials   []string      `json:"materials,omitempty"   doc:"Materials, most prominent first"`
	Style       string        `json:"style,omitempty"       doc:"Style descriptor" example:"mid-century"`
	KeyFeatures []string      `json:"key_features,omitempty" doc:"Distinguishing features, most prominent first"`
	Condition   ItemCondition `json:"condition"             doc:"Condition grade and notes"`
	Description string        `json:"description,omitempty" doc:"Free-text description"`
}

// SizeHints returns the free text that may carry size or weight cues for
// shipping estimation.
func (a *ItemAttributes) SizeHints() string {
	parts := make([]string, 0, len(a.KeyFeatures)+2)
	parts = append(parts, a.Model, a.Description)
	parts = append(parts, a.KeyFeatures...)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// QueryKind classifies how a search query candidate was built.
type QueryKind string

// Query kind constants.
const (
	QueryBrandModel       QueryKind = "brand+model"
	QueryBrand            QueryKind = "brand"
	QueryModel            QueryKind = "model"
	QueryDescriptive      QueryKind = "descriptive"
	QueryCategoryRefined  QueryKind = "category-refined"
	QueryCategoryFallback QueryKind = "category-fallback"
)

// SearchQueryCandidate is one search text to try against the marketplace.
// Lower Priority values are more specific and tried first.
type SearchQueryCandidate struct {
	Text     string    `json:"text"     doc:"Search text"`
	Priority int       `json:"priority" doc:"Lower is more specific"`
	Kind     QueryKind `json:"kind"     doc:"How the candidate was built"`
}

// ListingKind distinguishes live listings from completed sales.
type ListingKind string

// Listing kind constants.
const (
	ListingActive    ListingKind = "active"
	ListingCompleted ListingKind = "completed"
)

// Money is an amount in a currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ComparableListing is a marketplace listing used to approximate value.
// Listings are fetched per request and never stored by the pipeline.
type ComparableListing struct {
	ItemID    string      `json:"item_id"`
	Title     string      `json:"title"`
	Price     Money       `json:"price"`
	Condition string      `json:"condition,omitempty"`
	Kind      ListingKind `json:"kind"`
	URL       string      `json:"url,omitempty"`
	Seller    string      `json:"seller,omitempty"`
	Location  string      `json:"location,omitempty"`

	// Estimated marks a completed-sale price inferred from an active listing
	// rather than observed.
	Estimated bool `json:"estimated,omitempty"`
}

// Identity returns a stable key for deduplication. Sold and estimated
// variants of an item share the identity of the active listing.
func (l *ComparableListing) Identity() string {
	id := l.ItemID
	for _, p := range []string{"est:", "sold:"} {
		id = strings.TrimPrefix(id, p)
	}
	// Browse API ids look like v1|<legacy id>|<variation>.
	if parts := strings.Split(id, "|"); len(parts) == 3 && parts[0] == "v1" {
		id = parts[1]
	}
	return id
}

// Confidence is the qualitative strength of a price estimate.
type Confidence string

// Confidence constants.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// EstimateSource identifies which strategy produced a price estimate.
type EstimateSource string

// Estimate source constants.
const (
	SourceSoldListings    EstimateSource = "sold_listings"
	SourceActiveAdjusted  EstimateSource = "active_adjusted"
	SourceCombined        EstimateSource = "combined"
	SourceLimitedData     EstimateSource = "limited_data"
	SourceNoData          EstimateSource = "no_data"
	SourceManualHeuristic EstimateSource = "manual_heuristic"
	SourceErrorFallback   EstimateSource = "error_fallback"
)

// Fallback reports whether the source is a degraded path with no usable
// market sample behind it.
func (s EstimateSource) Fallback() bool {
	return s == SourceNoData || s == SourceErrorFallback
}

// PriceRange summarizes the unfiltered combined sample.
type PriceRange struct {
	Min     float64 `json:"min"`
	Median  float64 `json:"median"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
}

// SampleSize decomposes the observations behind an estimate.
type SampleSize struct {
	Active    int `json:"active"`
	Sold      int `json:"sold"`
	Estimated int `json:"estimated"`
	Total     int `json:"total"`
}

// PriceEstimate is the valuation of an item.
type PriceEstimate struct {
	SuggestedPrice *float64       `json:"suggested_price"  doc:"Null when no price could be derived"`
	Currency       string         `json:"currency"`
	Confidence     Confidence     `json:"confidence"       enum:"low,medium,high"`
	Range          PriceRange     `json:"range"`
	SampleSize     SampleSize     `json:"sample_size"`
	Source         EstimateSource `json:"source"`
	Reason         string         `json:"reason,omitempty" doc:"Why the estimate is degraded, if it is"`
}

// HasPrice reports whether the estimate carries a suggested price.
func (e *PriceEstimate) HasPrice() bool {
	return e.SuggestedPrice != nil
}

// Price returns the suggested price or zero.
func (e *PriceEstimate) Price() float64 {
	if e.SuggestedPrice == nil {
		return 0
	}
	return *e.SuggestedPrice
}

// CostBreakdown models the marketplace economics of reselling at a price.
// NetProfit = Price - ShippingCost - MarketplaceFee and may be negative.
type CostBreakdown struct {
	Price          float64 `json:"price"`
	ShippingCost   float64 `json:"shipping_cost"`
	MarketplaceFee float64 `json:"marketplace_fee"`
	NetProfit      float64 `json:"net_profit"`
	ShippingTier   string  `json:"shipping_tier,omitempty"`
}

// RouteType names a disposition route.
type RouteType string

// Route type constants.
const (
	RouteResale       RouteType = "resale"
	RouteInstantOffer RouteType = "instant-offer"
	RouteLocalPickup  RouteType = "local-pickup"
	RouteDonation     RouteType = "donation"
)

// TimeToMoney labels how long until the owner is paid.
type TimeToMoney string

// Time-to-money labels.
const (
	TimeImmediate TimeToMoney = "immediate"
	TimeDays      TimeToMoney = "1-3 days"
	TimeWeeks     TimeToMoney = "1-3 weeks"
	TimeNone      TimeToMoney = "none"
)

// Effort labels how much work the owner does.
type Effort string

// Effort labels.
const (
	EffortNone   Effort = "none"
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// DispositionRoute is one way to get rid of an item.
type DispositionRoute struct {
	Type            RouteType   `json:"type"`
	Priority        int         `json:"priority"          doc:"1 is the primary route"`
	EstimatedReturn float64     `json:"estimated_return"`
	TimeToMoney     TimeToMoney `json:"time_to_money"`
	Effort          Effort      `json:"effort"`
	Reason          string      `json:"reason,omitempty"  doc:"Why the route was chosen over resale, if it was"`
}

// InstantOffer is the buyback valuation.
type InstantOffer struct {
	Eligible  bool    `json:"eligible"`
	Amount    float64 `json:"amount,omitempty"`
	Rationale string  `json:"rationale"`
}

// Preferences carries the owner's routing preferences.
type Preferences struct {
	// DisabledRoutes removes alternatives the owner will not consider.
	// Donation is always offered.
	DisabledRoutes []RouteType `json:"disabled_routes,omitempty" doc:"Routes to leave out of the alternatives"`
	// MinProfit raises the resale profit threshold; it never lowers it.
	MinProfit *float64 `json:"min_profit,omitempty" doc:"Minimum net profit worth a resale"`
}

// Allows reports whether a route type may be offered.
func (p *Preferences) Allows(t RouteType) bool {
	if t == RouteDonation {
		return true
	}
	return !slices.Contains(p.DisabledRoutes, t)
}

// RoutingResult is the recommended route with its alternatives and the
// numbers that justified the decision.
type RoutingResult struct {
	ID           string             `json:"id"`
	Primary      DispositionRoute   `json:"primary"`
	Alternatives []DispositionRoute `json:"alternatives"`
	Estimate     PriceEstimate      `json:"estimate"`
	Costs        CostBreakdown      `json:"costs"`
	InstantOffer InstantOffer       `json:"instant_offer"`
	Category     string             `json:"category"`
	Condition    Condition          `json:"condition"`
	CreatedAt    time.Time          `json:"created_at"`
}
