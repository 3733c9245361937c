// Package tables holds the lookup tables and thresholds that drive query
// building, condition filtering, cost modeling, manual estimation, and
// routing. Tables are built once at startup and shared read-only.
package tables

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables bundles every lookup table used by the pipeline. Callers must not
// mutate a Tables value after it has been handed to the pipeline.
type Tables struct {
	Query     QueryTables     `yaml:"query"`
	Condition ConditionTables `yaml:"condition"`
	Cost      CostTables      `yaml:"cost"`
	Manual    ManualTables    `yaml:"manual"`
	Stats     StatsTables     `yaml:"stats"`
	Routing   RoutingTables   `yaml:"routing"`
}

// Refinement appends Suffix to the category query when the category contains
// CategoryKeyword and, if FeatureKeyword is set, a feature or the description
// mentions it.
type Refinement struct {
	CategoryKeyword string `yaml:"category"`
	FeatureKeyword  string `yaml:"feature"`
	Suffix          string `yaml:"suffix"`
}

// QueryTables drives the query builder.
type QueryTables struct {
	GenericTokens   []string     `yaml:"generic_tokens"`
	GenericFeatures []string     `yaml:"generic_features"`
	Refinements     []Refinement `yaml:"refinements"`
	MinModelLength  int          `yaml:"min_model_length"`
	FallbackQuery   string       `yaml:"fallback_query"`
}

// ConditionFilter is the marketplace condition-id band for one grade.
type ConditionFilter struct {
	Primary  []string `yaml:"primary"`
	Fallback []string `yaml:"fallback"`
}

// ConditionTables maps condition grades (excellent, good, fair, poor) to
// marketplace condition ids.
type ConditionTables struct {
	Filters map[string]ConditionFilter `yaml:"filters"`
}

// ShippingTier overrides the category base cost when any keyword appears in
// the item's size hints.
type ShippingTier struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Cost     float64  `yaml:"cost"`
}

// ShippingRule is the shipping model for one category.
type ShippingRule struct {
	Base  float64        `yaml:"base"`
	Tiers []ShippingTier `yaml:"tiers"`
}

// FeeSchedule is a tiered percentage fee. Rate applies up to Threshold and
// AboveRate beyond it; a zero Threshold means Rate applies throughout. A
// non-zero Cap bounds the total fee.
type FeeSchedule struct {
	Rate      float64 `yaml:"rate"`
	Threshold float64 `yaml:"threshold"`
	AboveRate float64 `yaml:"above_rate"`
	Cap       float64 `yaml:"cap"`
}

// CostTables drives the cost model.
type CostTables struct {
	Shipping        map[string]ShippingRule `yaml:"shipping"`
	DefaultShipping float64                 `yaml:"default_shipping"`
	StandardFee     FeeSchedule             `yaml:"standard_fee"`
	HighValueFee    FeeSchedule             `yaml:"high_value_fee"`
	HighValue       []string                `yaml:"high_value_categories"`
}

// BrandTier is a multiplier applied to brands matched by substring.
type BrandTier struct {
	Name       string   `yaml:"name"`
	Multiplier float64  `yaml:"multiplier"`
	Brands     []string `yaml:"brands"`
}

// ManualTables drives the manual estimator.
type ManualTables struct {
	BasePrices          map[string]float64 `yaml:"base_prices"`
	DefaultBasePrice    float64            `yaml:"default_base_price"`
	BrandTiers          []BrandTier        `yaml:"brand_tiers"`
	ConditionMultiplier map[string]float64 `yaml:"condition_multipliers"`
	ModelBonus          float64            `yaml:"model_bonus"`
	UnusablePenalty     float64            `yaml:"unusable_penalty"`
	UnusableKeywords    []string           `yaml:"unusable_keywords"`
	RangeSpread         float64            `yaml:"range_spread"`
}

// StatsTables drives the price statistics engine.
type StatsTables struct {
	ActiveDiscount  float64 `yaml:"active_discount"`
	OutlierSigma    float64 `yaml:"outlier_sigma"`
	MinSample       int     `yaml:"min_sample"`
	HighConfidence  int     `yaml:"high_confidence_sample"`
	DefaultCurrency string  `yaml:"default_currency"`
}

// InstantOfferTables drives the instant-offer calculator.
type InstantOfferTables struct {
	BuyRate             float64            `yaml:"buy_rate"`
	ConditionMultiplier map[string]float64 `yaml:"condition_multipliers"`
	CategoryDemand      map[string]float64 `yaml:"category_demand"`
	DefaultDemand       float64            `yaml:"default_demand"`
	MinOffer            float64            `yaml:"min_offer"`
	MaxOffer            float64            `yaml:"max_offer"`
}

// RoutingTables drives the disposition router.
type RoutingTables struct {
	MinResalePrice    float64            `yaml:"min_resale_price"`
	MinResaleProfit   float64            `yaml:"min_resale_profit"`
	LocalPickupFactor float64            `yaml:"local_pickup_factor"`
	InstantOffer      InstantOfferTables `yaml:"instant_offer"`
}

// Load returns the default tables with the YAML file at path layered on top.
// Keys absent from the file keep their defaults; maps are merged key by key.
func Load(path string) (*Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}

	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parsing tables YAML: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validating tables: %w", err)
	}

	return t, nil
}

// Validate checks the invariants the pipeline relies on.
func (t *Tables) Validate() error {
	var errs []error

	if t.Query.FallbackQuery == "" {
		errs = append(errs, errors.New("query.fallback_query is required"))
	}
	if t.Stats.ActiveDiscount <= 0 || t.Stats.ActiveDiscount > 1 {
		errs = append(errs, fmt.Errorf(
			"stats.active_discount must be in (0, 1] (got %v)", t.Stats.ActiveDiscount,
		))
	}
	if t.Stats.MinSample < 1 || t.Stats.HighConfidence < t.Stats.MinSample {
		errs = append(errs, errors.New(
			"stats.min_sample must be >= 1 and <= stats.high_confidence_sample",
		))
	}
	if t.Cost.StandardFee.Rate < 0 || t.Cost.StandardFee.Rate >= 1 {
		errs = append(errs, errors.New("cost.standard_fee.rate must be in [0, 1)"))
	}
	if t.Routing.InstantOffer.MinOffer > t.Routing.InstantOffer.MaxOffer {
		errs = append(errs, errors.New(
			"routing.instant_offer.min_offer must not exceed max_offer",
		))
	}
	for _, g := range []string{"excellent", "good", "fair", "poor"} {
		if _, ok := t.Condition.Filters[g]; !ok {
			errs = append(errs, fmt.Errorf("condition.filters.%s is required", g))
		}
		if _, ok := t.Manual.ConditionMultiplier[g]; !ok {
			errs = append(errs, fmt.Errorf("manual.condition_multipliers.%s is required", g))
		}
	}

	return errors.Join(errs...)
}
