package tables

// Default returns a fresh copy of the built-in tables.
func Default() *Tables {
	return &Tables{
		Query:     defaultQuery(),
		Condition: defaultCondition(),
		Cost:      defaultCost(),
		Manual:    defaultManual(),
		Stats: StatsTables{
			ActiveDiscount:  0.88,
			OutlierSigma:    2.0,
			MinSample:       3,
			HighConfidence:  10,
			DefaultCurrency: "USD",
		},
		Routing: defaultRouting(),
	}
}

func defaultQuery() QueryTables {
	return QueryTables{
		GenericTokens: []string{
			"unknown", "generic", "item", "items", "n/a", "na", "none",
			"other", "misc", "unbranded", "no brand", "see photos",
			"see pictures", "as pictured",
		},
		GenericFeatures: []string{
			"used", "good condition", "works", "working", "great", "nice",
			"clean", "sturdy", "functional",
		},
		Refinements: []Refinement{
			{CategoryKeyword: "furniture", FeatureKeyword: "drawer", Suffix: "side table drawer"},
			{CategoryKeyword: "furniture", FeatureKeyword: "shelf", Suffix: "bookshelf"},
			{CategoryKeyword: "furniture", FeatureKeyword: "recline", Suffix: "recliner chair"},
			{CategoryKeyword: "electronics", FeatureKeyword: "wireless", Suffix: "bluetooth"},
			{CategoryKeyword: "electronics", FeatureKeyword: "speaker", Suffix: "speaker"},
			{CategoryKeyword: "clothing", FeatureKeyword: "leather", Suffix: "leather jacket"},
			{CategoryKeyword: "kitchen", FeatureKeyword: "cast iron", Suffix: "cast iron cookware"},
			{CategoryKeyword: "tools", FeatureKeyword: "cordless", Suffix: "cordless power tool"},
			{CategoryKeyword: "toys", FeatureKeyword: "lego", Suffix: "lego set"},
			{CategoryKeyword: "books", Suffix: "book lot"},
		},
		MinModelLength: 4,
		FallbackQuery:  "used household goods",
	}
}

// Condition ids follow the marketplace's item condition enumeration:
// 1000 new, 1500 new other, 2500 seller refurbished, 2750 like new,
// 3000 used, 4000 very good, 5000 good, 6000 acceptable, 7000 for parts.
func defaultCondition() ConditionTables {
	return ConditionTables{
		Filters: map[string]ConditionFilter{
			"excellent": {Primary: []string{"1500", "2750", "4000"}, Fallback: []string{"1000", "3000"}},
			"good":      {Primary: []string{"3000", "4000", "5000"}, Fallback: []string{"2500", "6000"}},
			"fair":      {Primary: []string{"5000", "6000"}, Fallback: []string{"3000"}},
			"poor":      {Primary: []string{"6000", "7000"}, Fallback: []string{"5000"}},
		},
	}
}

func defaultCost() CostTables {
	return CostTables{
		Shipping: map[string]ShippingRule{
			"furniture": {
				Base: 75,
				Tiers: []ShippingTier{
					{Name: "small", Keywords: []string{"side table", "nightstand", "end table", "stool", "small", "lamp", "ottoman"}, Cost: 35},
					{Name: "large", Keywords: []string{"sofa", "couch", "sectional", "dining", "dresser", "bed frame", "wardrobe", "armoire"}, Cost: 150},
				},
			},
			"electronics": {
				Base: 15,
				Tiers: []ShippingTier{
					{Name: "small", Keywords: []string{"phone", "earbuds", "watch", "charger", "cable"}, Cost: 8},
					{Name: "large", Keywords: []string{"tv", "television", "monitor", "desktop", "printer"}, Cost: 35},
				},
			},
			"clothing": {
				Base: 8,
				Tiers: []ShippingTier{
					{Name: "bulky", Keywords: []string{"coat", "jacket", "boots", "shoes"}, Cost: 12},
				},
			},
			"books":    {Base: 5},
			"toys":     {Base: 12},
			"kitchen":  {Base: 15, Tiers: []ShippingTier{{Name: "heavy", Keywords: []string{"cast iron", "mixer", "dutch oven"}, Cost: 25}}},
			"tools":    {Base: 20},
			"sports":   {Base: 20, Tiers: []ShippingTier{{Name: "large", Keywords: []string{"bike", "bicycle", "treadmill", "kayak"}, Cost: 90}}},
			"decor":    {Base: 15},
			"jewelry":  {Base: 6},
			"appliances": {
				Base:  60,
				Tiers: []ShippingTier{{Name: "small", Keywords: []string{"toaster", "kettle", "blender", "coffee"}, Cost: 18}},
			},
			"vehicles": {Base: 0},
		},
		DefaultShipping: 15,
		StandardFee:     FeeSchedule{Rate: 0.1325, Threshold: 7500, AboveRate: 0.0235},
		HighValueFee:    FeeSchedule{Rate: 0.03, Cap: 250},
		HighValue:       []string{"vehicles", "vehicle", "motorcycles", "boats", "rvs"},
	}
}

func defaultManual() ManualTables {
	return ManualTables{
		BasePrices: map[string]float64{
			"electronics": 150,
			"furniture":   120,
			"clothing":    25,
			"books":       10,
			"toys":        20,
			"kitchen":     30,
			"tools":       45,
			"sports":      40,
			"decor":       25,
			"jewelry":     60,
			"appliances":  100,
			"vehicles":    3000,
		},
		DefaultBasePrice: 30,
		BrandTiers: []BrandTier{
			{
				Name:       "premium",
				Multiplier: 2.0,
				Brands: []string{
					"apple", "herman miller", "dyson", "bose", "rolex", "gucci",
					"louis vuitton", "le creuset", "vitamix", "knoll", "canada goose",
					"steelcase", "sonos",
				},
			},
			{
				Name:       "recognized",
				Multiplier: 1.3,
				Brands: []string{
					"samsung", "sony", "lg", "nike", "adidas", "dewalt", "makita",
					"kitchenaid", "lego", "patagonia", "pottery barn", "west elm",
				},
			},
			{
				Name:       "ordinary",
				Multiplier: 1.1,
				Brands: []string{
					"ikea", "hp", "dell", "lenovo", "target", "walmart", "amazon basics",
					"black+decker", "hamilton beach", "old navy", "gap",
				},
			},
		},
		ConditionMultiplier: map[string]float64{
			"excellent": 1.0,
			"good":      0.85,
			"fair":      0.65,
			"poor":      0.35,
		},
		ModelBonus:      1.1,
		UnusablePenalty: 0.6,
		UnusableKeywords: []string{
			"broken", "not working", "does not work", "doesn't work", "for parts",
			"needs repair", "won't turn on", "cracked screen", "water damage",
		},
		RangeSpread: 0.25,
	}
}

func defaultRouting() RoutingTables {
	return RoutingTables{
		MinResalePrice:    10,
		MinResaleProfit:   2,
		LocalPickupFactor: 0.9,
		InstantOffer: InstantOfferTables{
			BuyRate: 0.65,
			ConditionMultiplier: map[string]float64{
				"excellent": 1.0,
				"good":      1.0,
				"fair":      0.85,
				"poor":      0.5,
			},
			CategoryDemand: map[string]float64{
				"electronics": 1.2,
				"jewelry":     1.1,
				"tools":       1.0,
				"appliances":  0.9,
				"toys":        0.9,
				"sports":      0.9,
				"clothing":    0.8,
				"kitchen":     0.8,
				"decor":       0.7,
				"furniture":   0.7,
				"books":       0.6,
			},
			DefaultDemand: 0.8,
			MinOffer:      5,
			MaxOffer:      500,
		},
	}
}
