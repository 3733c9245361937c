package manual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func TestEstimate(t *testing.T) {
	t.Parallel()

	tb := tables.Default()

	tests := []struct {
		name      string
		attrs     domain.ItemAttributes
		wantPrice float64
	}{
		{
			name: "premium brand with known model",
			attrs: domain.ItemAttributes{
				Category:  "electronics",
				Brand:     "Apple",
				Model:     "iPhone",
				Condition: domain.ItemCondition{Grade: domain.ConditionGood},
			},
			wantPrice: 280.5,
		},
		{
			name: "unknown brand in excellent condition",
			attrs: domain.ItemAttributes{
				Category:  "Furniture",
				Brand:     "Unknown",
				Condition: domain.ItemCondition{Grade: domain.ConditionExcellent},
			},
			wantPrice: 120,
		},
		{
			name: "recognized brand substring match",
			attrs: domain.ItemAttributes{
				Category:  "tools",
				Brand:     "DeWalt Industrial",
				Condition: domain.ItemCondition{Grade: domain.ConditionFair},
			},
			wantPrice: 38.03,
		},
		{
			name: "unusable item is penalized",
			attrs: domain.ItemAttributes{
				Category: "electronics",
				Brand:    "Dell",
				Condition: domain.ItemCondition{
					Grade:  domain.ConditionPoor,
					Issues: []string{"Won't turn on"},
				},
			},
			wantPrice: 34.65,
		},
		{
			name: "unknown category uses default base",
			attrs: domain.ItemAttributes{
				Category:  "garden",
				Condition: domain.ItemCondition{Grade: domain.ConditionGood},
			},
			wantPrice: 25.5,
		},
		{
			name: "placeholder model earns no bonus",
			attrs: domain.ItemAttributes{
				Category:  "books",
				Model:     "n/a",
				Condition: domain.ItemCondition{Grade: domain.ConditionExcellent},
			},
			wantPrice: 10,
		},
		{
			name:      "missing grade treated as good",
			attrs:     domain.ItemAttributes{Category: "toys"},
			wantPrice: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Estimate(&tt.attrs, tb)

			require.NotNil(t, got.SuggestedPrice)
			assert.InDelta(t, tt.wantPrice, *got.SuggestedPrice, 0.001)
			assert.Equal(t, domain.SourceManualHeuristic, got.Source)
			assert.Equal(t, domain.ConfidenceMedium, got.Confidence)
			assert.Equal(t, "USD", got.Currency)
			assert.LessOrEqual(t, got.Range.Min, *got.SuggestedPrice)
			assert.GreaterOrEqual(t, got.Range.Max, *got.SuggestedPrice)
			assert.Contains(t, got.Reason, "heuristic")
		})
	}
}

func TestEstimate_Range(t *testing.T) {
	t.Parallel()

	attrs := domain.ItemAttributes{
		Category:  "furniture",
		Condition: domain.ItemCondition{Grade: domain.ConditionExcellent},
	}
	got := Estimate(&attrs, tables.Default())

	assert.InDelta(t, 90.0, got.Range.Min, 0.001)
	assert.InDelta(t, 150.0, got.Range.Max, 0.001)
	assert.InDelta(t, 120.0, got.Range.Median, 0.001)
	assert.Equal(t, 0, got.SampleSize.Total)
}

func TestBrandTier(t *testing.T) {
	t.Parallel()

	tiers := tables.Default().Manual.BrandTiers

	tier, ok := BrandTier("HERMAN MILLER", tiers)
	require.True(t, ok)
	assert.Equal(t, "premium", tier.Name)

	tier, ok = BrandTier("Sony", tiers)
	require.True(t, ok)
	assert.Equal(t, "recognized", tier.Name)

	_, ok = BrandTier("Acme", tiers)
	assert.False(t, ok)

	_, ok = BrandTier("", tiers)
	assert.False(t, ok)
}

func TestUnusable(t *testing.T) {
	t.Parallel()

	keywords := tables.Default().Manual.UnusableKeywords

	kw, ok := Unusable(&domain.ItemAttributes{Description: "Sold for parts only"}, keywords)
	assert.True(t, ok)
	assert.Equal(t, "for parts", kw)

	_, ok = Unusable(&domain.ItemAttributes{
		Condition: domain.ItemCondition{Description: "light scratches"},
	}, keywords)
	assert.False(t, ok)
}
