package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func texts(cs []domain.SearchQueryCandidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Text)
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	qt := tables.Default().Query

	tests := []struct {
		name      string
		attrs     domain.ItemAttributes
		wantTexts []string
		wantKinds []domain.QueryKind
	}{
		{
			name: "brand and model present",
			attrs: domain.ItemAttributes{
				Category: "Electronics",
				Brand:    "Apple",
				Model:    "iPhone",
			},
			wantTexts: []string{
				"apple iphone electronics",
				"apple electronics",
				"iphone electronics",
				"electronics",
			},
			wantKinds: []domain.QueryKind{
				domain.QueryBrandModel,
				domain.QueryBrand,
				domain.QueryModel,
				domain.QueryCategoryFallback,
			},
		},
		{
			name: "unknown brand and short model",
			attrs: domain.ItemAttributes{
				Category: "Electronics",
				Brand:    "Unknown",
				Model:    "X1",
			},
			wantTexts: []string{"electronics"},
			wantKinds: []domain.QueryKind{domain.QueryCategoryFallback},
		},
		{
			name: "descriptive with refinement",
			attrs: domain.ItemAttributes{
				Category:    "Furniture",
				Brand:       "generic",
				Materials:   []string{"Wood", "metal"},
				Style:       "Mid-Century",
				KeyFeatures: []string{"good condition", "drawer"},
			},
			wantTexts: []string{
				"furniture wood mid-century drawer",
				"furniture side table drawer",
				"furniture",
			},
			wantKinds: []domain.QueryKind{
				domain.QueryDescriptive,
				domain.QueryCategoryRefined,
				domain.QueryCategoryFallback,
			},
		},
		{
			name: "material already in category is skipped",
			attrs: domain.ItemAttributes{
				Category:  "leather clothing",
				Materials: []string{"Leather", "cotton"},
			},
			wantTexts: []string{
				"leather clothing cotton",
				"leather clothing jacket",
				"leather clothing",
			},
		},
		{
			name: "generic category falls back",
			attrs: domain.ItemAttributes{
				Category: "Item",
				Brand:    "see photos",
			},
			wantTexts: []string{"used household goods"},
			wantKinds: []domain.QueryKind{domain.QueryCategoryFallback},
		},
		{
			name: "brand with generic category",
			attrs: domain.ItemAttributes{
				Category: "misc",
				Brand:    "Dyson",
			},
			wantTexts: []string{"dyson", "used household goods"},
		},
		{
			name: "duplicate texts keep most specific",
			attrs: domain.ItemAttributes{
				Category: "lego toys",
				Brand:    "LEGO",
			},
			wantTexts: []string{"lego toys"},
			wantKinds: []domain.QueryKind{domain.QueryBrand},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Build(&tt.attrs, &qt)
			assert.Equal(t, tt.wantTexts, texts(got))
			if tt.wantKinds != nil {
				kinds := make([]domain.QueryKind, 0, len(got))
				for _, c := range got {
					kinds = append(kinds, c.Kind)
				}
				assert.Equal(t, tt.wantKinds, kinds)
			}
		})
	}
}

func TestBuild_NeverEmptyNeverGeneric(t *testing.T) {
	t.Parallel()

	qt := tables.Default().Query

	inputs := []domain.ItemAttributes{
		{},
		{Category: "unknown"},
		{Category: "  ", Brand: "n/a", Model: "none"},
		{Category: "Generic Item", KeyFeatures: []string{"see photos"}},
		{Category: "other", Materials: []string{"misc"}, Style: "generic"},
		{Category: "Decor", Brand: "Unknown", Model: "Unknown"},
	}

	for _, attrs := range inputs {
		got := Build(&attrs, &qt)
		require.NotEmpty(t, got, "attrs=%+v", attrs)
		for _, c := range got {
			assert.False(t, Generic(c.Text, &qt), "candidate %q is generic", c.Text)
		}
		assert.Equal(t, domain.QueryCategoryFallback, got[len(got)-1].Kind)
	}
}

func TestBuild_SortedByPriority(t *testing.T) {
	t.Parallel()

	qt := tables.Default().Query
	attrs := domain.ItemAttributes{
		Category:    "tools",
		Brand:       "DeWalt",
		Model:       "DCD771",
		KeyFeatures: []string{"cordless", "two batteries"},
	}

	got := Build(&attrs, &qt)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Priority, got[i].Priority)
	}
	assert.Contains(t, texts(got), "tools cordless power tool")
}

func TestGeneric(t *testing.T) {
	t.Parallel()

	qt := tables.Default().Query
	assert.True(t, Generic("Unknown Item", &qt))
	assert.True(t, Generic("see photos", &qt))
	assert.False(t, Generic("oak table", &qt))
}
