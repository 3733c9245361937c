package tables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())
}

func TestDefault_FreshCopy(t *testing.T) {
	t.Parallel()

	a := Default()
	a.Manual.BasePrices["electronics"] = 1
	b := Default()
	assert.InDelta(t, 150.0, b.Manual.BasePrices["electronics"], 0.001)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		yaml      string
		wantErr   string
		checkFunc func(t *testing.T, tb *Tables)
	}{
		{
			name: "override merges maps",
			yaml: `
manual:
  base_prices:
    electronics: 200
routing:
  min_resale_profit: 5
`,
			checkFunc: func(t *testing.T, tb *Tables) {
				t.Helper()
				assert.InDelta(t, 200.0, tb.Manual.BasePrices["electronics"], 0.001)
				assert.InDelta(t, 120.0, tb.Manual.BasePrices["furniture"], 0.001)
				assert.InDelta(t, 5.0, tb.Routing.MinResaleProfit, 0.001)
				assert.InDelta(t, 10.0, tb.Routing.MinResalePrice, 0.001)
			},
		},
		{
			name: "invalid active discount",
			yaml: `
stats:
  active_discount: 1.5
`,
			wantErr: "stats.active_discount",
		},
		{
			name: "min offer above max",
			yaml: `
routing:
  instant_offer:
    min_offer: 900
`,
			wantErr: "min_offer must not exceed max_offer",
		},
		{
			name:    "malformed yaml",
			yaml:    "stats: [",
			wantErr: "parsing tables YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "tables.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			tb, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.checkFunc(t, tb)
		})
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	tb, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), tb)
}

func TestLookupCategory(t *testing.T) {
	t.Parallel()

	m := map[string]int{"furniture": 1, "outdoor furniture": 2, "books": 3}

	tests := []struct {
		category string
		want     int
		wantKey  string
		wantOK   bool
	}{
		{category: "Furniture", want: 1, wantKey: "furniture", wantOK: true},
		{category: "Outdoor Furniture Sets", want: 2, wantKey: "outdoor furniture", wantOK: true},
		{category: "home furniture", want: 1, wantKey: "furniture", wantOK: true},
		{category: "rare books", want: 3, wantKey: "books", wantOK: true},
		{category: "garden", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			t.Parallel()

			got, key, ok := LookupCategory(m, tt.category)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	k, ok := ContainsAny("Solid oak SIDE TABLE with drawer", []string{"sofa", "side table"})
	assert.True(t, ok)
	assert.Equal(t, "side table", k)

	_, ok = ContainsAny("dining chair", []string{"sofa"})
	assert.False(t, ok)
}
