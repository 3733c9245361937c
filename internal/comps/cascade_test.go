package comps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/comps"
	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func TestCascade(t *testing.T) {
	t.Parallel()

	ct := tables.Default().Condition

	tests := []struct {
		name       string
		cond       domain.Condition
		wantStages []comps.Stage
		wantIDs    [][]string
	}{
		{
			name:       "good widens then drops the filter",
			cond:       domain.ConditionGood,
			wantStages: []comps.Stage{comps.StagePrimary, comps.StageWidened, comps.StageUnfiltered},
			wantIDs: [][]string{
				{"3000", "4000", "5000"},
				{"3000", "4000", "5000", "2500", "6000"},
				nil,
			},
		},
		{
			name:       "fair fallback overlaps nothing",
			cond:       domain.ConditionFair,
			wantStages: []comps.Stage{comps.StagePrimary, comps.StageWidened, comps.StageUnfiltered},
			wantIDs: [][]string{
				{"5000", "6000"},
				{"5000", "6000", "3000"},
				nil,
			},
		},
		{
			name:       "unknown grade searches unfiltered",
			cond:       "mint",
			wantStages: []comps.Stage{comps.StageUnfiltered},
			wantIDs:    [][]string{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := comps.Cascade(tt.cond, &ct)
			require.Len(t, got, len(tt.wantStages))
			for i, s := range got {
				assert.Equal(t, tt.wantStages[i], s.Stage)
				assert.Equal(t, tt.wantIDs[i], s.ConditionIDs)
			}
		})
	}
}

func TestCascade_Thresholds(t *testing.T) {
	t.Parallel()

	ct := tables.Default().Condition
	got := comps.Cascade(domain.ConditionPoor, &ct)
	require.Len(t, got, 3)

	assert.Equal(t, 5, got[0].Enough)
	assert.Equal(t, 3, got[1].Enough)
	assert.Equal(t, 0, got[2].Enough)
}

func TestCascade_DoesNotAliasTables(t *testing.T) {
	t.Parallel()

	ct := tables.Default().Condition
	got := comps.Cascade(domain.ConditionExcellent, &ct)
	got[0].ConditionIDs[0] = "changed"

	assert.Equal(t, "1500", ct.Filters["excellent"].Primary[0])
}
