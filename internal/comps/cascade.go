package comps

import (
	"slices"

	"github.com/donaldgifford/resale-router/pkg/tables"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Stage names a step of the condition-widening cascade.
type Stage string

// Cascade stages, narrowest first.
const (
	StagePrimary    Stage = "primary"
	StageWidened    Stage = "widened"
	StageUnfiltered Stage = "unfiltered"
)

// Result counts below which the next stage runs.
const (
	widenBelow      = 5
	unfilteredBelow = 3
)

// Strategy is one search attempt in the cascade. The cascade moves on to the
// next strategy when a search returns fewer than Enough listings.
type Strategy struct {
	Stage        Stage
	ConditionIDs []string
	Enough       int
}

// Cascade returns the ordered strategies for an item in the given condition:
// the primary condition ids, then primary plus fallback ids, then no
// condition filter. A grade with no table entry searches unfiltered only.
func Cascade(cond domain.Condition, t *tables.ConditionTables) []Strategy {
	unfiltered := Strategy{Stage: StageUnfiltered}

	filter, ok := t.Filters[string(cond)]
	if !ok || len(filter.Primary) == 0 {
		return []Strategy{unfiltered}
	}

	widened := slices.Clone(filter.Primary)
	for _, id := range filter.Fallback {
		if !slices.Contains(widened, id) {
			widened = append(widened, id)
		}
	}

	return []Strategy{
		{Stage: StagePrimary, ConditionIDs: slices.Clone(filter.Primary), Enough: widenBelow},
		{Stage: StageWidened, ConditionIDs: widened, Enough: unfilteredBelow},
		unfiltered,
	}
}
