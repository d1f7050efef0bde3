package matching

import (
	"sort"

	"github.com/briefmatch/briefmatch/internal/roster"
)

const (
	// DefaultMinRuleScore drops candidates with almost no rule overlap
	// before the expensive semantic stage.
	DefaultMinRuleScore = 2
	// DefaultTopK caps how many candidates reach the semantic stage.
	DefaultTopK = 15
)

// PreFilter scores every candidate with the rule scorer, drops those below
// minScore, sorts the rest descending by rule score and truncates to topK.
// The sort is stable so ties keep their original pool order.
func PreFilter(creators []*roster.Creator, brief *roster.Brief, minScore, topK int) []*roster.Creator {
	if minScore < 0 {
		minScore = DefaultMinRuleScore
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	type scored struct {
		creator *roster.Creator
		score   int
	}

	kept := make([]scored, 0, len(creators))
	for _, creator := range creators {
		score, _ := ScoreRules(creator, brief)
		if score < minScore {
			continue
		}
		kept = append(kept, scored{creator: creator, score: score})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	if len(kept) > topK {
		kept = kept[:topK]
	}

	filtered := make([]*roster.Creator, 0, len(kept))
	for _, item := range kept {
		filtered = append(filtered, item.creator)
	}
	return filtered
}
