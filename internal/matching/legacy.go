package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/briefmatch/briefmatch/internal/roster"
)

// legacyLimit caps the legacy shortlist.
const legacyLimit = 10

// LegacyRank is the pre-AI ranker kept as the last-resort tier and for the
// side-by-side comparison view. It scores the full pool with its own weights,
// drops zero scores, sorts descending and truncates to ten. Its budget and
// experience weights intentionally differ from the rule scorer's.
func LegacyRank(creators []*roster.Creator, brief *roster.Brief) []*Result {
	results := make([]*Result, 0, len(creators))

	for _, creator := range creators {
		score, reasons := legacyScore(creator, brief)
		if score <= 0 {
			continue
		}

		res := &Result{
			Creator:   creator,
			Score:     float64(score),
			RuleScore: score,
			Reasons:   reasons,
		}
		res.Explanation = defaultExplanation(res)
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > legacyLimit {
		results = results[:legacyLimit]
	}
	return results
}

func legacyScore(creator *roster.Creator, brief *roster.Brief) (int, []string) {
	score := 0
	reasons := make([]string, 0, 6)

	if strings.EqualFold(creator.Location.City, brief.Location.City) {
		score += 3
		reasons = append(reasons, "Same City")
	} else if strings.EqualFold(creator.Location.Country, brief.Location.Country) {
		score += 1
		reasons = append(reasons, "Same Country")
	}

	if brief.BudgetMax >= creator.BudgetRange.Min && brief.BudgetMax <= creator.BudgetRange.Max {
		score += 3
		reasons = append(reasons, "Within Budget")
	} else if brief.BudgetMax >= creator.BudgetRange.Min && float64(brief.BudgetMax) <= float64(creator.BudgetRange.Max)*1.2 {
		score += 1
		reasons = append(reasons, "Near Budget")
	}

	if containsString(creator.Categories, brief.Category) {
		score += 4
		reasons = append(reasons, "Category Match")
	}

	// Counts matching skills, not matching styles: several skills hitting
	// the same style tag each earn a point here.
	if skillMatches := countTagMatches(creator.Skills, brief.PreferredStyles); skillMatches > 0 {
		score += min(skillMatches, 5)
		reasons = append(reasons, fmt.Sprintf("Skill Match (%d)", skillMatches))
	}

	if countPortfolioMatches(brief.PreferredStyles, creator.Portfolio) > 0 {
		score += 2
		reasons = append(reasons, "Portfolio Match")
	}

	switch {
	case creator.ExperienceYears >= 5:
		score += 3
		reasons = append(reasons, "Senior")
	case creator.ExperienceYears >= 2:
		score += 2
		reasons = append(reasons, "Mid-level")
	case creator.ExperienceYears >= 1:
		score += 1
		reasons = append(reasons, "Junior")
	}

	if creator.Rating >= 4.5 {
		score += 1
		reasons = append(reasons, "Top Rated")
	}

	return score, reasons
}
