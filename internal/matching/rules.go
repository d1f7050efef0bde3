package matching

import (
	"fmt"
	"strings"

	"github.com/briefmatch/briefmatch/internal/roster"
)

// MaxRuleScore is the highest score the rule scheme can produce:
// 3 location + 5 category + 4 budget + 5 styles + 3 portfolio + 3 experience.
const MaxRuleScore = 23

// ScoreRules computes the deterministic compatibility score for a creator
// against a brief. It is total and side-effect free; the reasons preserve
// evaluation order for display.
func ScoreRules(creator *roster.Creator, brief *roster.Brief) (int, []string) {
	score := 0
	reasons := make([]string, 0, 6)

	// Location (0-3).
	if strings.EqualFold(creator.Location.City, brief.Location.City) {
		score += 3
		reasons = append(reasons, "Exact Location Match")
	} else if strings.EqualFold(creator.Location.Country, brief.Location.Country) {
		score += 1
		reasons = append(reasons, "Same Country")
	}

	// Category (0-5).
	if containsString(creator.Categories, brief.Category) {
		score += 5
		reasons = append(reasons, "Category Expert")
	}

	// Budget (0-4). The partial-credit branch is deliberately unbounded
	// above the creator's max; the legacy ranker caps it instead.
	if brief.BudgetMax >= creator.BudgetRange.Min && brief.BudgetMax <= creator.BudgetRange.Max {
		score += 4
		reasons = append(reasons, "Perfect Budget Fit")
	} else if brief.BudgetMax >= creator.BudgetRange.Min {
		score += 2
		reasons = append(reasons, "Budget Compatible")
	}

	// Style/skills overlap (0-5).
	styleMatches := countTagMatches(brief.PreferredStyles, creator.Skills)
	if styleMatches > 0 {
		score += min(5, styleMatches*2)
		reasons = append(reasons, fmt.Sprintf("Style Match (%d matches)", styleMatches))
	}

	// Portfolio tag overlap (0-3).
	portfolioMatches := countPortfolioMatches(brief.PreferredStyles, creator.Portfolio)
	if portfolioMatches > 0 {
		score += min(3, portfolioMatches)
		reasons = append(reasons, fmt.Sprintf("Portfolio Style Match (%d matches)", portfolioMatches))
	}

	// Experience (0-3).
	if creator.ExperienceYears >= 5 {
		score += 3
		reasons = append(reasons, "Highly Experienced")
	} else if creator.ExperienceYears >= 2 {
		score += 1
		reasons = append(reasons, "Experienced")
	}

	return score, reasons
}

// countTagMatches counts entries of tags that overlap any of the values by
// case-insensitive containment in either direction.
func countTagMatches(tags, values []string) int {
	matches := 0
	for _, tag := range tags {
		if anyTagMatch(tag, values) {
			matches++
		}
	}
	return matches
}

func countPortfolioMatches(styles []string, portfolio []roster.PortfolioItem) int {
	matches := 0
	for _, style := range styles {
		for _, item := range portfolio {
			if anyTagMatch(style, item.Tags) {
				matches++
				break
			}
		}
	}
	return matches
}

func anyTagMatch(style string, values []string) bool {
	lowerStyle := strings.ToLower(style)
	for _, value := range values {
		lowerValue := strings.ToLower(value)
		if strings.Contains(lowerValue, lowerStyle) || strings.Contains(lowerStyle, lowerValue) {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
