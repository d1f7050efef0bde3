package matching

import (
	"testing"

	"github.com/briefmatch/briefmatch/internal/roster"
)

func photographerInGoa() *roster.Creator {
	return &roster.Creator{
		ID:              "c1",
		Name:            "Priya",
		Location:        roster.Location{City: "Goa", Country: "India"},
		Categories:      []string{"Photography"},
		Skills:          []string{"Wedding Photography"},
		ExperienceYears: 7,
		BudgetRange:     roster.BudgetRange{Min: 25000, Max: 80000},
	}
}

func weddingBrief() *roster.Brief {
	return &roster.Brief{
		Title:           "Beach wedding shoot",
		Description:     "Two day wedding coverage on the beach",
		Location:        roster.Location{City: "Goa", Country: "India"},
		Category:        "Photography",
		PreferredStyles: []string{"wedding"},
		BudgetMax:       75000,
	}
}

func TestScoreRulesEndToEnd(t *testing.T) {
	score, reasons := ScoreRules(photographerInGoa(), weddingBrief())

	if score != 17 {
		t.Fatalf("expected score 17, got %d", score)
	}

	expected := []string{
		"Exact Location Match",
		"Category Expert",
		"Perfect Budget Fit",
		"Style Match (1 matches)",
		"Highly Experienced",
	}
	if len(reasons) != len(expected) {
		t.Fatalf("expected %d reasons, got %v", len(expected), reasons)
	}
	for i, reason := range expected {
		if reasons[i] != reason {
			t.Fatalf("expected reason %q at position %d, got %q", reason, i, reasons[i])
		}
	}
}

func TestScoreRulesComponents(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *roster.Creator, b *roster.Brief)
		score   int
		hasNot  string
		hasAlso string
	}{
		{
			name:   "same country only",
			mutate: func(c *roster.Creator, _ *roster.Brief) { c.Location.City = "Mumbai" },
			score:  15,
			hasNot: "Exact Location Match",
		},
		{
			name:   "city match is case insensitive",
			mutate: func(c *roster.Creator, _ *roster.Brief) { c.Location.City = "GOA" },
			score:  17,
		},
		{
			name:   "category is exact match only",
			mutate: func(c *roster.Creator, _ *roster.Brief) { c.Categories = []string{"photography"} },
			score:  12,
			hasNot: "Category Expert",
		},
		{
			name: "budget above the creator minimum gets partial credit",
			mutate: func(c *roster.Creator, b *roster.Brief) {
				b.BudgetMax = 100000
			},
			score:   15,
			hasAlso: "Budget Compatible",
		},
		{
			name: "budget below the creator minimum scores nothing",
			mutate: func(c *roster.Creator, b *roster.Brief) {
				b.BudgetMax = 10000
			},
			score:  13,
			hasNot: "Perfect Budget Fit",
		},
		{
			name: "style points cap at five",
			mutate: func(c *roster.Creator, b *roster.Brief) {
				c.Skills = []string{"wedding", "candid", "drone", "reels"}
				b.PreferredStyles = []string{"wedding", "candid", "drone", "reels"}
			},
			score: 20,
		},
		{
			name: "portfolio tags add up to three",
			mutate: func(c *roster.Creator, _ *roster.Brief) {
				c.Portfolio = []roster.PortfolioItem{{Tags: []string{"wedding", "beach"}}}
			},
			score:   18,
			hasAlso: "Portfolio Style Match (1 matches)",
		},
		{
			name:    "mid experience",
			mutate:  func(c *roster.Creator, _ *roster.Brief) { c.ExperienceYears = 3 },
			score:   15,
			hasAlso: "Experienced",
		},
		{
			name:   "junior experience scores nothing",
			mutate: func(c *roster.Creator, _ *roster.Brief) { c.ExperienceYears = 1 },
			score:  14,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			creator := photographerInGoa()
			brief := weddingBrief()
			tc.mutate(creator, brief)

			score, reasons := ScoreRules(creator, brief)
			if score != tc.score {
				t.Fatalf("expected score %d, got %d (reasons: %v)", tc.score, score, reasons)
			}

			for _, reason := range reasons {
				if tc.hasNot != "" && reason == tc.hasNot {
					t.Fatalf("did not expect reason %q", tc.hasNot)
				}
			}
			if tc.hasAlso != "" {
				found := false
				for _, reason := range reasons {
					if reason == tc.hasAlso {
						found = true
					}
				}
				if !found {
					t.Fatalf("expected reason %q, got %v", tc.hasAlso, reasons)
				}
			}
		})
	}
}

func TestScoreRulesBounds(t *testing.T) {
	empty, _ := ScoreRules(&roster.Creator{}, &roster.Brief{BudgetMax: 100})
	// A zero-value creator still matches the budget floor of zero.
	if empty < 0 || empty > MaxRuleScore {
		t.Fatalf("score %d out of bounds", empty)
	}

	perfect := photographerInGoa()
	perfect.Skills = []string{"wedding", "candid", "drone"}
	perfect.Portfolio = []roster.PortfolioItem{
		{Tags: []string{"wedding"}},
		{Tags: []string{"candid"}},
		{Tags: []string{"drone"}},
	}
	brief := weddingBrief()
	brief.PreferredStyles = []string{"wedding", "candid", "drone"}

	score, _ := ScoreRules(perfect, brief)
	if score != MaxRuleScore {
		t.Fatalf("expected the maximum score %d, got %d", MaxRuleScore, score)
	}
}

func TestScoreRulesMonotonicity(t *testing.T) {
	brief := weddingBrief()

	weaker := photographerInGoa()
	weaker.ExperienceYears = 0

	stronger := photographerInGoa()

	weakScore, _ := ScoreRules(weaker, brief)
	strongScore, _ := ScoreRules(stronger, brief)

	if weakScore >= strongScore {
		t.Fatalf("expected strictly higher score for the stronger profile: %d vs %d", weakScore, strongScore)
	}
}
