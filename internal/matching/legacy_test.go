package matching

import (
	"fmt"
	"testing"

	"github.com/briefmatch/briefmatch/internal/roster"
)

func TestLegacyRankScoresAndReasons(t *testing.T) {
	creator := photographerInGoa()
	creator.Rating = 4.7
	brief := weddingBrief()

	results := LegacyRank([]*roster.Creator{creator}, brief)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	// 3 city + 3 budget + 4 category + 1 skill + 3 senior + 1 rating.
	res := results[0]
	if res.Score != 15 {
		t.Fatalf("expected score 15, got %v (reasons: %v)", res.Score, res.Reasons)
	}
	if res.SemanticScore != 0 {
		t.Fatalf("the legacy ranker must not produce semantic scores")
	}

	expected := []string{"Same City", "Within Budget", "Category Match", "Skill Match (1)", "Senior", "Top Rated"}
	if len(res.Reasons) != len(expected) {
		t.Fatalf("expected reasons %v, got %v", expected, res.Reasons)
	}
	for i, reason := range expected {
		if res.Reasons[i] != reason {
			t.Fatalf("expected reason %q at position %d, got %q", reason, i, res.Reasons[i])
		}
	}
}

func TestLegacyRankDropsZeroScores(t *testing.T) {
	brief := weddingBrief()

	unrelated := &roster.Creator{
		ID:          "nobody",
		Location:    roster.Location{City: "Lisbon", Country: "Portugal"},
		BudgetRange: roster.BudgetRange{Min: 500000, Max: 600000},
	}

	if results := LegacyRank([]*roster.Creator{unrelated}, brief); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestLegacyRankNearBudgetCredit(t *testing.T) {
	creator := photographerInGoa()
	// Budget ceiling above the creator max but within the 20% stretch.
	brief := weddingBrief()
	brief.BudgetMax = 90000

	results := LegacyRank([]*roster.Creator{creator}, brief)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	found := false
	for _, reason := range results[0].Reasons {
		if reason == "Near Budget" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the near-budget reason, got %v", results[0].Reasons)
	}
}

func TestLegacyRankNoBudgetCreditBelowMinimum(t *testing.T) {
	creator := photographerInGoa()
	// Minimum far above the brief ceiling: neither budget branch may fire
	// even though the ceiling is below 1.2x the maximum.
	creator.BudgetRange = roster.BudgetRange{Min: 500000, Max: 600000}

	results := LegacyRank([]*roster.Creator{creator}, weddingBrief())
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	for _, reason := range results[0].Reasons {
		if reason == "Within Budget" || reason == "Near Budget" {
			t.Fatalf("did not expect budget credit, got %v", results[0].Reasons)
		}
	}
}

func TestLegacyRankCountsMatchingSkills(t *testing.T) {
	creator := photographerInGoa()
	creator.Skills = []string{"Wedding Photography", "Beach Weddings"}

	results := LegacyRank([]*roster.Creator{creator}, weddingBrief())
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	// Both skills hit the single "wedding" style tag, so the count follows
	// the skills, not the styles.
	found := false
	for _, reason := range results[0].Reasons {
		if reason == "Skill Match (2)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected two skill matches, got %v", results[0].Reasons)
	}
}

func TestLegacyRankTruncatesToTen(t *testing.T) {
	brief := weddingBrief()

	pool := make([]*roster.Creator, 0, 25)
	for i := 0; i < 25; i++ {
		creator := photographerInGoa()
		creator.ID = fmt.Sprintf("c%d", i)
		pool = append(pool, creator)
	}

	results := LegacyRank(pool, brief)
	if len(results) != legacyLimit {
		t.Fatalf("expected %d results, got %d", legacyLimit, len(results))
	}
}
