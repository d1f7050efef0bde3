package matching

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/briefmatch/briefmatch/internal/roster"
)

// Result is one ranked entry of a match computation. Score is always
// RuleScore + SemanticScore.
type Result struct {
	Creator       *roster.Creator `json:"creator"`
	Score         float64         `json:"score"`
	RuleScore     int             `json:"rule_score"`
	SemanticScore float64         `json:"semantic_score"`
	AIExplanation string          `json:"ai_explanation,omitempty"`
	Explanation   string          `json:"explanation"`
	Reasons       []string        `json:"reasons"`
	AIEnhanced    bool            `json:"ai_enhanced"`
}

// Results is an ordered shortlist.
type Results struct {
	Items []*Result `json:"items"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

// ToBriefMatches maps the shortlist onto the terminal form persisted with
// the brief.
func (r *Results) ToBriefMatches() []roster.BriefMatch {
	matches := make([]roster.BriefMatch, 0, len(r.Items))
	for _, item := range r.Items {
		matches = append(matches, roster.BriefMatch{
			CreatorID:   item.Creator.ID,
			Score:       item.Score,
			Explanation: item.Explanation,
		})
	}
	return matches
}

// ReportByCity groups the shortlist by creator city for a quick overview.
func (r *Results) ReportByCity() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range r.Items {
		key := item.Creator.Location.City
		report[key] = append(report[key], map[string]string{
			"name":        item.Creator.Name,
			"score":       fmt.Sprintf("%.1f", item.Score),
			"explanation": item.Explanation,
		})
	}
	return report
}

// DumpToTmpFile writes the shortlist to a temporary JSON file and returns
// its name.
func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// defaultExplanation is used when no AI explanation survives for a result.
func defaultExplanation(res *Result) string {
	return fmt.Sprintf("Score: %.1f (Rules: %d, AI: %.1f)", res.Score, res.RuleScore, res.SemanticScore)
}
