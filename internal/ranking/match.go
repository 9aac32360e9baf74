package ranking

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/teamfit/teamfit/internal/problem"
)

// DimensionScore is the contribution of one dimension to a total score.
type DimensionScore struct {
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// Match is one ranked candidate. Total scores are held on the 0–1 scale
// everywhere; presentation layers may rescale. A Match is never mutated
// after ranking except for the narrative fields the enrichment layer
// attaches.
type Match struct {
	Problem   *problem.Problem          `json:"problem"`
	Score     float64                   `json:"score"`
	Breakdown map[string]DimensionScore `json:"breakdown"`

	// Recommendation and SkillGap are best-effort annotations produced
	// by the semantic enrichment layer; empty when enrichment is off.
	Recommendation string `json:"recommendation,omitempty"`
	SkillGap       string `json:"skill_gap,omitempty"`
}

// Matches is a ranked, ordered result list.
type Matches struct {
	Items []*Match
}

func (m *Matches) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// ReportByCategory groups matched problem titles by their category,
// mirroring the problems collection report.
func (m *Matches) ReportByCategory() map[string][]string {
	report := make(map[string][]string)
	for _, match := range m.Items {
		category := strings.TrimSpace(match.Problem.Category)
		if category == "" {
			category = "uncategorized"
		}
		report[category] = append(report[category], match.Problem.Title)
	}
	return report
}

// DumpToTmpFile writes the ranked list as indented JSON to a temporary
// file and returns its name.
func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}
