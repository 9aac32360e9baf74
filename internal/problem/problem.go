package problem

import (
	"encoding/json"
	"os"
	"strings"
)

const (
	// DefaultDifficulty is assumed when a source row carries no difficulty label.
	DefaultDifficulty = "Medium"
)

// Problem is a single problem statement extracted from a spreadsheet row.
// Instances are treated as read-only after ingestion; updates replace the
// whole record.
type Problem struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	RequiredSkills         []string `json:"required_skills,omitempty"`
	Category               string   `json:"category,omitempty"`
	DifficultyLevel        string   `json:"difficulty_level,omitempty"`
	EstimatedDurationWeeks int      `json:"estimated_duration_weeks,omitempty"`
	MinTeamSize            int      `json:"min_team_size,omitempty"`
	MaxTeamSize            int      `json:"max_team_size,omitempty"`
	SourceFile             string   `json:"source_file,omitempty"`
}

// SkillSet returns the required skills lowercased and trimmed, deduplicated.
// Ingestion keeps duplicates in RequiredSkills as-is; set semantics apply
// only at comparison time.
func (p *Problem) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.RequiredSkills))
	for _, s := range p.RequiredSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// Problems is an ordered collection of problem statements. Order is the
// ingestion order and is significant for tie-breaking during ranking.
type Problems struct {
	Items []*Problem
}

func (p *Problems) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Problems) FindByID(id string) *Problem {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Titles returns the titles of all problems in collection order.
func (p *Problems) Titles() []string {
	titles := make([]string, 0, p.Len())
	for _, item := range p.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

// ReportByCategory groups problem titles by category. Problems without a
// category are grouped under "uncategorized".
func (p *Problems) ReportByCategory() map[string][]string {
	report := make(map[string][]string)
	for _, item := range p.Items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = "uncategorized"
		}
		report[category] = append(report[category], item.Title)
	}
	return report
}

// DumpToTmpFile writes the collection as indented JSON to a temporary file
// and returns its name.
func (p *Problems) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "problems_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
