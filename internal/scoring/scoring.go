// Package scoring holds the per-dimension fit scorers. Every scorer is a
// pure function from one problem and one team profile to a value in [0,1].
package scoring

import (
	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/team"
)

// Dimension names shared between scorers, weight tables and result
// breakdowns.
const (
	DimensionSkillMatch      = "skill_match"
	DimensionTextRelevance   = "text_relevance"
	DimensionDifficultyFit   = "difficulty_fit"
	DimensionDomainFit       = "domain_fit"
	DimensionTimeFeasibility = "time_feasibility"
	DimensionTeamSizeFit     = "team_size_fit"
)

// Scorer produces a normalized score for one fit dimension.
type Scorer interface {
	Name() string
	Score(p *problem.Problem, t *team.Profile) float64
}

// Clamp01 bounds a raw score to [0,1] before weighting.
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
