package scoring

import (
	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/team"
)

// SkillMatch scores the Jaccard similarity between the team skill set and
// the problem's required skills, both lowercased and trimmed.
type SkillMatch struct{}

func (SkillMatch) Name() string { return DimensionSkillMatch }

func (SkillMatch) Score(p *problem.Problem, t *team.Profile) float64 {
	return Jaccard(t.SkillSet(), p.SkillSet())
}

// Jaccard returns |a∩b| / |a∪b|. The union of two empty sets is defined
// as similarity 0.
func Jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for item := range a {
		if _, ok := b[item]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
