package scoring

import (
	"strings"
	"time"

	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/team"
)

// defaultOrdinal is used for difficulty and proficiency labels that are
// not recognized.
const defaultOrdinal = 2

// ordinalLevel maps difficulty and proficiency labels onto the shared
// {1,2,3} scale.
func ordinalLevel(label string) float64 {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "beginner", "easy", "low":
		return 1
	case "medium", "intermediate", "moderate":
		return 2
	case "hard", "expert", "advanced", "high":
		return 3
	}
	return defaultOrdinal
}

// DifficultyFit compares the problem difficulty with the team's mean
// proficiency. Teams at or above the problem level score 1.0, below it
// the ratio mean/level.
type DifficultyFit struct{}

func (DifficultyFit) Name() string { return DimensionDifficultyFit }

func (DifficultyFit) Score(p *problem.Problem, t *team.Profile) float64 {
	level := ordinalLevel(p.DifficultyLevel)

	mean := float64(defaultOrdinal)
	if len(t.Skills) > 0 {
		total := 0.0
		for _, skill := range t.Skills {
			total += ordinalLevel(skill.Level)
		}
		mean = total / float64(len(t.Skills))
	}

	if mean >= level {
		return 1
	}
	return mean / level
}

// DomainFit gives full score when the team has no domain preference or the
// problem category is among the preferred domains, and partial credit
// (0.5, not 0) on a mismatch.
type DomainFit struct{}

func (DomainFit) Name() string { return DimensionDomainFit }

func (DomainFit) Score(p *problem.Problem, t *team.Profile) float64 {
	if len(t.PreferredDomains) == 0 {
		return 1
	}

	category := strings.ToLower(strings.TrimSpace(p.Category))
	for _, domain := range t.PreferredDomains {
		if strings.ToLower(strings.TrimSpace(domain)) == category {
			return 1
		}
	}
	return 0.5
}

// TimeFeasibility scores whether the problem's estimated duration fits
// into the weeks remaining until the team deadline. The reference time is
// fixed at construction so one ranking call is internally consistent.
type TimeFeasibility struct {
	Now time.Time
}

func (TimeFeasibility) Name() string { return DimensionTimeFeasibility }

func (s TimeFeasibility) Score(p *problem.Problem, t *team.Profile) float64 {
	remaining, ok := t.RemainingWeeks(s.Now)
	if !ok {
		// No deadline configured: time is unconstrained.
		return 1
	}
	if remaining <= 0 {
		return 0
	}

	estimated := float64(p.EstimatedDurationWeeks)
	if estimated <= 0 || estimated <= remaining {
		return 1
	}
	return remaining / estimated
}

// TeamSizeFit scores 1.0 when the team size falls within the problem's
// [min,max] bounds inclusive and 0 otherwise. Missing bounds are
// unconstrained.
type TeamSizeFit struct{}

func (TeamSizeFit) Name() string { return DimensionTeamSizeFit }

func (TeamSizeFit) Score(p *problem.Problem, t *team.Profile) float64 {
	if p.MinTeamSize > 0 && t.Size < p.MinTeamSize {
		return 0
	}
	if p.MaxTeamSize > 0 && t.Size > p.MaxTeamSize {
		return 0
	}
	return 1
}
