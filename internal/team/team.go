package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Skill is one technical skill of a team together with the self-reported
// proficiency level ("Beginner", "Intermediate", "Expert").
type Skill struct {
	Name  string `mapstructure:"name" json:"name"`
	Level string `mapstructure:"level" json:"level"`
}

// Profile describes the team a ranking request is made for. Profiles are
// supplied per request and never persisted by the matching engine.
type Profile struct {
	Size             int      `json:"size"`
	ExperienceLevel  string   `json:"experience_level"`
	Skills           []Skill  `json:"skills"`
	PreferredDomains []string `json:"preferred_domains,omitempty"`

	// Deadline is the absolute project deadline. DeadlineDays is an
	// alternative relative form; when set it takes precedence and is
	// resolved against the current time.
	Deadline     time.Time `json:"deadline,omitzero"`
	DeadlineDays int       `json:"deadline_days,omitempty"`
}

// Validate reports configuration problems that make a profile unusable.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("team profile is required")
	}
	if p.Size <= 0 {
		return fmt.Errorf("team size must be positive, got %d", p.Size)
	}
	for i, skill := range p.Skills {
		if strings.TrimSpace(skill.Name) == "" {
			return fmt.Errorf("team skill %d has an empty name", i)
		}
	}
	return nil
}

// SkillNames returns the team skill names in declaration order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, skill := range p.Skills {
		names = append(names, skill.Name)
	}
	return names
}

// SkillSet returns the team skills lowercased and trimmed as a set.
func (p *Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, skill := range p.Skills {
		name := strings.ToLower(strings.TrimSpace(skill.Name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// ProfileText renders the profile as one text blob for vectorization: the
// skill names joined with the experience level.
func (p *Profile) ProfileText() string {
	return strings.TrimSpace(strings.Join(p.SkillNames(), " ") + " " + p.ExperienceLevel)
}

// ResolveDeadline returns the effective absolute deadline. A relative
// DeadlineDays wins over an absolute Deadline; a zero result means the
// profile carries no deadline at all.
func (p *Profile) ResolveDeadline(now time.Time) time.Time {
	if p.DeadlineDays > 0 {
		return now.AddDate(0, 0, p.DeadlineDays)
	}
	return p.Deadline
}

// RemainingWeeks returns the weeks left until the effective deadline.
// Negative values mean the deadline already passed. A profile without any
// deadline reports ok=false.
func (p *Profile) RemainingWeeks(now time.Time) (weeks float64, ok bool) {
	deadline := p.ResolveDeadline(now)
	if deadline.IsZero() {
		return 0, false
	}
	return deadline.Sub(now).Hours() / (24 * 7), true
}
