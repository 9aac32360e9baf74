package team

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		wantErr string
	}{
		{"valid", &Profile{Size: 3, Skills: []Skill{{Name: "Go"}}}, ""},
		{"nil", nil, "team profile is required"},
		{"zero size", &Profile{Size: 0}, "team size must be positive"},
		{"negative size", &Profile{Size: -2}, "team size must be positive"},
		{"blank skill", &Profile{Size: 1, Skills: []Skill{{Name: "  "}}}, "empty name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProfileSkillSet(t *testing.T) {
	profile := &Profile{Skills: []Skill{
		{Name: " Python "},
		{Name: "python"},
		{Name: "Go"},
		{Name: ""},
	}}

	set := profile.SkillSet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "python")
	assert.Contains(t, set, "go")
}

func TestProfileText(t *testing.T) {
	profile := &Profile{
		ExperienceLevel: "advanced",
		Skills:          []Skill{{Name: "Python"}, {Name: "Terraform"}},
	}
	assert.Equal(t, "Python Terraform advanced", profile.ProfileText())

	empty := &Profile{}
	assert.Equal(t, "", empty.ProfileText())
}

func TestResolveDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	absolute := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	profile := &Profile{Deadline: absolute}
	assert.Equal(t, absolute, profile.ResolveDeadline(now))

	// Relative days win over the absolute form.
	profile.DeadlineDays = 14
	assert.Equal(t, now.AddDate(0, 0, 14), profile.ResolveDeadline(now))

	assert.True(t, (&Profile{}).ResolveDeadline(now).IsZero())
}

func TestRemainingWeeks(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	profile := &Profile{Deadline: now.AddDate(0, 0, 28)}
	weeks, ok := profile.RemainingWeeks(now)
	require.True(t, ok)
	assert.InDelta(t, 4.0, weeks, 1e-9)

	past := &Profile{Deadline: now.AddDate(0, 0, -7)}
	weeks, ok = past.RemainingWeeks(now)
	require.True(t, ok)
	assert.InDelta(t, -1.0, weeks, 1e-9)

	_, ok = (&Profile{}).RemainingWeeks(now)
	assert.False(t, ok)
}
