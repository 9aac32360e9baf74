package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamfit/teamfit/internal/scoring"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			weights, err := Preset(name)
			require.NoError(t, err)
			assert.NoError(t, weights.Validate())
		})
	}
}

func TestPresetUnknown(t *testing.T) {
	_, err := Preset("aggressive")
	assert.Error(t, err)
}

func TestPresetReturnsCopy(t *testing.T) {
	first, err := Preset("classic")
	require.NoError(t, err)
	first[scoring.DimensionSkillMatch] = 0

	second, err := Preset("classic")
	require.NoError(t, err)
	assert.Equal(t, 0.6, second[scoring.DimensionSkillMatch])
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"empty", Weights{}, true},
		{"valid", Weights{scoring.DimensionSkillMatch: 0.6, scoring.DimensionTextRelevance: 0.4}, false},
		{"does not sum", Weights{scoring.DimensionSkillMatch: 0.6, scoring.DimensionTextRelevance: 0.3}, true},
		{"unknown dimension", Weights{"vibes": 1.0}, true},
		{"negative weight", Weights{scoring.DimensionSkillMatch: 1.5, scoring.DimensionTextRelevance: -0.5}, true},
		{"single dimension", Weights{scoring.DimensionSkillMatch: 1.0}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.weights.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDimensionsStableOrder(t *testing.T) {
	weights := Weights{
		scoring.DimensionTextRelevance: 0.4,
		scoring.DimensionSkillMatch:    0.6,
	}
	assert.Equal(t, []string{scoring.DimensionSkillMatch, scoring.DimensionTextRelevance}, weights.Dimensions())
}
