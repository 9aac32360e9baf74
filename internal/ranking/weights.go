package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/teamfit/teamfit/internal/scoring"
)

// Weights maps dimension names to their share of the total score. Only
// dimensions present in the table are scored at all; the table must be
// explicit and complete for the scheme in use and sum to 1.0.
type Weights map[string]float64

const weightSumTolerance = 1e-9

var knownDimensions = map[string]bool{
	scoring.DimensionSkillMatch:      true,
	scoring.DimensionTextRelevance:   true,
	scoring.DimensionDifficultyFit:   true,
	scoring.DimensionDomainFit:       true,
	scoring.DimensionTimeFeasibility: true,
	scoring.DimensionTeamSizeFit:     true,
}

// presets are the weighting schemes shipped out of the box.
var presets = map[string]Weights{
	// classic is the original two-dimension scheme: tech stack overlap
	// against textual relevance.
	"classic": {
		scoring.DimensionSkillMatch:    0.6,
		scoring.DimensionTextRelevance: 0.4,
	},
	// balanced spreads the weight over skills, text, difficulty and domain.
	"balanced": {
		scoring.DimensionSkillMatch:    0.35,
		scoring.DimensionTextRelevance: 0.25,
		scoring.DimensionDifficultyFit: 0.20,
		scoring.DimensionDomainFit:     0.20,
	},
	// full scores every dimension, including deadline and team size fit.
	"full": {
		scoring.DimensionSkillMatch:      0.30,
		scoring.DimensionTextRelevance:   0.20,
		scoring.DimensionDifficultyFit:   0.15,
		scoring.DimensionDomainFit:       0.10,
		scoring.DimensionTimeFeasibility: 0.15,
		scoring.DimensionTeamSizeFit:     0.10,
	},
}

// DefaultPreset is used when the configuration names neither a preset nor
// an explicit weight table.
const DefaultPreset = "balanced"

// Preset returns a copy of a named built-in weighting scheme.
func Preset(name string) (Weights, error) {
	preset, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown weights preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}

	weights := make(Weights, len(preset))
	for dimension, weight := range preset {
		weights[dimension] = weight
	}
	return weights, nil
}

// PresetNames lists the built-in schemes in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the sum-to-1.0 invariant and rejects unknown dimension
// names. Meant to run once at startup, not per request.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("weights table must not be empty")
	}

	sum := 0.0
	for dimension, weight := range w {
		if !knownDimensions[dimension] {
			return fmt.Errorf("unknown dimension %q in weights table", dimension)
		}
		if weight < 0 {
			return fmt.Errorf("dimension %q has negative weight %v", dimension, weight)
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Dimensions returns the configured dimension names in stable order.
func (w Weights) Dimensions() []string {
	dimensions := make([]string, 0, len(w))
	for dimension := range w {
		dimensions = append(dimensions, dimension)
	}
	sort.Strings(dimensions)
	return dimensions
}
