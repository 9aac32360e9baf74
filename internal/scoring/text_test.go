package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/team"
)

func problemsOf(descriptions ...string) *problem.Problems {
	ps := &problem.Problems{}
	for i, description := range descriptions {
		ps.Items = append(ps.Items, &problem.Problem{
			ID:          string(rune('a' + i)),
			Description: description,
		})
	}
	return ps
}

func TestTextRelevanceIdenticalText(t *testing.T) {
	profile := profileWithSkills("machine", "learning")
	profile.ExperienceLevel = "models"

	ps := problemsOf("machine learning models")
	relevance := NewTextRelevance(ps, profile)

	score := relevance.Score(ps.Items[0], profile)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestTextRelevanceDisjointText(t *testing.T) {
	profile := profileWithSkills("kubernetes", "terraform")

	ps := problemsOf("build mobile game graphics engine")
	relevance := NewTextRelevance(ps, profile)

	assert.Equal(t, 0.0, relevance.Score(ps.Items[0], profile))
}

func TestTextRelevanceRelativeOrder(t *testing.T) {
	profile := profileWithSkills("python", "data", "pipelines")

	ps := problemsOf(
		"develop python data pipelines for analytics",
		"design a logo for the marketing team",
	)
	relevance := NewTextRelevance(ps, profile)

	related := relevance.Score(ps.Items[0], profile)
	unrelated := relevance.Score(ps.Items[1], profile)
	assert.Greater(t, related, unrelated)
}

func TestTextRelevanceEmptyVocabulary(t *testing.T) {
	// Stopwords only: everything is filtered and similarity is defined
	// as 0 instead of NaN.
	profile := &team.Profile{Size: 1, ExperienceLevel: "the"}

	ps := problemsOf("and or of the")
	relevance := NewTextRelevance(ps, profile)

	assert.Equal(t, 0.0, relevance.Score(ps.Items[0], profile))
}

func TestTextRelevanceScoresWithinRange(t *testing.T) {
	profile := profileWithSkills("go", "grpc", "postgres")

	ps := problemsOf(
		"implement a go service with grpc and postgres storage",
		"create a mobile app",
		"requirements gathering workshop",
	)
	relevance := NewTextRelevance(ps, profile)

	for _, p := range ps.Items {
		score := relevance.Score(p, profile)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	// Opposite vectors clamp to 0 rather than going negative.
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 1}, []float64{-1, -1}))
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Build THE real-time data pipeline, for IoT!")
	assert.Equal(t, []string{"build", "real-time", "data", "pipeline", "iot"}, tokens)
}
