package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamfit/teamfit/internal/ai"
	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/ranking"
	"github.com/teamfit/teamfit/internal/team"
)

type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	err     error
	respond func(prompt string) string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	if s.respond != nil {
		return s.respond(prompt), nil
	}
	return "ok", nil
}

func (s *stubGenerator) Model() string { return "stub" }

type stubEmbedder struct {
	vectors [][]float64
	err     error
	texts   []string
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	s.texts = texts
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func testMatches(titles ...string) *ranking.Matches {
	matches := &ranking.Matches{}
	for i, title := range titles {
		matches.Items = append(matches.Items, &ranking.Match{
			Problem: &problem.Problem{
				ID:             fmt.Sprintf("p-%d", i),
				Title:          title,
				Description:    "Build a data pipeline for " + title,
				RequiredSkills: []string{"Python", "Kafka"},
			},
			Score: 0.9 - float64(i)*0.1,
		})
	}
	return matches
}

func testTeam() *team.Profile {
	return &team.Profile{
		Size:            4,
		ExperienceLevel: "intermediate",
		Skills: []team.Skill{
			{Name: "Python", Level: "Expert"},
			{Name: "Go", Level: "Intermediate"},
		},
	}
}

func TestAnnotateFillsNarratives(t *testing.T) {
	gen := &stubGenerator{respond: func(string) string { return "  looks like a fit  " }}
	enricher := New(nil, gen, nil, Config{})

	matches := testMatches("alpha", "beta")
	enricher.Annotate(context.Background(), matches, testTeam())

	for _, match := range matches.Items {
		assert.Equal(t, "looks like a fit", match.Recommendation)
		assert.Equal(t, "looks like a fit", match.SkillGap)
	}
	assert.Equal(t, 4, gen.calls)
}

func TestAnnotateFallbackOnFailure(t *testing.T) {
	// A generator that always fails must not disturb the list: every
	// match keeps its position and carries the fixed fallback text.
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	enricher := New(nil, gen, nil, Config{Concurrency: 2})

	matches := testMatches("alpha", "beta", "gamma")
	enricher.Annotate(context.Background(), matches, testTeam())

	require.Len(t, matches.Items, 3)
	assert.Equal(t, "alpha", matches.Items[0].Problem.Title)
	assert.Equal(t, "gamma", matches.Items[2].Problem.Title)
	for _, match := range matches.Items {
		assert.Equal(t, ai.FallbackRecommendation, match.Recommendation)
		assert.Equal(t, ai.FallbackSkillGap, match.SkillGap)
	}
}

func TestAnnotateCancelledContext(t *testing.T) {
	gen := &stubGenerator{}
	enricher := New(nil, gen, nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches := testMatches("alpha")
	enricher.Annotate(ctx, matches, testTeam())

	assert.Empty(t, matches.Items[0].Recommendation)
	assert.Empty(t, matches.Items[0].SkillGap)
	assert.Zero(t, gen.calls)
}

func TestAnnotateNilGenerator(t *testing.T) {
	enricher := New(nil, nil, nil, Config{})
	matches := testMatches("alpha")

	enricher.Annotate(context.Background(), matches, testTeam())
	assert.Empty(t, matches.Items[0].Recommendation)
}

func TestTextRelevance(t *testing.T) {
	embedder := &stubEmbedder{vectors: [][]float64{
		{1, 0},   // profile
		{1, 0},   // identical direction
		{0, 1},   // orthogonal
		{-1, 0},  // opposite, clamped
	}}
	enricher := New(embedder, nil, nil, Config{})

	problems := &problem.Problems{Items: []*problem.Problem{
		{ID: "a", Description: "stream processing"},
		{ID: "b", Description: "mobile app"},
		{ID: "c", Description: "firmware"},
	}}

	scores, err := enricher.TextRelevance(context.Background(), problems, testTeam())
	require.NoError(t, err)
	require.Len(t, embedder.texts, 4)
	assert.Contains(t, embedder.texts[0], "Team Profile:")

	assert.InDelta(t, 1.0, scores["a"], 1e-9)
	assert.InDelta(t, 0.0, scores["b"], 1e-9)
	assert.InDelta(t, 0.0, scores["c"], 1e-9)
}

func TestTextRelevanceEmbedError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("backend unavailable")}
	enricher := New(embedder, nil, nil, Config{})

	problems := &problem.Problems{Items: []*problem.Problem{{ID: "a", Description: "x"}}}
	_, err := enricher.TextRelevance(context.Background(), problems, testTeam())
	require.Error(t, err)
}

func TestTextRelevanceCountMismatch(t *testing.T) {
	embedder := &stubEmbedder{vectors: [][]float64{{1, 0}}}
	enricher := New(embedder, nil, nil, Config{})

	problems := &problem.Problems{Items: []*problem.Problem{{ID: "a", Description: "x"}}}
	_, err := enricher.TextRelevance(context.Background(), problems, testTeam())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestTextRelevanceNoEmbedder(t *testing.T) {
	enricher := New(nil, nil, nil, Config{})
	_, err := enricher.TextRelevance(context.Background(), &problem.Problems{}, testTeam())
	require.Error(t, err)
}

func TestProfileNarrativeDeadline(t *testing.T) {
	profile := testTeam()
	assert.Contains(t, profileNarrative(profile), "Project Deadline: not specified")

	profile.Deadline = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, profileNarrative(profile), "Project Deadline: 2026-10-01")
}

func TestRecommendationPrompt(t *testing.T) {
	match := testMatches("alpha").Items[0]
	match.Score = 0.8125

	prompt := recommendationPrompt(match, testTeam())
	assert.Contains(t, prompt, match.Problem.Description)
	assert.Contains(t, prompt, "0.81")
	assert.NotContains(t, prompt, "{{")
}

func TestSkillGapPrompt(t *testing.T) {
	p := &problem.Problem{RequiredSkills: []string{"Python", "Kafka"}}

	prompt := skillGapPrompt(p, testTeam())
	assert.Contains(t, prompt, "Kafka")
	assert.NotContains(t, prompt, "{{")

	// Everything covered: the gap section reads "None".
	covered := &problem.Problem{RequiredSkills: []string{"python"}}
	assert.Contains(t, skillGapPrompt(covered, testTeam()), "None")
}

func TestMissingSkills(t *testing.T) {
	profile := testTeam()

	tests := []struct {
		name     string
		required []string
		want     []string
	}{
		{"partial overlap", []string{"Python", "Kafka", "Go"}, []string{"Kafka"}},
		{"case insensitive", []string{"PYTHON", "go"}, []string{}},
		{"duplicates collapsed", []string{"Rust", "rust", "Rust"}, []string{"Rust"}},
		{"empty required", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingSkills(&problem.Problem{RequiredSkills: tt.required}, profile)
			assert.Equal(t, tt.want, got)
		})
	}
}
