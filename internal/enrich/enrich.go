// Package enrich layers optional semantic signals onto an already-ranked
// match list: embedding-based text relevance and generated narratives.
// Everything here is best-effort; a failure never invalidates a ranking.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teamfit/teamfit/internal/ai"
	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/ranking"
	"github.com/teamfit/teamfit/internal/scoring"
	"github.com/teamfit/teamfit/internal/team"
	"github.com/teamfit/teamfit/internal/utils"
)

//go:embed recommendation.md
var recommendationTemplate string

//go:embed skillgap.md
var skillGapTemplate string

const (
	defaultConcurrency  = 4
	defaultCallTimeout  = 30 * time.Second
	defaultMaxLogLength = 200
)

// Config tunes the enricher's external calls.
type Config struct {
	// Concurrency bounds parallel narrative requests to respect external
	// rate limits.
	Concurrency int
	// CallTimeout applies independently to every external call.
	CallTimeout time.Duration
	// MaxLogLength truncates prompt/response previews in debug logs.
	MaxLogLength int
}

// Enricher attaches embedding similarity and narrative annotations using
// external AI capabilities.
type Enricher struct {
	embedder    ai.Embedder
	generator   ai.Generator
	logger      *zap.Logger
	concurrency int
	timeout     time.Duration
	maxLogLen   int
}

func New(embedder ai.Embedder, generator ai.Generator, logger *zap.Logger, cfg Config) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Enricher{
		embedder:    embedder,
		generator:   generator,
		logger:      logger,
		concurrency: cfg.Concurrency,
		timeout:     cfg.CallTimeout,
		maxLogLen:   cfg.MaxLogLength,
	}
}

// TextRelevance embeds the team profile and every candidate description in
// one batch and returns the cosine similarity per problem ID, clamped to
// [0,1]. The result plugs into ranking.Options.TextRelevance. An error
// here means the caller should fall back to the TF-IDF scores.
func (e *Enricher) TextRelevance(ctx context.Context, problems *problem.Problems, profile *team.Profile) (map[string]float64, error) {
	if e == nil || e.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}
	if problems.Len() == 0 {
		return map[string]float64{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	texts := make([]string, 0, problems.Len()+1)
	texts = append(texts, profileNarrative(profile))
	for _, p := range problems.Items {
		texts = append(texts, p.Description)
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidate batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}

	profileVec := vectors[0]
	scores := make(map[string]float64, problems.Len())
	for i, p := range problems.Items {
		scores[p.ID] = scoring.CosineSimilarity(profileVec, vectors[i+1])
	}

	e.logger.Debug("computed embedding relevance", zap.Int("candidates", problems.Len()))
	return scores, nil
}

// Annotate generates the recommendation and skill-gap narratives for every
// match, concurrently with a bounded worker limit. Each call degrades
// independently to its fixed fallback string; caller cancellation abandons
// the remaining calls and leaves those narratives empty.
func (e *Enricher) Annotate(ctx context.Context, matches *ranking.Matches, profile *team.Profile) {
	if e == nil || e.generator == nil || matches.Len() == 0 {
		return
	}

	var group errgroup.Group
	group.SetLimit(e.concurrency)

	for _, match := range matches.Items {
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			match.Recommendation = e.narrative(ctx, recommendationPrompt(match, profile), ai.FallbackRecommendation, match.Problem.ID)
			return nil
		})
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			match.SkillGap = e.narrative(ctx, skillGapPrompt(match.Problem, profile), ai.FallbackSkillGap, match.Problem.ID)
			return nil
		})
	}

	group.Wait() //nolint:errcheck // workers never return errors
}

// narrative runs one generation call with its own timeout and substitutes
// the fallback on failure. Cancellation propagates as an empty narrative.
func (e *Enricher) narrative(ctx context.Context, prompt, fallback, problemID string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("narrative request",
		zap.String("problem_id", problemID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	text, err := e.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return ""
		}
		e.logger.Warn("narrative generation failed",
			zap.String("problem_id", problemID),
			zap.Error(err),
		)
		return fallback
	}

	e.logger.Debug("narrative response",
		zap.String("problem_id", problemID),
		zap.String("response_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	return strings.TrimSpace(text)
}

// profileNarrative renders a team profile as the natural language block
// fed to the embedding and generation capabilities.
func profileNarrative(profile *team.Profile) string {
	deadline := "not specified"
	if d := profile.ResolveDeadline(time.Now()); !d.IsZero() {
		deadline = d.Format("2006-01-02")
	}

	return fmt.Sprintf(`Team Profile:
- Size: %d members
- Experience Level: %s
- Skills: %s
- Project Deadline: %s`,
		profile.Size,
		profile.ExperienceLevel,
		strings.Join(profile.SkillNames(), ", "),
		deadline,
	)
}

func recommendationPrompt(match *ranking.Match, profile *team.Profile) string {
	prompt := strings.ReplaceAll(recommendationTemplate, "{{TEAM_PROFILE}}", profileNarrative(profile))
	prompt = strings.ReplaceAll(prompt, "{{PROBLEM_DESCRIPTION}}", match.Problem.Description)
	prompt = strings.ReplaceAll(prompt, "{{MATCH_SCORE}}", fmt.Sprintf("%.2f", match.Score))
	return prompt
}

func skillGapPrompt(p *problem.Problem, profile *team.Profile) string {
	missing := MissingSkills(p, profile)
	missingText := "None"
	if len(missing) > 0 {
		missingText = strings.Join(missing, ", ")
	}

	prompt := strings.ReplaceAll(skillGapTemplate, "{{TEAM_SKILLS}}", strings.Join(profile.SkillNames(), ", "))
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_LEVEL}}", profile.ExperienceLevel)
	prompt = strings.ReplaceAll(prompt, "{{REQUIRED_SKILLS}}", strings.Join(p.RequiredSkills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{MISSING_SKILLS}}", missingText)
	return prompt
}

// MissingSkills returns the problem's required skills the team does not
// cover, case-insensitively, preserving the problem's declaration order.
func MissingSkills(p *problem.Problem, profile *team.Profile) []string {
	teamSkills := profile.SkillSet()

	missing := make([]string, 0, len(p.RequiredSkills))
	seen := make(map[string]bool)
	for _, skill := range p.RequiredSkills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := teamSkills[key]; !ok {
			missing = append(missing, strings.TrimSpace(skill))
		}
	}
	return missing
}
