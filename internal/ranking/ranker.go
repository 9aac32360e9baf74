package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teamfit/teamfit/internal/problem"
	"github.com/teamfit/teamfit/internal/scoring"
	"github.com/teamfit/teamfit/internal/team"
)

// DefaultLimit caps the result size when the caller does not ask for a
// specific one.
const DefaultLimit = 10

// Ranker combines per-dimension scores into one weighted total and orders
// candidates by it. A Ranker is safe for concurrent use: all per-request
// state lives inside Rank.
type Ranker struct {
	weights Weights
	logger  *zap.Logger
	now     func() time.Time
}

// NewRanker validates the weight table once and returns a ready ranker.
func NewRanker(weights Weights, logger *zap.Logger) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ranker{
		weights: weights,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Weights returns the weight table the ranker was built with.
func (r *Ranker) Weights() Weights { return r.weights }

// Options tune one ranking call.
type Options struct {
	// Limit truncates the result after filtering. Zero means DefaultLimit.
	Limit int
	// MinScore drops candidates scoring strictly below it before
	// truncation.
	MinScore float64
	// TextRelevance optionally replaces the TF-IDF text relevance scores
	// with externally computed ones (embedding similarity), keyed by
	// problem ID. Missing entries score 0.
	TextRelevance map[string]float64
}

// Rank scores every candidate against the team profile, sorts descending
// by total score with input order as the tie-break, applies the MinScore
// filter and truncates to the limit. An empty candidate set yields an
// empty result, not an error.
func (r *Ranker) Rank(ctx context.Context, problems *problem.Problems, profile *team.Profile, opts Options) (*Matches, error) {
	if problems.Len() == 0 {
		r.logger.Debug("ranking requested for empty candidate set")
		return &Matches{}, nil
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	scorers := r.scorers(problems, profile, opts)

	// Candidates are scored independently against shared immutable
	// inputs, so the pass parallelizes with no shared mutable state.
	matches := make([]*Match, problems.Len())
	group, ctx := errgroup.WithContext(ctx)
	for i, p := range problems.Items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches[i] = r.score(p, profile, scorers)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	filtered := make([]*Match, 0, len(matches))
	for _, match := range matches {
		if match.Score < opts.MinScore {
			continue
		}
		filtered = append(filtered, match)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	r.logger.Debug("ranking pass finished",
		zap.Int("candidates", problems.Len()),
		zap.Int("returned", len(filtered)),
		zap.Float64("min_score", opts.MinScore),
	)

	return &Matches{Items: filtered}, nil
}

// scorers builds the scorer set for one ranking call. The text relevance
// scorer carries per-call vectorizer state and is rebuilt every time.
func (r *Ranker) scorers(problems *problem.Problems, profile *team.Profile, opts Options) map[string]scoring.Scorer {
	scorers := make(map[string]scoring.Scorer, len(r.weights))
	for dimension := range r.weights {
		switch dimension {
		case scoring.DimensionSkillMatch:
			scorers[dimension] = scoring.SkillMatch{}
		case scoring.DimensionTextRelevance:
			if opts.TextRelevance != nil {
				scorers[dimension] = overrideScorer{name: dimension, scores: opts.TextRelevance}
			} else {
				scorers[dimension] = scoring.NewTextRelevance(problems, profile)
			}
		case scoring.DimensionDifficultyFit:
			scorers[dimension] = scoring.DifficultyFit{}
		case scoring.DimensionDomainFit:
			scorers[dimension] = scoring.DomainFit{}
		case scoring.DimensionTimeFeasibility:
			scorers[dimension] = scoring.TimeFeasibility{Now: r.now()}
		case scoring.DimensionTeamSizeFit:
			scorers[dimension] = scoring.TeamSizeFit{}
		}
	}
	return scorers
}

func (r *Ranker) score(p *problem.Problem, profile *team.Profile, scorers map[string]scoring.Scorer) *Match {
	match := &Match{
		Problem:   p,
		Breakdown: make(map[string]DimensionScore, len(scorers)),
	}

	for dimension, scorer := range scorers {
		weight := r.weights[dimension]
		raw := scoring.Clamp01(scorer.Score(p, profile))
		weighted := raw * weight

		match.Breakdown[dimension] = DimensionScore{
			Raw:      raw,
			Weight:   weight,
			Weighted: weighted,
		}
		match.Score += weighted
	}

	return match
}

// overrideScorer serves externally supplied per-problem scores for one
// dimension.
type overrideScorer struct {
	name   string
	scores map[string]float64
}

func (s overrideScorer) Name() string { return s.name }

func (s overrideScorer) Score(p *problem.Problem, _ *team.Profile) float64 {
	return scoring.Clamp01(s.scores[p.ID])
}
